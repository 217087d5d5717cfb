package services

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"kna-archive-backend-go/internal/models"
)

type CreateLocationParams struct {
	ID          string
	Name        string
	Address     *string
	City        *string
	Country     *string
	VenueType   *string
	Coordinates *string
}

func CreateLocation(db *sqlx.DB, params CreateLocationParams) (*models.Location, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrBadRequest("Naam is verplicht.")
	}
	id := strings.TrimSpace(params.ID)
	if id == "" {
		resolved, err := uniqueValue(db, `SELECT EXISTS(SELECT 1 FROM locations WHERE id = $1)`, Slugify(name))
		if err != nil {
			return nil, err
		}
		id = resolved
	}
	_, err := db.Exec(`
INSERT INTO locations (id, name, address, city, country, venue_type, coordinates)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, id, name, trimPtr(params.Address), trimPtr(params.City), trimPtr(params.Country),
		trimPtr(params.VenueType), trimPtr(params.Coordinates))
	if err != nil {
		return nil, err
	}
	return GetLocation(db, id)
}

func GetLocation(db *sqlx.DB, id string) (*models.Location, error) {
	location := models.Location{}
	err := db.Get(&location, `
SELECT id, name, address, city, country, venue_type, coordinates
FROM locations WHERE id = $1
`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

func ListLocations(db *sqlx.DB) ([]models.Location, error) {
	locations := []models.Location{}
	err := db.Select(&locations, `
SELECT id, name, address, city, country, venue_type, coordinates
FROM locations
ORDER BY name
`)
	return locations, err
}

func DeleteLocation(db *sqlx.DB, id string) (bool, error) {
	result, err := db.Exec(`DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	count, _ := result.RowsAffected()
	return count > 0, nil
}

func LinkActivityLocation(db *sqlx.DB, activityID, locationID string) error {
	activity, err := GetActivity(db, activityID)
	if err != nil {
		return err
	}
	if activity == nil {
		return ErrNotFound("Activiteit niet gevonden.")
	}
	location, err := GetLocation(db, locationID)
	if err != nil {
		return err
	}
	if location == nil {
		return ErrNotFound("Locatie niet gevonden.")
	}
	_, err = db.Exec(`
INSERT INTO activity_locations (activity_id, location_id)
VALUES ($1,$2)
ON CONFLICT (activity_id, location_id) DO NOTHING
`, activityID, locationID)
	return err
}

func UnlinkActivityLocation(db *sqlx.DB, activityID, locationID string) (bool, error) {
	result, err := db.Exec(`DELETE FROM activity_locations WHERE activity_id = $1 AND location_id = $2`, activityID, locationID)
	if err != nil {
		return false, err
	}
	count, _ := result.RowsAffected()
	return count > 0, nil
}

func ListLocationsForActivity(db *sqlx.DB, activityID string) ([]models.Location, error) {
	locations := []models.Location{}
	err := db.Select(&locations, `
SELECT l.id, l.name, l.address, l.city, l.country, l.venue_type, l.coordinates
FROM locations l
JOIN activity_locations al ON al.location_id = l.id
WHERE al.activity_id = $1
ORDER BY l.name
`, activityID)
	return locations, err
}
