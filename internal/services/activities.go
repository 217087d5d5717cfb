package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"kna-archive-backend-go/internal/models"
	"kna-archive-backend-go/internal/optional"
)

const DefaultActivityType = "uitvoering"

type CreateActivityParams struct {
	Title       string
	Type        string
	StartDate   *time.Time
	EndDate     *time.Time
	Year        *int
	Author      *string
	Director    *string
	Folder      *string
	Description *string
}

// CreateActivity derives the activity id and a unique on-disk folder name from
// the year and title; both are immutable afterwards. Folder collisions get an
// incrementing counter suffix.
func CreateActivity(db *sqlx.DB, params CreateActivityParams) (*models.Activity, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrBadRequest("Titel is verplicht.")
	}
	activityType := strings.TrimSpace(params.Type)
	if activityType == "" {
		activityType = DefaultActivityType
	}

	base := Slugify(title)
	if params.Year != nil {
		base = strconv.Itoa(*params.Year) + "-" + base
	}
	id, err := uniqueValue(db, `SELECT EXISTS(SELECT 1 FROM activities WHERE id = $1)`, base)
	if err != nil {
		return nil, err
	}

	folderBase := base
	if params.Folder != nil && strings.TrimSpace(*params.Folder) != "" {
		folderBase = strings.TrimSpace(*params.Folder)
	}
	folder, err := uniqueValue(db, `SELECT EXISTS(SELECT 1 FROM activities WHERE folder = $1)`, folderBase)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = db.Exec(`
INSERT INTO activities (id, title, type, start_date, end_date, year, author, director, folder, description, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11)
`, id, title, activityType, params.StartDate, params.EndDate, params.Year,
		trimPtr(params.Author), trimPtr(params.Director), folder, params.Description, now)
	if err != nil {
		return nil, err
	}
	return GetActivity(db, id)
}

// uniqueValue resolves base against an EXISTS query, appending -1, -2, ...
// until the candidate is free.
func uniqueValue(db *sqlx.DB, existsQuery, base string) (string, error) {
	candidate := base
	counter := 1
	for {
		var exists bool
		if err := db.Get(&exists, existsQuery, candidate); err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(counter)
		counter++
	}
}

func GetActivity(db *sqlx.DB, id string) (*models.Activity, error) {
	activity := models.Activity{}
	err := db.Get(&activity, `
SELECT id, title, type, start_date, end_date, year, author, director, folder, description, created_at, updated_at
FROM activities WHERE id = $1
`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

type RoleWithMember struct {
	models.Role
	MemberFirstName string `db:"member_first_name" json:"memberFirstName"`
	MemberLastName  string `db:"member_last_name" json:"memberLastName"`
}

type ActivityDetail struct {
	Activity models.Activity    `json:"activity"`
	Roles    []RoleWithMember   `json:"roles"`
	Media    []models.MediaItem `json:"media"`
}

// GetActivityDetail eager-loads the roles (with member names) and media items
// so callers render a detail page from one lookup.
func GetActivityDetail(db *sqlx.DB, id string) (*ActivityDetail, error) {
	activity, err := GetActivity(db, id)
	if err != nil || activity == nil {
		return nil, err
	}
	roles, err := ListRolesForActivity(db, id, "")
	if err != nil {
		return nil, err
	}
	media, err := ListMediaForActivity(db, id, "", 500, 0)
	if err != nil {
		return nil, err
	}
	return &ActivityDetail{Activity: *activity, Roles: roles, Media: media}, nil
}

type ListActivitiesOptions struct {
	Year   *int
	Type   string
	Search string
	Limit  int
	Offset int
}

func ListActivities(db *sqlx.DB, opts ListActivitiesOptions) ([]models.Activity, error) {
	if opts.Limit < 1 {
		opts.Limit = 50
	}
	args := []interface{}{}
	where := []string{}
	if opts.Year != nil {
		args = append(args, *opts.Year)
		where = append(where, fmt.Sprintf("year = $%d", len(args)))
	}
	if value := strings.TrimSpace(opts.Type); value != "" {
		args = append(args, strings.ToLower(value))
		where = append(where, fmt.Sprintf("lower(type) = $%d", len(args)))
	}
	if term := strings.TrimSpace(opts.Search); term != "" {
		args = append(args, "%"+strings.ToLower(term)+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(lower(title) LIKE $"+n+" OR lower(coalesce(description, '')) LIKE $"+n+")")
	}
	query := `
SELECT id, title, type, start_date, end_date, year, author, director, folder, description, created_at, updated_at
FROM activities`
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	args = append(args, opts.Limit, opts.Offset)
	query += fmt.Sprintf("\nORDER BY year DESC NULLS LAST, title\nLIMIT $%d OFFSET $%d", len(args)-1, len(args))
	activities := []models.Activity{}
	if err := db.Select(&activities, query, args...); err != nil {
		return nil, err
	}
	return activities, nil
}

type ActivityPatch struct {
	Title       optional.Optional[string]
	Type        optional.Optional[string]
	StartDate   optional.Optional[*time.Time]
	EndDate     optional.Optional[*time.Time]
	Year        optional.Optional[*int]
	Author      optional.Optional[*string]
	Director    optional.Optional[*string]
	Description optional.Optional[*string]
}

func UpdateActivity(db *sqlx.DB, id string, patch ActivityPatch) (*models.Activity, error) {
	set := newSetBuilder()
	if patch.Title.IsSet {
		value := strings.TrimSpace(patch.Title.Val)
		if value == "" {
			return nil, ErrBadRequest("Titel mag niet leeg zijn.")
		}
		set.add("title", value)
	}
	if patch.Type.IsSet {
		value := strings.TrimSpace(patch.Type.Val)
		if value == "" {
			return nil, ErrBadRequest("Type mag niet leeg zijn.")
		}
		set.add("type", value)
	}
	if patch.StartDate.IsSet {
		set.add("start_date", patch.StartDate.Val)
	}
	if patch.EndDate.IsSet {
		set.add("end_date", patch.EndDate.Val)
	}
	if patch.Year.IsSet {
		set.add("year", patch.Year.Val)
	}
	if patch.Author.IsSet {
		set.add("author", trimPtr(patch.Author.Val))
	}
	if patch.Director.IsSet {
		set.add("director", trimPtr(patch.Director.Val))
	}
	if patch.Description.IsSet {
		set.add("description", patch.Description.Val)
	}
	if set.empty() {
		return GetActivity(db, id)
	}
	set.add("updated_at", time.Now().UTC())
	changed, err := set.exec(db, "activities", "id", id)
	if err != nil || !changed {
		return nil, err
	}
	return GetActivity(db, id)
}

func DeleteActivity(db *sqlx.DB, id string) (bool, error) {
	result, err := db.Exec(`DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	count, _ := result.RowsAffected()
	return count > 0, nil
}

type TimelineYear struct {
	Year       int               `json:"year"`
	Events     []models.Activity `json:"events"`
	NewMembers []models.Member   `json:"newMembers"`
}

// Timeline groups activities and first-joined (GDPR-visible) members by year,
// newest year first.
func Timeline(db *sqlx.DB) ([]TimelineYear, error) {
	activities := []models.Activity{}
	if err := db.Select(&activities, `
SELECT id, title, type, start_date, end_date, year, author, director, folder, description, created_at, updated_at
FROM activities
ORDER BY year DESC NULLS LAST, start_date DESC NULLS LAST
`); err != nil {
		return nil, err
	}

	joinRows := []struct {
		models.Member
		JoinDate *time.Time `db:"join_date"`
	}{}
	if err := db.Select(&joinRows, `
SELECT m.id, m.first_name, m.last_name, m.birth_date, m.gdpr_visible, m.notes, m.created_at, m.updated_at,
       min(p.join_date) AS join_date
FROM members m
LEFT JOIN membership_periods p ON p.member_id = m.id
WHERE m.gdpr_visible
GROUP BY m.id
ORDER BY min(p.join_date)
`); err != nil {
		return nil, err
	}

	byYear := map[int]*TimelineYear{}
	entry := func(year int) *TimelineYear {
		if byYear[year] == nil {
			byYear[year] = &TimelineYear{Year: year}
		}
		return byYear[year]
	}
	for _, activity := range activities {
		year := 0
		if activity.Year != nil {
			year = *activity.Year
		} else if activity.StartDate != nil {
			year = activity.StartDate.Year()
		}
		if year == 0 {
			continue
		}
		e := entry(year)
		e.Events = append(e.Events, activity)
	}
	for _, row := range joinRows {
		if row.JoinDate == nil {
			continue
		}
		e := entry(row.JoinDate.Year())
		e.NewMembers = append(e.NewMembers, row.Member)
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	timeline := make([]TimelineYear, 0, len(years))
	for _, year := range years {
		timeline = append(timeline, *byYear[year])
	}
	return timeline, nil
}
