package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"kna-archive-backend-go/internal/models"
	"kna-archive-backend-go/internal/optional"
)

// UnknownMediaType is the code assigned to fresh uploads before curation.
const UnknownMediaType = "onbekend"

// EnsureMediaType registers a media-type code when unseen and returns the
// normalized code. The lookup set is open: any non-empty code is accepted.
func EnsureMediaType(db *sqlx.DB, code string, description *string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "", ErrBadRequest("Mediatype is verplicht.")
	}
	if description == nil {
		capitalized := strings.ToUpper(code[:1]) + code[1:]
		description = &capitalized
	}
	_, err := db.Exec(`
INSERT INTO media_types (code, description)
VALUES ($1,$2)
ON CONFLICT (code) DO NOTHING
`, code, description)
	if err != nil {
		return "", err
	}
	return code, nil
}

func ListMediaTypes(db *sqlx.DB) ([]models.MediaType, error) {
	types := []models.MediaType{}
	err := db.Select(&types, `SELECT code, description FROM media_types ORDER BY code`)
	return types, err
}

type CreateMediaItemParams struct {
	ActivityID    string
	Filename      string
	MediaType     string
	FileExtension *string
	StoragePath   *string
	CaptureDate   *time.Time
	Caption       *string
	Credit        *string
	DisplayOrder  int
}

func CreateMediaItem(db *sqlx.DB, params CreateMediaItemParams) (*models.MediaItem, error) {
	filename := strings.TrimSpace(params.Filename)
	if params.ActivityID == "" || filename == "" || strings.TrimSpace(params.MediaType) == "" {
		return nil, ErrBadRequest("Activiteit, bestandsnaam en mediatype zijn verplicht.")
	}
	activity, err := GetActivity(db, params.ActivityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrNotFound("Activiteit niet gevonden.")
	}
	mediaType, err := EnsureMediaType(db, params.MediaType, nil)
	if err != nil {
		return nil, err
	}
	var extension *string
	if params.FileExtension != nil && strings.TrimSpace(*params.FileExtension) != "" {
		value := strings.ToLower(strings.TrimSpace(*params.FileExtension))
		extension = &value
	}
	item := models.MediaItem{}
	err = db.Get(&item, `
INSERT INTO media_items (activity_id, filename, media_type, file_extension, storage_path, capture_date, caption, credit, display_order)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING id, activity_id, filename, media_type, file_extension, storage_path, capture_date, caption, credit, display_order
`, params.ActivityID, filename, mediaType, extension, params.StoragePath,
		params.CaptureDate, params.Caption, trimPtr(params.Credit), params.DisplayOrder)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func GetMediaItem(db *sqlx.DB, id int) (*models.MediaItem, error) {
	item := models.MediaItem{}
	err := db.Get(&item, `
SELECT id, activity_id, filename, media_type, file_extension, storage_path, capture_date, caption, credit, display_order
FROM media_items WHERE id = $1
`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func ListMediaForActivity(db *sqlx.DB, activityID, mediaType string, limit, offset int) ([]models.MediaItem, error) {
	if limit < 1 {
		limit = 50
	}
	args := []interface{}{activityID}
	query := `
SELECT id, activity_id, filename, media_type, file_extension, storage_path, capture_date, caption, credit, display_order
FROM media_items
WHERE activity_id = $1`
	if value := strings.TrimSpace(mediaType); value != "" {
		args = append(args, strings.ToLower(value))
		query += fmt.Sprintf(" AND media_type = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf("\nORDER BY display_order, filename\nLIMIT $%d OFFSET $%d", len(args)-1, len(args))
	items := []models.MediaItem{}
	if err := db.Select(&items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func SearchMedia(db *sqlx.DB, term string, limit int) ([]models.MediaItem, error) {
	if limit < 1 {
		limit = 50
	}
	items := []models.MediaItem{}
	like := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	err := db.Select(&items, `
SELECT id, activity_id, filename, media_type, file_extension, storage_path, capture_date, caption, credit, display_order
FROM media_items
WHERE lower(coalesce(caption, '')) LIKE $1 OR lower(filename) LIKE $1
ORDER BY id
LIMIT $2
`, like, limit)
	return items, err
}

type MediaItemPatch struct {
	Filename      optional.Optional[string]
	MediaType     optional.Optional[string]
	FileExtension optional.Optional[*string]
	StoragePath   optional.Optional[*string]
	CaptureDate   optional.Optional[*time.Time]
	Caption       optional.Optional[*string]
	Credit        optional.Optional[*string]
	DisplayOrder  optional.Optional[int]
}

func UpdateMediaItem(db *sqlx.DB, id int, patch MediaItemPatch) (*models.MediaItem, error) {
	set := newSetBuilder()
	if patch.Filename.IsSet {
		value := strings.TrimSpace(patch.Filename.Val)
		if value == "" {
			return nil, ErrBadRequest("Bestandsnaam mag niet leeg zijn.")
		}
		set.add("filename", value)
	}
	if patch.MediaType.IsSet {
		mediaType, err := EnsureMediaType(db, patch.MediaType.Val, nil)
		if err != nil {
			return nil, err
		}
		set.add("media_type", mediaType)
	}
	if patch.FileExtension.IsSet {
		value := patch.FileExtension.Val
		if value != nil {
			lowered := strings.ToLower(strings.TrimSpace(*value))
			if lowered == "" {
				value = nil
			} else {
				value = &lowered
			}
		}
		set.add("file_extension", value)
	}
	if patch.StoragePath.IsSet {
		set.add("storage_path", patch.StoragePath.Val)
	}
	if patch.CaptureDate.IsSet {
		set.add("capture_date", patch.CaptureDate.Val)
	}
	if patch.Caption.IsSet {
		set.add("caption", patch.Caption.Val)
	}
	if patch.Credit.IsSet {
		set.add("credit", trimPtr(patch.Credit.Val))
	}
	if patch.DisplayOrder.IsSet {
		set.add("display_order", patch.DisplayOrder.Val)
	}
	if set.empty() {
		return GetMediaItem(db, id)
	}
	changed, err := set.exec(db, "media_items", "id", id)
	if err != nil || !changed {
		return nil, err
	}
	return GetMediaItem(db, id)
}

func DeleteMediaItem(db *sqlx.DB, id int) (bool, error) {
	result, err := db.Exec(`DELETE FROM media_items WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	count, _ := result.RowsAffected()
	return count > 0, nil
}

// SaveUpload writes an uploaded file into the staging directory and records
// the matching media item with an uploads-relative storage path.
func SaveUpload(db *sqlx.DB, uploadDir, activityID, filename string, body io.Reader) (*models.MediaItem, error) {
	filename = sanitizeFilename(filename)
	if filename == "" {
		return nil, ErrBadRequest("Bestandsnaam is verplicht.")
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, err
	}
	targetPath := filepath.Join(uploadDir, filename)
	file, err := os.Create(targetPath)
	if err != nil {
		return nil, err
	}
	size, err := io.Copy(file, body)
	_ = file.Close()
	if err != nil {
		_ = os.Remove(targetPath)
		return nil, err
	}
	if size == 0 {
		_ = os.Remove(targetPath)
		return nil, ErrBadRequest("Het bestand is leeg.")
	}

	extension := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	var extensionPtr *string
	if extension != "" {
		extensionPtr = &extension
	}
	storagePath := "uploads/" + filename
	caption := filename
	item, err := CreateMediaItem(db, CreateMediaItemParams{
		ActivityID:    activityID,
		Filename:      filename,
		MediaType:     UnknownMediaType,
		FileExtension: extensionPtr,
		StoragePath:   &storagePath,
		Caption:       &caption,
	})
	if err != nil {
		_ = os.Remove(targetPath)
		return nil, err
	}
	return item, nil
}

// sanitizeFilename keeps only the base name and strips path separators so an
// upload cannot escape the staging directory.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(strings.TrimSpace(filename))
	filename = strings.ReplaceAll(filename, "..", "")
	if filename == "." || filename == string(filepath.Separator) {
		return ""
	}
	return filename
}

type CreateMediaAppearanceParams struct {
	MediaID      int
	MemberID     string
	RoleID       *int
	Context      *string
	DisplayOrder int
	Notes        *string
}

// CreateMediaAppearance links a member (optionally in a role) to a media item.
// A supplied role must belong to the same activity as the media item.
func CreateMediaAppearance(db *sqlx.DB, params CreateMediaAppearanceParams) (*models.MediaAppearance, error) {
	item, err := GetMediaItem(db, params.MediaID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound("Media-item niet gevonden.")
	}
	member, err := GetMember(db, params.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotFound("Lid niet gevonden.")
	}
	if params.RoleID != nil {
		role, err := GetRole(db, *params.RoleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, ErrNotFound("Rol niet gevonden.")
		}
		if role.ActivityID != item.ActivityID {
			return nil, ErrBadRequest("Rol hoort niet bij dezelfde activiteit als het media-item.")
		}
	}
	appearance := models.MediaAppearance{}
	err = db.Get(&appearance, `
INSERT INTO media_appearances (media_id, member_id, role_id, activity_id, context, display_order, notes)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id, media_id, member_id, role_id, activity_id, context, display_order, notes
`, params.MediaID, params.MemberID, params.RoleID, item.ActivityID,
		trimPtr(params.Context), params.DisplayOrder, params.Notes)
	if err != nil {
		return nil, err
	}
	return &appearance, nil
}

func GetMediaAppearance(db *sqlx.DB, id int) (*models.MediaAppearance, error) {
	appearance := models.MediaAppearance{}
	err := db.Get(&appearance, `
SELECT id, media_id, member_id, role_id, activity_id, context, display_order, notes
FROM media_appearances WHERE id = $1
`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &appearance, nil
}

type AppearanceWithMember struct {
	models.MediaAppearance
	MemberFirstName string `db:"member_first_name" json:"memberFirstName"`
	MemberLastName  string `db:"member_last_name" json:"memberLastName"`
}

func ListAppearancesForMedia(db *sqlx.DB, mediaID int) ([]AppearanceWithMember, error) {
	appearances := []AppearanceWithMember{}
	err := db.Select(&appearances, `
SELECT ap.id, ap.media_id, ap.member_id, ap.role_id, ap.activity_id, ap.context, ap.display_order, ap.notes,
       m.first_name AS member_first_name, m.last_name AS member_last_name
FROM media_appearances ap
JOIN members m ON m.id = ap.member_id
WHERE ap.media_id = $1
ORDER BY ap.display_order, ap.id
`, mediaID)
	return appearances, err
}

func ListMediaForMember(db *sqlx.DB, memberID string) ([]models.MediaItem, error) {
	items := []models.MediaItem{}
	err := db.Select(&items, `
SELECT i.id, i.activity_id, i.filename, i.media_type, i.file_extension, i.storage_path, i.capture_date, i.caption, i.credit, i.display_order
FROM media_items i
JOIN media_appearances ap ON ap.media_id = i.id
WHERE ap.member_id = $1
ORDER BY i.id
`, memberID)
	return items, err
}

type MediaAppearancePatch struct {
	RoleID       optional.Optional[*int]
	Context      optional.Optional[*string]
	DisplayOrder optional.Optional[int]
	Notes        optional.Optional[*string]
}

func UpdateMediaAppearance(db *sqlx.DB, id int, patch MediaAppearancePatch) (*models.MediaAppearance, error) {
	current, err := GetMediaAppearance(db, id)
	if err != nil || current == nil {
		return nil, err
	}
	set := newSetBuilder()
	if patch.RoleID.IsSet {
		if patch.RoleID.Val != nil {
			role, err := GetRole(db, *patch.RoleID.Val)
			if err != nil {
				return nil, err
			}
			if role == nil {
				return nil, ErrNotFound("Rol niet gevonden.")
			}
			if role.ActivityID != current.ActivityID {
				return nil, ErrBadRequest("Rol hoort niet bij dezelfde activiteit als het media-item.")
			}
		}
		set.add("role_id", patch.RoleID.Val)
	}
	if patch.Context.IsSet {
		set.add("context", trimPtr(patch.Context.Val))
	}
	if patch.DisplayOrder.IsSet {
		set.add("display_order", patch.DisplayOrder.Val)
	}
	if patch.Notes.IsSet {
		set.add("notes", patch.Notes.Val)
	}
	if set.empty() {
		return current, nil
	}
	changed, err := set.exec(db, "media_appearances", "id", id)
	if err != nil || !changed {
		return nil, err
	}
	return GetMediaAppearance(db, id)
}

func DeleteMediaAppearance(db *sqlx.DB, id int) (bool, error) {
	result, err := db.Exec(`DELETE FROM media_appearances WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	count, _ := result.RowsAffected()
	return count > 0, nil
}
