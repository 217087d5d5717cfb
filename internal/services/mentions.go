package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"kna-archive-backend-go/internal/models"
	"kna-archive-backend-go/internal/optional"
)

type CreateMentionParams struct {
	MentionDate *time.Time
	Source      string
	Title       string
	URL         *string
	MediaType   *string
	Description *string
	Notes       *string
}

func CreateMention(db *sqlx.DB, params CreateMentionParams) (*models.MediaMention, error) {
	source := strings.TrimSpace(params.Source)
	title := strings.TrimSpace(params.Title)
	if source == "" || title == "" {
		return nil, ErrBadRequest("Bron en titel zijn verplicht.")
	}
	mention := models.MediaMention{}
	err := db.Get(&mention, `
INSERT INTO media_mentions (mention_date, source, title, url, media_type, description, notes)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id, mention_date, source, title, url, media_type, description, notes
`, params.MentionDate, source, title, trimPtr(params.URL), trimPtr(params.MediaType),
		params.Description, params.Notes)
	if err != nil {
		return nil, err
	}
	return &mention, nil
}

func GetMention(db *sqlx.DB, id int) (*models.MediaMention, error) {
	mention := models.MediaMention{}
	err := db.Get(&mention, `
SELECT id, mention_date, source, title, url, media_type, description, notes
FROM media_mentions WHERE id = $1
`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &mention, nil
}

type ListMentionsOptions struct {
	From      *time.Time
	To        *time.Time
	Source    string
	MediaType string
	Limit     int
	Offset    int
}

func ListMentions(db *sqlx.DB, opts ListMentionsOptions) ([]models.MediaMention, error) {
	if opts.Limit < 1 {
		opts.Limit = 50
	}
	where := []string{}
	args := []interface{}{}
	if opts.From != nil {
		args = append(args, *opts.From)
		where = append(where, fmt.Sprintf("mention_date >= $%d", len(args)))
	}
	if opts.To != nil {
		args = append(args, *opts.To)
		where = append(where, fmt.Sprintf("mention_date <= $%d", len(args)))
	}
	if value := strings.TrimSpace(opts.Source); value != "" {
		args = append(args, "%"+strings.ToLower(value)+"%")
		where = append(where, fmt.Sprintf("lower(source) LIKE $%d", len(args)))
	}
	if value := strings.TrimSpace(opts.MediaType); value != "" {
		args = append(args, strings.ToLower(value))
		where = append(where, fmt.Sprintf("lower(coalesce(media_type, '')) = $%d", len(args)))
	}
	query := `
SELECT id, mention_date, source, title, url, media_type, description, notes
FROM media_mentions`
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	args = append(args, opts.Limit, opts.Offset)
	query += fmt.Sprintf("\nORDER BY mention_date DESC NULLS LAST, title\nLIMIT $%d OFFSET $%d", len(args)-1, len(args))
	mentions := []models.MediaMention{}
	if err := db.Select(&mentions, query, args...); err != nil {
		return nil, err
	}
	return mentions, nil
}

type MentionPatch struct {
	MentionDate optional.Optional[*time.Time]
	Source      optional.Optional[string]
	Title       optional.Optional[string]
	URL         optional.Optional[*string]
	MediaType   optional.Optional[*string]
	Description optional.Optional[*string]
	Notes       optional.Optional[*string]
}

func UpdateMention(db *sqlx.DB, id int, patch MentionPatch) (*models.MediaMention, error) {
	set := newSetBuilder()
	if patch.MentionDate.IsSet {
		set.add("mention_date", patch.MentionDate.Val)
	}
	if patch.Source.IsSet {
		value := strings.TrimSpace(patch.Source.Val)
		if value == "" {
			return nil, ErrBadRequest("Bron mag niet leeg zijn.")
		}
		set.add("source", value)
	}
	if patch.Title.IsSet {
		value := strings.TrimSpace(patch.Title.Val)
		if value == "" {
			return nil, ErrBadRequest("Titel mag niet leeg zijn.")
		}
		set.add("title", value)
	}
	if patch.URL.IsSet {
		set.add("url", trimPtr(patch.URL.Val))
	}
	if patch.MediaType.IsSet {
		set.add("media_type", trimPtr(patch.MediaType.Val))
	}
	if patch.Description.IsSet {
		set.add("description", patch.Description.Val)
	}
	if patch.Notes.IsSet {
		set.add("notes", patch.Notes.Val)
	}
	if set.empty() {
		return GetMention(db, id)
	}
	changed, err := set.exec(db, "media_mentions", "id", id)
	if err != nil || !changed {
		return nil, err
	}
	return GetMention(db, id)
}

func DeleteMention(db *sqlx.DB, id int) (bool, error) {
	result, err := db.Exec(`DELETE FROM media_mentions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	count, _ := result.RowsAffected()
	return count > 0, nil
}

func LinkMentionMember(db *sqlx.DB, mentionID int, memberID string, roleContext, notes *string) error {
	mention, err := GetMention(db, mentionID)
	if err != nil {
		return err
	}
	if mention == nil {
		return ErrNotFound("Vermelding niet gevonden.")
	}
	member, err := GetMember(db, memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrNotFound("Lid niet gevonden.")
	}
	_, err = db.Exec(`
INSERT INTO mention_members (mention_id, member_id, role_context, notes)
VALUES ($1,$2,$3,$4)
ON CONFLICT (mention_id, member_id) DO NOTHING
`, mentionID, memberID, trimPtr(roleContext), notes)
	return err
}

func UnlinkMentionMember(db *sqlx.DB, mentionID int, memberID string) (bool, error) {
	result, err := db.Exec(`DELETE FROM mention_members WHERE mention_id = $1 AND member_id = $2`, mentionID, memberID)
	if err != nil {
		return false, err
	}
	count, _ := result.RowsAffected()
	return count > 0, nil
}

func LinkMentionActivity(db *sqlx.DB, mentionID int, activityID string, relevance, notes *string) error {
	mention, err := GetMention(db, mentionID)
	if err != nil {
		return err
	}
	if mention == nil {
		return ErrNotFound("Vermelding niet gevonden.")
	}
	activity, err := GetActivity(db, activityID)
	if err != nil {
		return err
	}
	if activity == nil {
		return ErrNotFound("Activiteit niet gevonden.")
	}
	_, err = db.Exec(`
INSERT INTO mention_activities (mention_id, activity_id, relevance, notes)
VALUES ($1,$2,$3,$4)
ON CONFLICT (mention_id, activity_id) DO NOTHING
`, mentionID, activityID, trimPtr(relevance), notes)
	return err
}

func UnlinkMentionActivity(db *sqlx.DB, mentionID int, activityID string) (bool, error) {
	result, err := db.Exec(`DELETE FROM mention_activities WHERE mention_id = $1 AND activity_id = $2`, mentionID, activityID)
	if err != nil {
		return false, err
	}
	count, _ := result.RowsAffected()
	return count > 0, nil
}

func LinkMentionMediaItem(db *sqlx.DB, mentionID, mediaID int, pageNumber *int, notes *string) error {
	mention, err := GetMention(db, mentionID)
	if err != nil {
		return err
	}
	if mention == nil {
		return ErrNotFound("Vermelding niet gevonden.")
	}
	item, err := GetMediaItem(db, mediaID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotFound("Media-item niet gevonden.")
	}
	_, err = db.Exec(`
INSERT INTO mention_media_items (mention_id, media_id, page_number, notes)
VALUES ($1,$2,$3,$4)
ON CONFLICT (mention_id, media_id) DO NOTHING
`, mentionID, mediaID, pageNumber, notes)
	return err
}

func UnlinkMentionMediaItem(db *sqlx.DB, mentionID, mediaID int) (bool, error) {
	result, err := db.Exec(`DELETE FROM mention_media_items WHERE mention_id = $1 AND media_id = $2`, mentionID, mediaID)
	if err != nil {
		return false, err
	}
	count, _ := result.RowsAffected()
	return count > 0, nil
}

type MentionLinks struct {
	Members    []models.MentionMember    `json:"members"`
	Activities []models.MentionActivity  `json:"activities"`
	MediaItems []models.MentionMediaItem `json:"mediaItems"`
}

func ListMentionLinks(db *sqlx.DB, mentionID int) (*MentionLinks, error) {
	mention, err := GetMention(db, mentionID)
	if err != nil {
		return nil, err
	}
	if mention == nil {
		return nil, ErrNotFound("Vermelding niet gevonden.")
	}
	links := MentionLinks{
		Members:    []models.MentionMember{},
		Activities: []models.MentionActivity{},
		MediaItems: []models.MentionMediaItem{},
	}
	if err := db.Select(&links.Members, `
SELECT mention_id, member_id, role_context, notes FROM mention_members WHERE mention_id = $1 ORDER BY member_id
`, mentionID); err != nil {
		return nil, err
	}
	if err := db.Select(&links.Activities, `
SELECT mention_id, activity_id, relevance, notes FROM mention_activities WHERE mention_id = $1 ORDER BY activity_id
`, mentionID); err != nil {
		return nil, err
	}
	if err := db.Select(&links.MediaItems, `
SELECT mention_id, media_id, page_number, notes FROM mention_media_items WHERE mention_id = $1 ORDER BY media_id
`, mentionID); err != nil {
		return nil, err
	}
	return &links, nil
}

func ListMentionsForMember(db *sqlx.DB, memberID string) ([]models.MediaMention, error) {
	mentions := []models.MediaMention{}
	err := db.Select(&mentions, `
SELECT mm.id, mm.mention_date, mm.source, mm.title, mm.url, mm.media_type, mm.description, mm.notes
FROM media_mentions mm
JOIN mention_members link ON link.mention_id = mm.id
WHERE link.member_id = $1
ORDER BY mm.mention_date DESC NULLS LAST, mm.title
`, memberID)
	return mentions, err
}

func ListMentionsForActivity(db *sqlx.DB, activityID string) ([]models.MediaMention, error) {
	mentions := []models.MediaMention{}
	err := db.Select(&mentions, `
SELECT mm.id, mm.mention_date, mm.source, mm.title, mm.url, mm.media_type, mm.description, mm.notes
FROM media_mentions mm
JOIN mention_activities link ON link.mention_id = mm.id
WHERE link.activity_id = $1
ORDER BY mm.mention_date DESC NULLS LAST, mm.title
`, activityID)
	return mentions, err
}
