package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"kna-archive-backend-go/internal/models"
	"kna-archive-backend-go/internal/optional"
)

type CreateMemberParams struct {
	ID          string
	FirstName   string
	LastName    string
	BirthDate   *time.Time
	GdprVisible bool
	Notes       *string
}

func CreateMember(db *sqlx.DB, params CreateMemberParams) (*models.Member, error) {
	id := strings.TrimSpace(params.ID)
	firstName := strings.TrimSpace(params.FirstName)
	lastName := strings.TrimSpace(params.LastName)
	if id == "" || firstName == "" || lastName == "" {
		return nil, ErrBadRequest("Id, voornaam en achternaam zijn verplicht.")
	}
	existing, err := GetMember(db, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict("Lid met dit id bestaat al.")
	}
	now := time.Now().UTC()
	_, err = db.Exec(`
INSERT INTO members (id, first_name, last_name, birth_date, gdpr_visible, notes, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
`, id, firstName, lastName, params.BirthDate, params.GdprVisible, params.Notes, now)
	if err != nil {
		return nil, err
	}
	return GetMember(db, id)
}

// QuickCreateMember creates a member with a derived id when none is supplied:
// slugified "last-first", suffixed with an incrementing counter on collision.
func QuickCreateMember(db *sqlx.DB, firstName, lastName, id string) (*models.Member, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" && lastName == "" {
		return nil, ErrBadRequest("Voornaam en achternaam zijn verplicht.")
	}
	if strings.TrimSpace(id) == "" {
		base := Slugify(lastName + "-" + firstName)
		candidate := base
		counter := 1
		for {
			var exists bool
			if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)`, candidate); err != nil {
				return nil, err
			}
			if !exists {
				break
			}
			candidate = base + "-" + strconv.Itoa(counter)
			counter++
		}
		id = candidate
	}
	now := time.Now().UTC()
	_, err := db.Exec(`
INSERT INTO members (id, first_name, last_name, gdpr_visible, created_at, updated_at)
VALUES ($1,$2,$3,TRUE,$4,$4)
`, id, firstName, lastName, now)
	if err != nil {
		return nil, err
	}
	return GetMember(db, id)
}

func GetMember(db *sqlx.DB, id string) (*models.Member, error) {
	member := models.Member{}
	err := db.Get(&member, `
SELECT id, first_name, last_name, birth_date, gdpr_visible, notes, created_at, updated_at
FROM members WHERE id = $1
`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

type ListMembersOptions struct {
	VisibleOnly bool
	Search      string
	Limit       int
	Offset      int
}

func ListMembers(db *sqlx.DB, opts ListMembersOptions) ([]models.Member, error) {
	if opts.Limit < 1 {
		opts.Limit = 100
	}
	args := []interface{}{}
	where := []string{}
	if opts.VisibleOnly {
		where = append(where, "gdpr_visible")
	}
	if term := strings.TrimSpace(opts.Search); term != "" {
		args = append(args, "%"+strings.ToLower(term)+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(lower(first_name) LIKE $"+n+" OR lower(last_name) LIKE $"+n+" OR lower(id) LIKE $"+n+")")
	}
	query := `
SELECT id, first_name, last_name, birth_date, gdpr_visible, notes, created_at, updated_at
FROM members`
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	args = append(args, opts.Limit, opts.Offset)
	query += fmt.Sprintf("\nORDER BY last_name, first_name\nLIMIT $%d OFFSET $%d", len(args)-1, len(args))
	members := []models.Member{}
	if err := db.Select(&members, query, args...); err != nil {
		return nil, err
	}
	return members, nil
}

// FindMemberByName resolves a first/last name pair to an existing member by
// case-insensitive substring match on both parts. Matching is deliberately
// fuzzy: it can merge distinct people with similar names and miss renamed
// ones, which is inherent to free-text program input.
func FindMemberByName(db *sqlx.DB, firstName, lastName string) (*models.Member, error) {
	member := models.Member{}
	err := db.Get(&member, `
SELECT id, first_name, last_name, birth_date, gdpr_visible, notes, created_at, updated_at
FROM members
WHERE lower(first_name) LIKE $1 AND lower(last_name) LIKE $2
ORDER BY id
LIMIT 1
`, "%"+strings.ToLower(strings.TrimSpace(firstName))+"%", "%"+strings.ToLower(strings.TrimSpace(lastName))+"%")
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

type MemberPatch struct {
	FirstName   optional.Optional[string]
	LastName    optional.Optional[string]
	BirthDate   optional.Optional[*time.Time]
	GdprVisible optional.Optional[bool]
	Notes       optional.Optional[*string]
}

func UpdateMember(db *sqlx.DB, id string, patch MemberPatch) (*models.Member, error) {
	set := newSetBuilder()
	if patch.FirstName.IsSet {
		value := strings.TrimSpace(patch.FirstName.Val)
		if value == "" {
			return nil, ErrBadRequest("Voornaam mag niet leeg zijn.")
		}
		set.add("first_name", value)
	}
	if patch.LastName.IsSet {
		value := strings.TrimSpace(patch.LastName.Val)
		if value == "" {
			return nil, ErrBadRequest("Achternaam mag niet leeg zijn.")
		}
		set.add("last_name", value)
	}
	if patch.BirthDate.IsSet {
		set.add("birth_date", patch.BirthDate.Val)
	}
	if patch.GdprVisible.IsSet {
		set.add("gdpr_visible", patch.GdprVisible.Val)
	}
	if patch.Notes.IsSet {
		set.add("notes", patch.Notes.Val)
	}
	if set.empty() {
		return GetMember(db, id)
	}
	set.add("updated_at", time.Now().UTC())
	changed, err := set.exec(db, "members", "id", id)
	if err != nil || !changed {
		return nil, err
	}
	return GetMember(db, id)
}

func DeleteMember(db *sqlx.DB, id string) (bool, error) {
	result, err := db.Exec(`DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	count, _ := result.RowsAffected()
	return count > 0, nil
}

type AddNameHistoryParams struct {
	MemberID        string
	FirstName       string
	LastName        string
	ValidFrom       *time.Time
	ValidTo         *time.Time
	ChangeReason    *string
	Source          *string
	DisplayPriority int
	Notes           *string
}

func AddNameHistory(db *sqlx.DB, params AddNameHistoryParams) (*models.MemberNameHistory, error) {
	firstName := strings.TrimSpace(params.FirstName)
	lastName := strings.TrimSpace(params.LastName)
	if firstName == "" || lastName == "" {
		return nil, ErrBadRequest("Voornaam en achternaam zijn verplicht.")
	}
	member, err := GetMember(db, params.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotFound("Lid niet gevonden.")
	}
	if params.DisplayPriority == 0 {
		params.DisplayPriority = 10
	}
	entry := models.MemberNameHistory{}
	err = db.Get(&entry, `
INSERT INTO member_name_history (member_id, first_name, last_name, valid_from, valid_to, change_reason, source, display_priority, notes)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING id, member_id, first_name, last_name, valid_from, valid_to, change_reason, source, display_priority, notes
`, params.MemberID, firstName, lastName, params.ValidFrom, params.ValidTo, params.ChangeReason, params.Source, params.DisplayPriority, params.Notes)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func ListNameHistory(db *sqlx.DB, memberID string) ([]models.MemberNameHistory, error) {
	entries := []models.MemberNameHistory{}
	err := db.Select(&entries, `
SELECT id, member_id, first_name, last_name, valid_from, valid_to, change_reason, source, display_priority, notes
FROM member_name_history
WHERE member_id = $1
ORDER BY valid_from DESC NULLS LAST, display_priority
`, memberID)
	return entries, err
}

type AddMembershipPeriodParams struct {
	MemberID  string
	JoinDate  *time.Time
	LeaveDate *time.Time
	Status    *string
	Notes     *string
}

func AddMembershipPeriod(db *sqlx.DB, params AddMembershipPeriodParams) (*models.MembershipPeriod, error) {
	member, err := GetMember(db, params.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotFound("Lid niet gevonden.")
	}
	period := models.MembershipPeriod{}
	err = db.Get(&period, `
INSERT INTO membership_periods (member_id, join_date, leave_date, status, notes)
VALUES ($1,$2,$3,$4,$5)
RETURNING id, member_id, join_date, leave_date, status, notes
`, params.MemberID, params.JoinDate, params.LeaveDate, params.Status, params.Notes)
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func ListMembershipPeriods(db *sqlx.DB, memberID string) ([]models.MembershipPeriod, error) {
	periods := []models.MembershipPeriod{}
	err := db.Select(&periods, `
SELECT id, member_id, join_date, leave_date, status, notes
FROM membership_periods
WHERE member_id = $1
ORDER BY join_date NULLS LAST, id
`, memberID)
	return periods, err
}

type MemberInfo struct {
	Member   models.Member `json:"member"`
	QtyMedia int           `json:"qtyMedia"`
}

// MemberInfo returns a GDPR-visible member with the number of media items the
// member appears in. Hidden members are reported as absent.
func GetMemberInfo(db *sqlx.DB, id string) (*MemberInfo, error) {
	member, err := GetMember(db, id)
	if err != nil {
		return nil, err
	}
	if member == nil || !member.GdprVisible {
		return nil, nil
	}
	var qty int
	if err := db.Get(&qty, `SELECT count(*) FROM media_appearances WHERE member_id = $1`, id); err != nil {
		return nil, err
	}
	return &MemberInfo{Member: *member, QtyMedia: qty}, nil
}
