package services

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"kna-archive-backend-go/internal/models"
	"kna-archive-backend-go/internal/optional"
)

type CreateRoleParams struct {
	ActivityID    string
	MemberID      string
	RoleName      *string
	CharacterName *string
	RoleType      *string
	Notes         *string
}

func CreateRole(db *sqlx.DB, params CreateRoleParams) (*models.Role, error) {
	activity, err := GetActivity(db, params.ActivityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrNotFound("Activiteit niet gevonden.")
	}
	member, err := GetMember(db, params.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotFound("Lid niet gevonden.")
	}
	role := models.Role{}
	err = db.Get(&role, `
INSERT INTO roles (activity_id, member_id, role_name, character_name, role_type, notes)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id, activity_id, member_id, role_name, character_name, role_type, notes
`, params.ActivityID, params.MemberID, trimPtr(params.RoleName), trimPtr(params.CharacterName),
		trimPtr(params.RoleType), params.Notes)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func GetRole(db *sqlx.DB, id int) (*models.Role, error) {
	role := models.Role{}
	err := db.Get(&role, `
SELECT id, activity_id, member_id, role_name, character_name, role_type, notes
FROM roles WHERE id = $1
`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func ListRolesForActivity(db *sqlx.DB, activityID, roleType string) ([]RoleWithMember, error) {
	args := []interface{}{activityID}
	query := `
SELECT r.id, r.activity_id, r.member_id, r.role_name, r.character_name, r.role_type, r.notes,
       m.first_name AS member_first_name, m.last_name AS member_last_name
FROM roles r
JOIN members m ON m.id = r.member_id
WHERE r.activity_id = $1`
	if value := strings.TrimSpace(roleType); value != "" {
		args = append(args, strings.ToLower(value))
		query += fmt.Sprintf(" AND lower(coalesce(r.role_type, '')) = $%d", len(args))
	}
	query += "\nORDER BY r.role_name NULLS LAST, r.id"
	roles := []RoleWithMember{}
	if err := db.Select(&roles, query, args...); err != nil {
		return nil, err
	}
	return roles, nil
}

type RoleWithActivity struct {
	models.Role
	ActivityTitle string `db:"activity_title" json:"activityTitle"`
	ActivityYear  *int   `db:"activity_year" json:"activityYear"`
}

func ListRolesForMember(db *sqlx.DB, memberID string, limit int) ([]RoleWithActivity, error) {
	if limit < 1 {
		limit = 100
	}
	roles := []RoleWithActivity{}
	err := db.Select(&roles, `
SELECT r.id, r.activity_id, r.member_id, r.role_name, r.character_name, r.role_type, r.notes,
       a.title AS activity_title, a.year AS activity_year
FROM roles r
JOIN activities a ON a.id = r.activity_id
WHERE r.member_id = $1
ORDER BY a.year DESC NULLS LAST, r.id
LIMIT $2
`, memberID, limit)
	return roles, err
}

type RolePatch struct {
	RoleName      optional.Optional[*string]
	CharacterName optional.Optional[*string]
	RoleType      optional.Optional[*string]
	Notes         optional.Optional[*string]
}

func UpdateRole(db *sqlx.DB, id int, patch RolePatch) (*models.Role, error) {
	set := newSetBuilder()
	if patch.RoleName.IsSet {
		set.add("role_name", trimPtr(patch.RoleName.Val))
	}
	if patch.CharacterName.IsSet {
		set.add("character_name", trimPtr(patch.CharacterName.Val))
	}
	if patch.RoleType.IsSet {
		set.add("role_type", trimPtr(patch.RoleType.Val))
	}
	if patch.Notes.IsSet {
		set.add("notes", patch.Notes.Val)
	}
	if set.empty() {
		return GetRole(db, id)
	}
	changed, err := set.exec(db, "roles", "id", id)
	if err != nil || !changed {
		return nil, err
	}
	return GetRole(db, id)
}

func DeleteRole(db *sqlx.DB, id int) (bool, error) {
	result, err := db.Exec(`DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	count, _ := result.RowsAffected()
	return count > 0, nil
}

// SplitActorName splits a full name on the last token: the final word becomes
// the last name, everything before it the first name. A name with fewer than
// two tokens is treated as first-name-only. Multi-word surnames come out
// wrong; that is inherent to the input format.
func SplitActorName(fullName string) (firstName, lastName string) {
	parts := strings.Fields(strings.TrimSpace(fullName))
	if len(parts) >= 2 {
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
	return strings.TrimSpace(fullName), ""
}

// findOrCreateMemberByName resolves an actor name to an existing member via
// fuzzy matching, creating one through the quick-create path when nothing
// matches.
func findOrCreateMemberByName(db *sqlx.DB, fullName string) (*models.Member, error) {
	firstName, lastName := SplitActorName(fullName)
	member, err := FindMemberByName(db, firstName, lastName)
	if err != nil {
		return nil, err
	}
	if member != nil {
		return member, nil
	}
	return QuickCreateMember(db, firstName, lastName, "")
}

type BulkRoleResult struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

// BulkCreateRolesFromText parses a program text into role assignments for one
// activity. Each non-blank line reads "<role name><delimiter><actor name>".
// Processing is best effort: a bad line records a message and the batch
// continues; the result is never an error for per-line problems.
func BulkCreateRolesFromText(db *sqlx.DB, activityID, programText, delimiter string) (BulkRoleResult, error) {
	if delimiter == "" {
		delimiter = "–"
	}
	activity, err := GetActivity(db, activityID)
	if err != nil {
		return BulkRoleResult{}, err
	}
	if activity == nil {
		return BulkRoleResult{}, ErrNotFound("Activiteit niet gevonden.")
	}

	result := BulkRoleResult{Errors: []string{}}
	for _, raw := range strings.Split(programText, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !strings.Contains(line, delimiter) {
			result.Errors = append(result.Errors, "Skipped (no delimiter): "+line)
			continue
		}
		parts := strings.SplitN(line, delimiter, 2)
		roleName := strings.TrimSpace(parts[0])
		actorName := strings.TrimSpace(parts[1])
		if roleName == "" || actorName == "" {
			result.Errors = append(result.Errors, "Skipped (empty field): "+line)
			continue
		}

		member, err := findOrCreateMemberByName(db, actorName)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Error processing '%s': %v", line, err))
			continue
		}

		var exists bool
		if err := db.Get(&exists, `
SELECT EXISTS(SELECT 1 FROM roles WHERE activity_id = $1 AND member_id = $2 AND role_name = $3)
`, activityID, member.ID, roleName); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Error processing '%s': %v", line, err))
			continue
		}
		if exists {
			result.Errors = append(result.Errors, fmt.Sprintf("Already exists: %s %s %s", roleName, delimiter, actorName))
			continue
		}

		if _, err := CreateRole(db, CreateRoleParams{
			ActivityID: activityID,
			MemberID:   member.ID,
			RoleName:   &roleName,
		}); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Error processing '%s': %v", line, err))
			continue
		}
		result.Created++
	}
	return result, nil
}
