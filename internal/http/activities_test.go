package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kna-archive-backend-go/internal/config"
	"kna-archive-backend-go/internal/migrations"
	"kna-archive-backend-go/internal/services"
)

// testAPIServer wires a Server against the database named by
// TEST_DATABASE_URL, with migrations applied and all rows wiped. Tests
// needing it skip when the variable is unset.
func testAPIServer(t *testing.T) *Server {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sqlx.Open("pgx", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, migrations.Apply(db, "../../migrations"))
	t.Cleanup(func() { _ = db.Close() })

	tables := []string{
		"mention_media_items", "mention_activities", "mention_members",
		"media_appearances", "media_mentions", "media_items", "media_types",
		"roles", "activity_locations", "locations",
		"membership_periods", "member_name_history", "members",
		"activities", "server_metric_samples",
	}
	for _, table := range tables {
		_, err := db.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
	return &Server{DB: db, Config: config.Config{
		UploadPath:    t.TempDir(),
		ResourcesPath: t.TempDir(),
	}}
}

func TestBulkAssignMedia(t *testing.T) {
	server := testAPIServer(t)
	router := server.Router()

	activity, err := services.CreateActivity(server.DB, services.CreateActivityParams{Title: "Hamlet", Year: intPtr(1999)})
	require.NoError(t, err)
	member, err := services.QuickCreateMember(server.DB, "Jan", "Jansen", "")
	require.NoError(t, err)
	roleName := "Hamlet"
	role, err := services.CreateRole(server.DB, services.CreateRoleParams{
		ActivityID: activity.ID,
		MemberID:   member.ID,
		RoleName:   &roleName,
	})
	require.NoError(t, err)
	item, err := services.CreateMediaItem(server.DB, services.CreateMediaItemParams{
		ActivityID: activity.ID,
		Filename:   "scene.jpg",
		MediaType:  "foto",
	})
	require.NoError(t, err)

	t.Run("assigns members with roles and bulk context", func(t *testing.T) {
		body, err := json.Marshal(BulkAssignRequest{
			MediaIDs:  []int{item.ID},
			MemberIDs: []string{member.ID},
			RoleIDs:   []int{role.ID},
		})
		require.NoError(t, err)
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("POST", "/api/activities/"+activity.ID+"/bulk-assign", bytes.NewReader(body))
		router.ServeHTTP(recorder, request)
		require.Equal(t, 200, recorder.Code)

		var resp BulkAssignResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Appearances)
		assert.Empty(t, resp.Errors)

		appearances, err := services.ListAppearancesForMedia(server.DB, item.ID)
		require.NoError(t, err)
		require.Len(t, appearances, 1)
		require.NotNil(t, appearances[0].RoleID)
		assert.Equal(t, role.ID, *appearances[0].RoleID)
		require.NotNil(t, appearances[0].Context)
		assert.Equal(t, "bulk toegewezen", *appearances[0].Context)
	})

	t.Run("rejects a role list that does not match the members", func(t *testing.T) {
		body, err := json.Marshal(BulkAssignRequest{
			MediaIDs:  []int{item.ID},
			MemberIDs: []string{member.ID},
			RoleIDs:   []int{role.ID, role.ID},
		})
		require.NoError(t, err)
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("POST", "/api/activities/"+activity.ID+"/bulk-assign", bytes.NewReader(body))
		router.ServeHTTP(recorder, request)
		assert.Equal(t, 400, recorder.Code)
	})
}

func intPtr(v int) *int { return &v }
