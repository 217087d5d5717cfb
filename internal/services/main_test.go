package services

import (
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"kna-archive-backend-go/internal/migrations"
)

// testDB opens the database named by TEST_DATABASE_URL, applies migrations
// and wipes all rows. Tests needing a database skip when the variable is
// unset.
func testDB(t *testing.T) *sqlx.DB {
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
	return db
}
