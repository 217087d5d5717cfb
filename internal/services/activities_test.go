package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kna-archive-backend-go/internal/optional"
)

func TestCreateActivityDerivesIdAndFolder(t *testing.T) {
	db := testDB(t)

	activity, err := CreateActivity(db, CreateActivityParams{Title: "De Drie Musketiers", Year: intPtr(1987)})
	require.NoError(t, err)
	assert.Equal(t, "1987-de-drie-musketiers", activity.ID)
	require.NotNil(t, activity.Folder)
	assert.Equal(t, "1987-de-drie-musketiers", *activity.Folder)
	assert.Equal(t, DefaultActivityType, activity.Type)
}

func TestCreateActivityFolderCollisionGetsSuffix(t *testing.T) {
	db := testDB(t)

	first, err := CreateActivity(db, CreateActivityParams{Title: "Revue", Year: intPtr(2001)})
	require.NoError(t, err)
	second, err := CreateActivity(db, CreateActivityParams{Title: "Revue!", Year: intPtr(2001)})
	require.NoError(t, err)

	require.NotNil(t, first.Folder)
	require.NotNil(t, second.Folder)
	assert.Equal(t, "2001-revue", *first.Folder)
	assert.Equal(t, "2001-revue-1", *second.Folder)
	assert.Equal(t, "2001-revue-1", second.ID)
}

func TestCreateActivityExplicitFolder(t *testing.T) {
	db := testDB(t)
	folder := "archiefmap"
	activity, err := CreateActivity(db, CreateActivityParams{Title: "Klucht", Folder: &folder})
	require.NoError(t, err)
	require.NotNil(t, activity.Folder)
	assert.Equal(t, "archiefmap", *activity.Folder)
}

func TestListActivitiesYearFilterAndOrdering(t *testing.T) {
	db := testDB(t)

	for _, tc := range []struct {
		title string
		year  *int
	}{
		{"Alpha", intPtr(1990)},
		{"Beta", intPtr(1990)},
		{"Gamma", intPtr(1985)},
		{"Zonder Jaar", nil},
	} {
		_, err := CreateActivity(db, CreateActivityParams{Title: tc.title, Year: tc.year})
		require.NoError(t, err)
	}

	filtered, err := ListActivities(db, ListActivitiesOptions{Year: intPtr(1990)})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "Alpha", filtered[0].Title)
	assert.Equal(t, "Beta", filtered[1].Title)

	all, err := ListActivities(db, ListActivitiesOptions{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Alpha", all[0].Title)
	assert.Equal(t, "Gamma", all[2].Title)
	assert.Equal(t, "Zonder Jaar", all[3].Title)
}

func TestUpdateActivityPartial(t *testing.T) {
	db := testDB(t)
	activity, err := CreateActivity(db, CreateActivityParams{
		Title: "Hamlet", Year: intPtr(1999), Director: strPtr("Jan Jansen"),
	})
	require.NoError(t, err)

	updated, err := UpdateActivity(db, activity.ID, ActivityPatch{
		Title:    optional.Some("Hamlet (herzien)"),
		Director: optional.Some[*string](nil),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Hamlet (herzien)", updated.Title)
	assert.Nil(t, updated.Director)
	require.NotNil(t, updated.Year)
	assert.Equal(t, 1999, *updated.Year)

	// id and folder never change on update
	assert.Equal(t, activity.ID, updated.ID)
	assert.Equal(t, *activity.Folder, *updated.Folder)
}

func TestActivityDetail(t *testing.T) {
	db := testDB(t)
	activity, err := CreateActivity(db, CreateActivityParams{Title: "Hamlet", Year: intPtr(1999)})
	require.NoError(t, err)
	member, err := QuickCreateMember(db, "Jan", "Jansen", "")
	require.NoError(t, err)
	_, err = CreateRole(db, CreateRoleParams{ActivityID: activity.ID, MemberID: member.ID, RoleName: strPtr("Hamlet")})
	require.NoError(t, err)
	_, err = CreateMediaItem(db, CreateMediaItemParams{ActivityID: activity.ID, Filename: "scene.jpg", MediaType: "foto"})
	require.NoError(t, err)

	detail, err := GetActivityDetail(db, activity.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	require.Len(t, detail.Roles, 1)
	assert.Equal(t, "Jansen", detail.Roles[0].MemberLastName)
	require.Len(t, detail.Media, 1)
	assert.Equal(t, "scene.jpg", detail.Media[0].Filename)

	missing, err := GetActivityDetail(db, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTimelineGroupsByYear(t *testing.T) {
	db := testDB(t)
	_, err := CreateActivity(db, CreateActivityParams{Title: "Oud", Year: intPtr(1950)})
	require.NoError(t, err)
	_, err = CreateActivity(db, CreateActivityParams{Title: "Nieuw", Year: intPtr(2000)})
	require.NoError(t, err)

	years, err := Timeline(db)
	require.NoError(t, err)
	require.Len(t, years, 2)
	assert.Equal(t, 2000, years[0].Year)
	assert.Equal(t, 1950, years[1].Year)
	require.Len(t, years[0].Events, 1)
	assert.Equal(t, "Nieuw", years[0].Events[0].Title)
}
