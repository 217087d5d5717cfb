package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"foto.jpg", "foto.jpg"},
		{"  foto.jpg  ", "foto.jpg"},
		{"../../etc/passwd", "passwd"},
		{"map/foto.jpg", "foto.jpg"},
		{"..", ""},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, sanitizeFilename(tc.input))
		})
	}
}

func TestEnsureMediaTypeNormalizes(t *testing.T) {
	db := testDB(t)

	code, err := EnsureMediaType(db, "  Foto ", nil)
	require.NoError(t, err)
	assert.Equal(t, "foto", code)

	// registering again is a no-op
	code, err = EnsureMediaType(db, "FOTO", nil)
	require.NoError(t, err)
	assert.Equal(t, "foto", code)

	types, err := ListMediaTypes(db)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "foto", types[0].Code)

	_, err = EnsureMediaType(db, "   ", nil)
	require.Error(t, err)
}

func TestCreateMediaItemRegistersType(t *testing.T) {
	db := testDB(t)
	activity, err := CreateActivity(db, CreateActivityParams{Title: "Hamlet", Year: intPtr(1999)})
	require.NoError(t, err)

	item, err := CreateMediaItem(db, CreateMediaItemParams{
		ActivityID: activity.ID,
		Filename:   "scene.JPG",
		MediaType:  "Programmaboekje",
	})
	require.NoError(t, err)
	assert.Equal(t, "programmaboekje", item.MediaType)

	_, err = CreateMediaItem(db, CreateMediaItemParams{ActivityID: "missing", Filename: "x.jpg", MediaType: "foto"})
	require.Error(t, err)
	serr, ok := err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 404, serr.Status)
}

func TestMediaAppearanceCrossActivityRejected(t *testing.T) {
	db := testDB(t)
	activityA, err := CreateActivity(db, CreateActivityParams{Title: "Hamlet", Year: intPtr(1999)})
	require.NoError(t, err)
	activityB, err := CreateActivity(db, CreateActivityParams{Title: "Revue", Year: intPtr(2000)})
	require.NoError(t, err)
	member, err := QuickCreateMember(db, "Jan", "Jansen", "")
	require.NoError(t, err)

	item, err := CreateMediaItem(db, CreateMediaItemParams{ActivityID: activityA.ID, Filename: "scene.jpg", MediaType: "foto"})
	require.NoError(t, err)

	roleElsewhere, err := CreateRole(db, CreateRoleParams{ActivityID: activityB.ID, MemberID: member.ID, RoleName: strPtr("Regie")})
	require.NoError(t, err)

	_, err = CreateMediaAppearance(db, CreateMediaAppearanceParams{
		MediaID:  item.ID,
		MemberID: member.ID,
		RoleID:   &roleElsewhere.ID,
	})
	require.Error(t, err)
	serr, ok := err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 400, serr.Status)

	t.Run("same activity role accepted", func(t *testing.T) {
		role, err := CreateRole(db, CreateRoleParams{ActivityID: activityA.ID, MemberID: member.ID, RoleName: strPtr("Hamlet")})
		require.NoError(t, err)
		appearance, err := CreateMediaAppearance(db, CreateMediaAppearanceParams{
			MediaID:  item.ID,
			MemberID: member.ID,
			RoleID:   &role.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, activityA.ID, appearance.ActivityID)

		appearances, err := ListAppearancesForMedia(db, item.ID)
		require.NoError(t, err)
		require.Len(t, appearances, 1)
		assert.Equal(t, "Jansen", appearances[0].MemberLastName)
	})
}

func TestSaveUpload(t *testing.T) {
	db := testDB(t)
	uploadDir := t.TempDir()
	activity, err := CreateActivity(db, CreateActivityParams{Title: "Hamlet", Year: intPtr(1999)})
	require.NoError(t, err)

	item, err := SaveUpload(db, uploadDir, activity.ID, "Scene Een.JPG", strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	assert.Equal(t, "Scene Een.JPG", item.Filename)
	assert.Equal(t, UnknownMediaType, item.MediaType)
	require.NotNil(t, item.FileExtension)
	assert.Equal(t, "jpg", *item.FileExtension)
	require.NotNil(t, item.StoragePath)
	assert.Equal(t, "uploads/Scene Een.JPG", *item.StoragePath)

	_, err = SaveUpload(db, uploadDir, activity.ID, "leeg.jpg", strings.NewReader(""))
	require.Error(t, err)
}
