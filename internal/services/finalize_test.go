package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeTarget(t *testing.T) {
	cases := []struct {
		name         string
		folder       string
		mediaType    string
		caption      string
		filename     string
		extension    *string
		wantFilename string
		wantPath     string
	}{
		{
			name:      "caption drives the slug",
			folder:    "1999-hamlet", mediaType: "foto",
			caption: "Scène Eén", filename: "IMG_0042.JPG", extension: strPtr("jpg"),
			wantFilename: "scene-een.jpg", wantPath: "1999-hamlet/foto/scene-een.jpg",
		},
		{
			name:   "filename stem when caption empty",
			folder: "1999-hamlet", mediaType: "foto",
			caption: "", filename: "IMG_0042.JPG", extension: nil,
			wantFilename: "img-0042.jpg", wantPath: "1999-hamlet/foto/img-0042.jpg",
		},
		{
			name:   "filename extension wins over the stored one",
			folder: "1999-hamlet", mediaType: "foto",
			caption: "Scène Eén", filename: "IMG_0042.png", extension: strPtr("jpg"),
			wantFilename: "scene-een.png", wantPath: "1999-hamlet/foto/scene-een.png",
		},
		{
			name:   "stored extension when the filename has none",
			folder: "1999-hamlet", mediaType: "foto",
			caption: "Scène Eén", filename: "IMG_0042", extension: strPtr("png"),
			wantFilename: "scene-een.png", wantPath: "1999-hamlet/foto/scene-een.png",
		},
		{
			name:   "unknown type lands in overig",
			folder: "1999-hamlet", mediaType: "onbekend",
			caption: "Affiche", filename: "poster.png", extension: strPtr("png"),
			wantFilename: "affiche.png", wantPath: "1999-hamlet/overig/affiche.png",
		},
		{
			name:   "empty type lands in overig",
			folder: "1999-hamlet", mediaType: "",
			caption: "Affiche", filename: "poster", extension: nil,
			wantFilename: "affiche.jpg", wantPath: "1999-hamlet/overig/affiche.jpg",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotFilename, gotPath := FinalizeTarget(tc.folder, tc.mediaType, tc.caption, tc.filename, tc.extension)
			assert.Equal(t, tc.wantFilename, gotFilename)
			assert.Equal(t, tc.wantPath, gotPath)
		})
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a.txt")
	dest := filepath.Join(dir, "sub", "b.txt")
	require.NoError(t, os.WriteFile(source, []byte("inhoud"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))

	require.NoError(t, moveFile(source, dest))

	_, err := os.Stat(source)
	assert.True(t, os.IsNotExist(err))
	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "inhoud", string(content))
}

func TestFinalizeMediaItem(t *testing.T) {
	db := testDB(t)
	uploadDir := t.TempDir()
	resourcesDir := t.TempDir()

	activity, err := CreateActivity(db, CreateActivityParams{Title: "Hamlet", Year: intPtr(1999)})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "IMG_0042.JPG"), []byte("image"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(uploadDir, "thumbnails"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "thumbnails", "IMG_0042.JPG"), []byte("thumb"), 0o644))

	caption := "Scène Eén"
	storagePath := "uploads/IMG_0042.JPG"
	item, err := CreateMediaItem(db, CreateMediaItemParams{
		ActivityID:    activity.ID,
		Filename:      "IMG_0042.JPG",
		MediaType:     "foto",
		FileExtension: strPtr("jpg"),
		StoragePath:   &storagePath,
		Caption:       &caption,
	})
	require.NoError(t, err)

	moved, err := FinalizeMediaItem(db, uploadDir, resourcesDir, item, false)
	require.NoError(t, err)
	assert.True(t, moved)

	finalPath := filepath.Join(resourcesDir, "1999-hamlet", "foto", "scene-een.jpg")
	content, err := os.ReadFile(finalPath)
	require.NoError(t, err)
	assert.Equal(t, "image", string(content))

	thumbPath := filepath.Join(resourcesDir, "1999-hamlet", "foto", "thumbnails", "scene-een.jpg")
	_, err = os.Stat(thumbPath)
	assert.NoError(t, err)

	stored, err := GetMediaItem(db, item.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "scene-een.jpg", stored.Filename)
	require.NotNil(t, stored.StoragePath)
	assert.Equal(t, "1999-hamlet/foto/scene-een.jpg", *stored.StoragePath)

	t.Run("rerun without source is a no-op", func(t *testing.T) {
		moved, err := FinalizeMediaItem(db, uploadDir, resourcesDir, stored, false)
		require.NoError(t, err)
		assert.False(t, moved)
	})

	t.Run("occupied destination skips without overwrite", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "scene-een.jpg"), []byte("nieuw"), 0o644))
		moved, err := FinalizeMediaItem(db, uploadDir, resourcesDir, stored, false)
		require.NoError(t, err)
		assert.False(t, moved)

		content, err := os.ReadFile(finalPath)
		require.NoError(t, err)
		assert.Equal(t, "image", string(content))
	})

	t.Run("overwrite replaces the destination", func(t *testing.T) {
		moved, err := FinalizeMediaItem(db, uploadDir, resourcesDir, stored, true)
		require.NoError(t, err)
		assert.True(t, moved)

		content, err := os.ReadFile(finalPath)
		require.NoError(t, err)
		assert.Equal(t, "nieuw", string(content))
	})
}

func TestFinalizeActivityMedia(t *testing.T) {
	db := testDB(t)
	uploadDir := t.TempDir()
	resourcesDir := t.TempDir()

	activity, err := CreateActivity(db, CreateActivityParams{Title: "Revue", Year: intPtr(2001)})
	require.NoError(t, err)

	for _, name := range []string{"een.jpg", "twee.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(uploadDir, name), []byte(name), 0o644))
		storagePath := "uploads/" + name
		_, err := CreateMediaItem(db, CreateMediaItemParams{
			ActivityID:  activity.ID,
			Filename:    name,
			MediaType:   "foto",
			StoragePath: &storagePath,
		})
		require.NoError(t, err)
	}

	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "drie.jpg"), []byte("drie.jpg"), 0o644))
	_, err = CreateMediaItem(db, CreateMediaItemParams{
		ActivityID: activity.ID,
		Filename:   "drie.jpg",
		MediaType:  "foto",
	})
	require.NoError(t, err)

	summary, err := FinalizeActivityMedia(db, uploadDir, resourcesDir, activity.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Moved)
	assert.Empty(t, summary.Failed)

	stored := []string{}
	require.NoError(t, db.Select(&stored, `SELECT storage_path FROM media_items WHERE activity_id = $1 ORDER BY storage_path`, activity.ID))
	assert.Equal(t, []string{"2001-revue/foto/drie.jpg", "2001-revue/foto/een.jpg", "2001-revue/foto/twee.jpg"}, stored)

	t.Run("second run finds nothing staged", func(t *testing.T) {
		summary, err := FinalizeActivityMedia(db, uploadDir, resourcesDir, activity.ID, false)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.Moved)
	})

	_, err = FinalizeActivityMedia(db, uploadDir, resourcesDir, "missing", false)
	require.Error(t, err)
}
