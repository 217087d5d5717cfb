package services

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"

	"kna-archive-backend-go/internal/models"
)

// FallbackMediaFolder holds finalized items whose media type is still unknown.
const FallbackMediaFolder = "overig"

// FinalizeTarget computes the destination of a finalized media item relative
// to the resources root. The base name comes from the caption when present,
// otherwise from the original filename without its extension. The extension
// follows the filename, then the stored extension, then defaults to jpg.
func FinalizeTarget(activityFolder, mediaType, caption, filename string, fileExtension *string) (newFilename, relativePath string) {
	base := strings.TrimSpace(caption)
	if base == "" {
		base = strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	extension := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if extension == "" && fileExtension != nil {
		extension = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(*fileExtension)), ".")
	}
	if extension == "" {
		extension = "jpg"
	}
	subdir := strings.ToLower(strings.TrimSpace(mediaType))
	if subdir == "" || subdir == UnknownMediaType {
		subdir = FallbackMediaFolder
	}
	newFilename = Slugify(base) + "." + extension
	relativePath = filepath.ToSlash(filepath.Join(activityFolder, subdir, newFilename))
	return newFilename, relativePath
}

// FinalizeMediaItem moves one staged item from the upload directory into its
// permanent place under the resources root and updates the stored filename
// and path. It reports whether the file was actually moved: a missing source
// or an occupied destination makes it a logged no-op, not an error.
func FinalizeMediaItem(db *sqlx.DB, uploadDir, resourcesDir string, item *models.MediaItem, overwrite bool) (bool, error) {
	if strings.TrimSpace(item.Filename) == "" {
		log.Printf("WARN finalize media %d: no filename, skipping", item.ID)
		return false, nil
	}
	activity, err := GetActivity(db, item.ActivityID)
	if err != nil {
		return false, err
	}
	if activity == nil {
		return false, ErrNotFound("Activiteit niet gevonden.")
	}
	if activity.Folder == nil || *activity.Folder == "" {
		log.Printf("WARN finalize media %d: activity %s has no folder, skipping", item.ID, activity.ID)
		return false, nil
	}

	caption := ""
	if item.Caption != nil {
		caption = *item.Caption
	}
	newFilename, relativePath := FinalizeTarget(*activity.Folder, item.MediaType, caption, item.Filename, item.FileExtension)

	sourcePath := filepath.Join(uploadDir, item.Filename)
	if _, err := os.Stat(sourcePath); err != nil {
		log.Printf("WARN finalize media %d: source %s not found, skipping", item.ID, sourcePath)
		return false, nil
	}
	destPath := filepath.Join(resourcesDir, filepath.FromSlash(relativePath))
	if _, err := os.Stat(destPath); err == nil && !overwrite {
		log.Printf("WARN finalize media %d: destination %s already exists, skipping", item.ID, destPath)
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return false, err
	}
	if err := moveFile(sourcePath, destPath); err != nil {
		return false, err
	}

	thumbSource := filepath.Join(uploadDir, "thumbnails", item.Filename)
	if _, err := os.Stat(thumbSource); err == nil {
		thumbDest := filepath.Join(filepath.Dir(destPath), "thumbnails", newFilename)
		if err := os.MkdirAll(filepath.Dir(thumbDest), 0o755); err != nil {
			log.Printf("WARN finalize media %d: thumbnail dir: %v", item.ID, err)
		} else if err := moveFile(thumbSource, thumbDest); err != nil {
			log.Printf("WARN finalize media %d: thumbnail move: %v", item.ID, err)
		}
	}

	_, err = db.Exec(`UPDATE media_items SET filename = $1, storage_path = $2 WHERE id = $3`,
		newFilename, relativePath, item.ID)
	if err != nil {
		return false, err
	}
	return true, nil
}

type FinalizeSummary struct {
	Moved  int      `json:"moved"`
	Failed []string `json:"failed"`
}

// FinalizeActivityMedia finalizes every staged media item of an activity.
// Items without a storage path or still carrying an uploads path are
// considered staged. Per-item
// failures are collected; the batch keeps going.
func FinalizeActivityMedia(db *sqlx.DB, uploadDir, resourcesDir, activityID string, overwrite bool) (FinalizeSummary, error) {
	activity, err := GetActivity(db, activityID)
	if err != nil {
		return FinalizeSummary{}, err
	}
	if activity == nil {
		return FinalizeSummary{}, ErrNotFound("Activiteit niet gevonden.")
	}

	items := []models.MediaItem{}
	err = db.Select(&items, `
SELECT id, activity_id, filename, media_type, file_extension, storage_path, capture_date, caption, credit, display_order
FROM media_items
WHERE activity_id = $1 AND (storage_path IS NULL OR storage_path LIKE 'uploads/%')
ORDER BY id
`, activityID)
	if err != nil {
		return FinalizeSummary{}, err
	}

	summary := FinalizeSummary{Failed: []string{}}
	for i := range items {
		moved, err := FinalizeMediaItem(db, uploadDir, resourcesDir, &items[i], overwrite)
		if err != nil {
			summary.Failed = append(summary.Failed, fmt.Sprintf("%s: %v", items[i].Filename, err))
			continue
		}
		if moved {
			summary.Moved++
		}
	}
	return summary, nil
}

// moveFile renames when possible and falls back to copy plus remove for
// cross-device moves.
func moveFile(source, dest string) error {
	if err := os.Rename(source, dest); err == nil {
		return nil
	}
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(source)
}
