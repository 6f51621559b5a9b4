package records

import (
	"encoding/json"
	"log"

	"github.com/vitrine-dev/vitrine/internal/models"
	"github.com/vitrine-dev/vitrine/internal/storage"
)

// ParseKeepList decodes the client's keepImages value, a JSON array of image
// paths, into bare stored filenames. Anything unparseable means keep nothing.
func ParseKeepList(keepImages string) []string {
	if keepImages == "" {
		return nil
	}

	var paths []string

	if err := json.Unmarshal([]byte(keepImages), &paths); err != nil {
		return nil
	}

	keep := make([]string, 0, len(paths))

	for _, path := range paths {
		keep = append(keep, storage.TrimWebPrefix(path))
	}

	return keep
}

// reconcile deletes every stored image of the record that is not named in
// keep: first the rows, then the files. File removal is best effort; a
// failure is logged and the row stays deleted.
func (s *Store) reconcile(recordID uint, keep []string) error {
	var stored []models.Image

	if err := s.conn.Where("record_id = ?", recordID).Find(&stored).Error; err != nil {
		return err
	}

	keepSet := make(map[string]struct{}, len(keep))

	for _, name := range keep {
		keepSet[name] = struct{}{}
	}

	var toDelete []string

	for _, image := range stored {
		if _, ok := keepSet[image.Filename]; !ok {
			toDelete = append(toDelete, image.Filename)
		}
	}

	if len(toDelete) == 0 {
		return nil
	}

	err := s.conn.
		Where("record_id = ? AND filename IN ?", recordID, toDelete).
		Delete(&models.Image{}).Error

	if err != nil {
		return err
	}

	for _, name := range toDelete {
		if err := s.uploads.Remove(name); err != nil {
			log.Printf("Failed to remove upload %s: %v", name, err)
		}
	}

	return nil
}
