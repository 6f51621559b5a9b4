package records

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitrine-dev/vitrine/db"
	"github.com/vitrine-dev/vitrine/internal/models"
	"github.com/vitrine-dev/vitrine/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type upload struct {
	name    string
	content string
}

func newTestStore(t *testing.T) (*Store, *gorm.DB, *storage.Store) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	uploads, err := storage.New(t.TempDir(), nil)
	require.NoError(t, err)

	return NewStore(conn, uploads), conn, uploads
}

func fileHeaders(t *testing.T, files ...upload) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for _, f := range files {
		part, err := w.CreateFormFile("images", f.name)
		require.NoError(t, err)

		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["images"]
}

func storedFilenames(t *testing.T, conn *gorm.DB, recordID uint) []string {
	t.Helper()

	var images []models.Image
	require.NoError(t, conn.Where("record_id = ?", recordID).Order("id ASC").Find(&images).Error)

	names := make([]string, 0, len(images))
	for _, image := range images {
		names = append(names, image.Filename)
	}

	return names
}

func fileExists(t *testing.T, uploads *storage.Store, name string) bool {
	t.Helper()

	_, err := os.Stat(filepath.Join(uploads.Dir(), name))
	if err == nil {
		return true
	}
	require.True(t, os.IsNotExist(err))

	return false
}

func TestListEmptyReturnsEmptySlice(t *testing.T) {
	store, _, _ := newTestStore(t)

	result, err := store.List()
	require.NoError(t, err)

	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestCreateAndList(t *testing.T) {
	store, _, uploads := newTestStore(t)

	first, err := store.Create("First", "no images", nil)
	require.NoError(t, err)

	second, err := store.Create("Second", "two images", fileHeaders(t,
		upload{"a.png", "aaa"},
		upload{"b.jpg", "bbb"},
	))
	require.NoError(t, err)

	result, err := store.List()
	require.NoError(t, err)
	require.Len(t, result, 2)

	// Newest first.
	assert.Equal(t, second, result[0].ID)
	assert.Equal(t, first, result[1].ID)

	assert.Equal(t, "Second", result[0].Title)
	assert.Equal(t, "two images", result[0].Description)
	require.Len(t, result[0].Images, 2)

	for _, path := range result[0].Images {
		assert.Contains(t, path, storage.WebPrefix)
		assert.True(t, fileExists(t, uploads, storage.TrimWebPrefix(path)))
	}

	assert.NotNil(t, result[1].Images)
	assert.Empty(t, result[1].Images)
}

func TestCreateTrimsTitle(t *testing.T) {
	store, _, _ := newTestStore(t)

	id, err := store.Create("  padded  ", "", nil)
	require.NoError(t, err)

	result, err := store.List()
	require.NoError(t, err)
	require.Len(t, result, 1)

	assert.Equal(t, id, result[0].ID)
	assert.Equal(t, "padded", result[0].Title)
}

func TestCreateEmptyTitlePersistsNothing(t *testing.T) {
	store, conn, _ := newTestStore(t)

	_, err := store.Create("   ", "desc", fileHeaders(t, upload{"a.png", "aaa"}))
	require.ErrorIs(t, err, ErrEmptyTitle)

	var count int64
	require.NoError(t, conn.Model(&models.Record{}).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, conn.Model(&models.Image{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateKeepOneAppendOne(t *testing.T) {
	store, conn, uploads := newTestStore(t)

	id, err := store.Create("Title", "desc", fileHeaders(t,
		upload{"p1.png", "one"},
		upload{"p2.png", "two"},
	))
	require.NoError(t, err)

	stored := storedFilenames(t, conn, id)
	require.Len(t, stored, 2)
	p1, p2 := stored[0], stored[1]

	keep := `["` + storage.WebPath(p1) + `"]`

	updated, err := store.Update(id, "New title", "new desc", keep, fileHeaders(t,
		upload{"f2.png", "fresh"},
	))
	require.NoError(t, err)

	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "new desc", updated.Description)

	require.Len(t, updated.Images, 2)
	assert.Equal(t, storage.WebPath(p1), updated.Images[0])

	appended := storage.TrimWebPrefix(updated.Images[1])
	assert.NotEqual(t, p2, appended)

	// p2 is gone from both the table and the disk; p1 and the new file remain.
	assert.Equal(t, []string{p1, appended}, storedFilenames(t, conn, id))
	assert.True(t, fileExists(t, uploads, p1))
	assert.False(t, fileExists(t, uploads, p2))
	assert.True(t, fileExists(t, uploads, appended))
}

func TestUpdateMalformedKeepImagesDeletesAll(t *testing.T) {
	store, conn, uploads := newTestStore(t)

	id, err := store.Create("Title", "", fileHeaders(t,
		upload{"p1.png", "one"},
		upload{"p2.png", "two"},
	))
	require.NoError(t, err)

	stored := storedFilenames(t, conn, id)
	require.Len(t, stored, 2)

	updated, err := store.Update(id, "Title", "", "{not json", nil)
	require.NoError(t, err)

	assert.Empty(t, updated.Images)
	assert.Empty(t, storedFilenames(t, conn, id))

	for _, name := range stored {
		assert.False(t, fileExists(t, uploads, name))
	}
}

func TestUpdateWithoutKeepImagesDeletesAll(t *testing.T) {
	store, conn, _ := newTestStore(t)

	id, err := store.Create("Title", "", fileHeaders(t, upload{"p1.png", "one"}))
	require.NoError(t, err)

	updated, err := store.Update(id, "Title", "", "", nil)
	require.NoError(t, err)

	assert.Empty(t, updated.Images)
	assert.Empty(t, storedFilenames(t, conn, id))
}

func TestUpdateEmptyTitleFails(t *testing.T) {
	store, conn, _ := newTestStore(t)

	id, err := store.Create("Original", "desc", fileHeaders(t, upload{"p1.png", "one"}))
	require.NoError(t, err)

	_, err = store.Update(id, " \t ", "changed", "[]", nil)
	require.ErrorIs(t, err, ErrEmptyTitle)

	// Nothing was touched.
	var record models.Record
	require.NoError(t, conn.First(&record, id).Error)
	assert.Equal(t, "Original", record.Title)
	assert.Equal(t, "desc", record.Description)
	assert.Len(t, storedFilenames(t, conn, id), 1)
}

func TestUpdateMissingRecord(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.Update(9999, "Title", "", "[]", nil)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUpdateClearsDescription(t *testing.T) {
	store, _, _ := newTestStore(t)

	id, err := store.Create("Title", "had a description", nil)
	require.NoError(t, err)

	updated, err := store.Update(id, "Title", "", "[]", nil)
	require.NoError(t, err)

	assert.Equal(t, "", updated.Description)
}

func TestReconcileDeletesRowEvenIfFileRemovalFails(t *testing.T) {
	store, conn, uploads := newTestStore(t)

	id, err := store.Create("Title", "", fileHeaders(t, upload{"p1.png", "one"}))
	require.NoError(t, err)

	stored := storedFilenames(t, conn, id)
	require.Len(t, stored, 1)

	// Make the physical delete fail.
	require.NoError(t, os.Remove(filepath.Join(uploads.Dir(), stored[0])))

	updated, err := store.Update(id, "Title", "", "[]", nil)
	require.NoError(t, err)

	assert.Empty(t, updated.Images)
	assert.Empty(t, storedFilenames(t, conn, id))
}

func TestDeleteCascadesImageRows(t *testing.T) {
	store, conn, _ := newTestStore(t)

	id, err := store.Create("Title", "", fileHeaders(t,
		upload{"p1.png", "one"},
		upload{"p2.png", "two"},
	))
	require.NoError(t, err)

	require.NoError(t, store.Delete(id))

	result, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, result)

	var count int64
	require.NoError(t, conn.Model(&models.Image{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteTwiceIsNoOp(t *testing.T) {
	store, _, _ := newTestStore(t)

	id, err := store.Create("Title", "", nil)
	require.NoError(t, err)

	require.NoError(t, store.Delete(id))
	require.NoError(t, store.Delete(id))
}

func TestDeleteLeavesFilesOnDisk(t *testing.T) {
	store, conn, uploads := newTestStore(t)

	id, err := store.Create("Title", "", fileHeaders(t, upload{"p1.png", "one"}))
	require.NoError(t, err)

	stored := storedFilenames(t, conn, id)
	require.Len(t, stored, 1)

	require.NoError(t, store.Delete(id))

	// Observed behavior of the system this one replaces: delete never cleans
	// up files, only update reconciliation does.
	assert.True(t, fileExists(t, uploads, stored[0]))
}
