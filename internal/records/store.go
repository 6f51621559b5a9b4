package records

import (
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/vitrine-dev/vitrine/internal/models"
	"github.com/vitrine-dev/vitrine/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrEmptyTitle     = errors.New("title must not be empty")
	ErrRecordNotFound = errors.New("record not found")
)

// RecordWithImages is a record joined to the web-servable paths of its images.
type RecordWithImages struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Images      []string  `json:"images"`
}

// Store persists records and their images. Image files go through the upload
// store; rows and files are deliberately not tied by a transaction.
type Store struct {
	conn    *gorm.DB
	uploads *storage.Store
}

func NewStore(conn *gorm.DB, uploads *storage.Store) *Store {
	return &Store{conn: conn, uploads: uploads}
}

// List returns all records, newest first, each with its images in insertion
// order. An empty database yields an empty slice, not nil.
func (s *Store) List() ([]RecordWithImages, error) {
	var recs []models.Record

	err := s.conn.
		Preload("Images", func(conn *gorm.DB) *gorm.DB {
			return conn.Order("images.id ASC")
		}).
		Order("created_at DESC, id DESC").
		Find(&recs).Error

	if err != nil {
		return nil, err
	}

	result := make([]RecordWithImages, 0, len(recs))

	for _, rec := range recs {
		result = append(result, toRecordWithImages(rec))
	}

	return result, nil
}

// Create inserts the record first, then persists and attaches each uploaded
// file. Image rows are never written without a parent record.
func (s *Store) Create(title, description string, files []*multipart.FileHeader) (uint, error) {
	title = strings.TrimSpace(title)

	if title == "" {
		return 0, ErrEmptyTitle
	}

	record := models.Record{Title: title, Description: description}

	if err := s.conn.Create(&record).Error; err != nil {
		return 0, err
	}

	if err := s.appendImages(record.ID, files); err != nil {
		return 0, err
	}

	return record.ID, nil
}

// Update overwrites title and description, reconciles the stored image set
// against keepImages, appends the newly uploaded files and returns the
// re-read record.
func (s *Store) Update(id uint, title, description, keepImages string, files []*multipart.FileHeader) (*RecordWithImages, error) {
	title = strings.TrimSpace(title)

	if title == "" {
		return nil, ErrEmptyTitle
	}

	var record models.Record

	if err := s.conn.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"title":       title,
		"description": description,
	}

	if err := s.conn.Model(&record).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := s.reconcile(id, ParseKeepList(keepImages)); err != nil {
		return nil, err
	}

	if err := s.appendImages(id, files); err != nil {
		return nil, err
	}

	var updated models.Record

	err := s.conn.
		Preload("Images", func(conn *gorm.DB) *gorm.DB {
			return conn.Order("images.id ASC")
		}).
		First(&updated, id).Error

	if err != nil {
		return nil, err
	}

	result := toRecordWithImages(updated)

	return &result, nil
}

// Delete removes the record row; the foreign-key cascade takes the image rows
// with it. Files stay on disk: physical cleanup only happens through update
// reconciliation. Deleting an unknown id succeeds as a no-op.
func (s *Store) Delete(id uint) error {
	return s.conn.Delete(&models.Record{}, id).Error
}

func (s *Store) appendImages(recordID uint, files []*multipart.FileHeader) error {
	for _, fh := range files {
		name, err := s.uploads.Save(fh)

		if err != nil {
			return err
		}

		image := models.Image{RecordID: recordID, Filename: name}

		if err := s.conn.Create(&image).Error; err != nil {
			return err
		}
	}

	return nil
}

func toRecordWithImages(rec models.Record) RecordWithImages {
	images := make([]string, 0, len(rec.Images))

	for _, image := range rec.Images {
		images = append(images, storage.WebPath(image.Filename))
	}

	return RecordWithImages{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt,
		Images:      images,
	}
}
