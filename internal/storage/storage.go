package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// WebPrefix is the URL prefix under which stored files are served.
const WebPrefix = "/uploads/"

// NameFunc chooses the stored filename for an uploaded file, given its
// original client-side name.
type NameFunc func(original string) string

// TimestampName keeps the original extension and derives the rest of the name
// from the current time. Collisions are accepted, not deduplicated.
func TimestampName(original string) string {
	return strconv.FormatInt(time.Now().UnixNano(), 10) + filepath.Ext(original)
}

// Store persists uploaded files in a single durable directory.
type Store struct {
	dir  string
	name NameFunc
}

func New(dir string, name NameFunc) (*Store, error) {
	if name == nil {
		name = TimestampName
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &Store{dir: dir, name: name}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes the uploaded file under a generated name and returns the bare
// stored filename.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()

	if err != nil {
		return "", err
	}
	defer src.Close()

	name := s.name(fh.Filename)

	dst, err := os.Create(filepath.Join(s.dir, name))

	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return name, nil
}

// Remove deletes a stored file. Only bare filenames are accepted so a stored
// path can never escape the upload directory.
func (s *Store) Remove(filename string) error {
	if filename == "" || filename != filepath.Base(filename) {
		return fmt.Errorf("invalid stored filename %q", filename)
	}

	return os.Remove(filepath.Join(s.dir, filename))
}

// WebPath maps a bare stored filename to the path clients fetch it from.
func WebPath(filename string) string {
	return WebPrefix + filename
}

// TrimWebPrefix maps a client-supplied image path back to the bare stored
// filename.
func TrimWebPrefix(path string) string {
	return strings.TrimPrefix(path, WebPrefix)
}
