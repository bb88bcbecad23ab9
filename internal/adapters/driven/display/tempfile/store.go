package tempfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	// Register decoders for the formats the document store serves.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driven"
	"github.com/custodia-labs/facetag/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.DisplayStore = (*Store)(nil)

// ErrUnknownResource is returned when releasing a resource that is not live.
var ErrUnknownResource = errors.New("unknown display resource")

// Store writes each display resource to its own file under a directory.
// A resource is only handed out once its bytes have decoded as an image.
type Store struct {
	dir string

	mu   sync.Mutex
	live map[string]*domain.DisplayResource
}

// NewStore creates a display store writing into dir. An empty dir uses
// a facetag directory under the system temp directory.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "facetag")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create display directory: %w", err)
	}
	return &Store{
		dir:  dir,
		live: make(map[string]*domain.DisplayResource),
	}, nil
}

// Dir returns the directory holding display files.
func (s *Store) Dir() string {
	return s.dir
}

// Create fully decodes data and writes it to a new display file.
func (s *Store) Create(ctx context.Context, documentID string, data []byte) (*domain.DisplayResource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Decode every pixel: a valid header followed by truncated data is
	// not paint-ready.
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageUndecodable, err)
	}
	bounds := img.Bounds()

	id := uuid.NewString()
	f, err := os.CreateTemp(s.dir, fmt.Sprintf("doc-%s-*.%s", sanitize(documentID), extension(format)))
	if err != nil {
		return nil, fmt.Errorf("create display file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write display file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close display file: %w", err)
	}

	res := &domain.DisplayResource{
		ID:         id,
		DocumentID: documentID,
		Path:       path,
		Format:     format,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
	}

	s.mu.Lock()
	s.live[id] = res
	s.mu.Unlock()

	logger.Debug("Created display resource %s at %s", id, path)
	out := *res
	return &out, nil
}

// Release deletes the resource's file.
func (s *Store) Release(id string) error {
	s.mu.Lock()
	res, ok := s.live[id]
	delete(s.live, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownResource, id)
	}
	if err := os.Remove(res.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove display file: %w", err)
	}
	logger.Debug("Released display resource %s", id)
	return nil
}

// Live returns the number of unreleased resources.
func (s *Store) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Close releases every live resource.
func (s *Store) Close() error {
	s.mu.Lock()
	ids := make([]string, 0, len(s.live))
	for id := range s.live {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if err := s.Release(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func extension(format string) string {
	switch format {
	case "jpeg":
		return "jpg"
	case "":
		return "img"
	default:
		return format
	}
}

// sanitize keeps a document id safe for use in a file name.
func sanitize(id string) string {
	b := []byte(id)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			b[i] = '_'
		}
	}
	if len(b) == 0 {
		return "unknown"
	}
	return string(b)
}
