package catalog

import (
	"context"
	crand "crypto/rand"
	"log"
	"math/big"
	mrand "math/rand"
	"sync"
	"time"

	"smrutimap/models/postgres"
	"smrutimap/services/storage"
)

// Service is the in-memory image catalog. It is constructed once at startup
// and handed to consumers explicitly; nothing in this package is a global.
// The catalog is read-only game data, so serving slightly stale entries
// between refreshes is fine.
type Service struct {
	repo storage.Repository

	mu       sync.RWMutex
	byID     map[string]postgres.HistoricalImage
	ids      []string
	loadedAt time.Time
}

func New(repo storage.Repository) *Service {
	return &Service{
		repo: repo,
		byID: make(map[string]postgres.HistoricalImage),
	}
}

// Refresh re-reads the whole images table. Called at startup and by
// housekeeping whenever admin tooling may have grown the catalog.
func (s *Service) Refresh(ctx context.Context) error {
	images, err := s.repo.ListImages(ctx)
	if err != nil {
		return err
	}

	byID := make(map[string]postgres.HistoricalImage, len(images))
	ids := make([]string, 0, len(images))
	for _, img := range images {
		if _, seen := byID[img.ID]; seen {
			continue
		}
		byID[img.ID] = img
		ids = append(ids, img.ID)
	}

	s.mu.Lock()
	s.byID = byID
	s.ids = ids
	s.loadedAt = time.Now()
	s.mu.Unlock()

	log.Printf("[CATALOG] loaded %d images", len(ids))
	return nil
}

func (s *Service) Get(id string) (postgres.HistoricalImage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.byID[id]
	return img, ok
}

// GetMany resolves ids preserving order, silently skipping unknown ids.
func (s *Service) GetMany(ids []string) []postgres.HistoricalImage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	images := make([]postgres.HistoricalImage, 0, len(ids))
	for _, id := range ids {
		if img, ok := s.byID[id]; ok {
			images = append(images, img)
		}
	}
	return images
}

func (s *Service) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok
}

// IDs returns a copy of every catalog id, in stable catalog order.
func (s *Service) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Random draws n distinct image ids without replacement, fewer when the
// catalog is smaller. Fisher-Yates over the crypto source; the weaker PRNG
// takes over if entropy is unavailable.
func (s *Service) Random(n int) []string {
	if n <= 0 {
		return nil
	}
	ids := s.IDs()
	for i := len(ids) - 1; i > 0; i-- {
		j := i
		if v, err := crand.Int(crand.Reader, big.NewInt(int64(i+1))); err == nil {
			j = int(v.Int64())
		} else {
			j = mrand.Intn(i + 1)
		}
		ids[i], ids[j] = ids[j], ids[i]
	}
	if n < len(ids) {
		ids = ids[:n]
	}
	return ids
}

func (s *Service) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
