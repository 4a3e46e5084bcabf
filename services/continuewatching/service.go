// Package continuewatching assembles the continue-watching shelf: recent
// partially watched titles enriched with catalog details.
package continuewatching

import (
	"context"
	"errors"
	"log"
	"sync"

	"reelview/models"
)

var ErrIdentityRequired = errors.New("an identity is required")

const (
	// shelfLimit bounds how many recent records are considered for the shelf.
	shelfLimit = 10

	// Only titles genuinely in the middle get a shelf slot. Barely started
	// and effectively finished titles are noise, so the band is exclusive on
	// both ends.
	minShelfPercent = 5.0
	maxShelfPercent = 95.0

	// maxConcurrent caps parallel catalog lookups while building the shelf.
	maxConcurrent = 5
)

// ProgressLister is the slice of the progress service the shelf needs.
type ProgressLister interface {
	List(id models.Identity, limit int) ([]models.WatchProgress, error)
}

// TitleResolver looks up catalog details for shelf entries.
type TitleResolver interface {
	Details(ctx context.Context, mediaType string, id int) (models.Title, error)
}

// Service builds the continue-watching shelf for an identity.
type Service struct {
	progress ProgressLister
	catalog  TitleResolver
}

func NewService(progress ProgressLister, catalog TitleResolver) *Service {
	return &Service{progress: progress, catalog: catalog}
}

// List returns the identity's shelf, most recently watched first. Records
// outside the 5-95 percent band are skipped, and a record whose catalog
// lookup fails is dropped rather than failing the whole shelf. The limit is
// clamped to the shelf maximum; zero means the maximum.
func (s *Service) List(ctx context.Context, id models.Identity, limit int) ([]models.ContinueWatchingItem, error) {
	if !id.Valid() {
		return nil, ErrIdentityRequired
	}
	if limit <= 0 || limit > shelfLimit {
		limit = shelfLimit
	}

	// A store failure degrades to an empty shelf; browsing keeps working.
	records, err := s.progress.List(id, limit)
	if err != nil {
		log.Printf("[continue-watching] progress query failed, serving empty shelf: %v", err)
		return []models.ContinueWatchingItem{}, nil
	}

	candidates := make([]models.WatchProgress, 0, len(records))
	for _, record := range records {
		if record.Progress > minShelfPercent && record.Progress < maxShelfPercent {
			candidates = append(candidates, record)
		}
	}
	if len(candidates) == 0 {
		return []models.ContinueWatchingItem{}, nil
	}

	type resolved struct {
		item models.ContinueWatchingItem
		ok   bool
	}

	results := make([]resolved, len(candidates))
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for i, record := range candidates {
		wg.Add(1)
		go func(i int, record models.WatchProgress) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			title, err := s.catalog.Details(ctx, record.MediaType, record.MovieID)
			if err != nil {
				log.Printf("[continue-watching] dropping %s:%d, details lookup failed: %v",
					record.MediaType, record.MovieID, err)
				return
			}

			results[i] = resolved{
				ok: true,
				item: models.ContinueWatchingItem{
					Title:     title,
					MediaType: record.MediaType,
					Progress:  record.Progress,
					Timestamp: record.Timestamp,
					Duration:  record.Duration,
					Season:    record.Season,
					Episode:   record.Episode,
				},
			}
		}(i, record)
	}
	wg.Wait()

	// The store returns records most recently updated first and results are
	// indexed, so compacting preserves that order.
	items := make([]models.ContinueWatchingItem, 0, len(candidates))
	for _, result := range results {
		if result.ok {
			items = append(items, result.item)
		}
	}

	return items, nil
}
