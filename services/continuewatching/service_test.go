package continuewatching_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelview/models"
	"reelview/services/continuewatching"
)

type fakeProgress struct {
	records []models.WatchProgress
	err     error
}

func (f *fakeProgress) List(id models.Identity, limit int) ([]models.WatchProgress, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.records) > limit {
		return f.records[:limit], nil
	}
	return f.records, nil
}

type fakeCatalog struct {
	failIDs map[int]bool
}

func (f *fakeCatalog) Details(ctx context.Context, mediaType string, id int) (models.Title, error) {
	if f.failIDs[id] {
		return models.Title{}, errors.New("upstream unavailable")
	}
	return models.Title{ID: id, MediaType: mediaType, Name: "Title"}, nil
}

func record(movieID int, progress float64, updated time.Time) models.WatchProgress {
	return models.WatchProgress{
		UserID:    "u1",
		MovieID:   movieID,
		MediaType: models.MediaTypeMovie,
		Progress:  progress,
		Timestamp: progress * 30,
		Duration:  3000,
		UpdatedAt: updated,
	}
}

func TestListKeepsOnlyMidwayTitles(t *testing.T) {
	now := time.Now()
	progress := &fakeProgress{records: []models.WatchProgress{
		record(1, 3, now),
		record(2, 50, now.Add(-time.Minute)),
		record(3, 97, now.Add(-2*time.Minute)),
	}}

	svc := continuewatching.NewService(progress, &fakeCatalog{})
	items, err := svc.List(context.Background(), models.AccountIdentity("u1"), 0)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Title.ID)
	assert.InDelta(t, 50.0, items[0].Progress, 0.001)
}

func TestListExcludesBandEdges(t *testing.T) {
	now := time.Now()
	progress := &fakeProgress{records: []models.WatchProgress{
		record(1, 5, now),
		record(2, 95, now),
	}}

	svc := continuewatching.NewService(progress, &fakeCatalog{})
	items, err := svc.List(context.Background(), models.AccountIdentity("u1"), 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListDropsFailedLookupsOnly(t *testing.T) {
	now := time.Now()
	progress := &fakeProgress{records: []models.WatchProgress{
		record(1, 40, now),
		record(2, 60, now.Add(-time.Minute)),
		record(3, 30, now.Add(-2*time.Minute)),
	}}

	svc := continuewatching.NewService(progress, &fakeCatalog{failIDs: map[int]bool{2: true}})
	items, err := svc.List(context.Background(), models.AccountIdentity("u1"), 0)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Title.ID)
	assert.Equal(t, 3, items[1].Title.ID)
}

func TestListPreservesRecencyOrder(t *testing.T) {
	now := time.Now()
	progress := &fakeProgress{records: []models.WatchProgress{
		record(10, 20, now),
		record(11, 30, now.Add(-time.Minute)),
		record(12, 40, now.Add(-2*time.Minute)),
	}}

	svc := continuewatching.NewService(progress, &fakeCatalog{})
	items, err := svc.List(context.Background(), models.AccountIdentity("u1"), 0)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, 10, items[0].Title.ID)
	assert.Equal(t, 11, items[1].Title.ID)
	assert.Equal(t, 12, items[2].Title.ID)
}

func TestListRequiresIdentity(t *testing.T) {
	svc := continuewatching.NewService(&fakeProgress{}, &fakeCatalog{})
	_, err := svc.List(context.Background(), models.Identity{}, 0)
	assert.ErrorIs(t, err, continuewatching.ErrIdentityRequired)
}

func TestListStoreFailureServesEmptyShelf(t *testing.T) {
	progress := &fakeProgress{err: errors.New("disk gone")}
	svc := continuewatching.NewService(progress, &fakeCatalog{})

	items, err := svc.List(context.Background(), models.AccountIdentity("u1"), 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}
