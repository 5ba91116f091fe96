package services

import (
	"context"
	"errors"
	"testing"

	"github.com/denizgokce/inkpad-backend/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNoteStore struct {
	probeErr  error
	countErr  error
	joinedErr error
	flatErr   error

	joined []models.Note
	flat   []models.Note
	total  int64

	joinedCalls int
	flatCalls   int
	countCalls  int
}

var _ noteStore = (*fakeNoteStore)(nil)

func (f *fakeNoteStore) Probe(ctx context.Context) error { return f.probeErr }

func (f *fakeNoteStore) CountOwned(ctx context.Context, userID string) (int64, error) {
	f.countCalls++
	return f.total, f.countErr
}

func (f *fakeNoteStore) FetchJoined(ctx context.Context, userID string, lf ListFilters) ([]models.Note, error) {
	f.joinedCalls++
	return f.joined, f.joinedErr
}

func (f *fakeNoteStore) FetchFlat(ctx context.Context, userID string, lf ListFilters) ([]models.Note, error) {
	f.flatCalls++
	return f.flat, f.flatErr
}

func undefinedTable(rel string) *pgconn.PgError {
	return &pgconn.PgError{Code: "42P01", Message: `relation "` + rel + `" does not exist`}
}

func listService(store noteStore) *NoteService {
	return &NoteService{store: store}
}

func TestList_SchemaMissing_EmptyPage(t *testing.T) {
	store := &fakeNoteStore{probeErr: undefinedTable("posts")}
	svc := listService(store)

	res, err := svc.List(context.Background(), "user-1", ListFilters{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, 0, res.Pagination.TotalPages)
	assert.Equal(t, int64(0), res.Pagination.TotalCount)
	assert.False(t, res.Pagination.HasNextPage)
	assert.False(t, res.Pagination.HasPrevPage)
	assert.Zero(t, store.joinedCalls, "no fetch after a failed existence check")
	assert.Zero(t, store.flatCalls)
}

func TestList_ProbeConnectionErrorIsFatal(t *testing.T) {
	store := &fakeNoteStore{probeErr: errors.New("connection refused")}
	svc := listService(store)

	_, err := svc.List(context.Background(), "user-1", ListFilters{Page: 1, Limit: 10})
	assert.Error(t, err)
	assert.Zero(t, store.joinedCalls)
}

func TestList_JoinedStrategy(t *testing.T) {
	store := &fakeNoteStore{
		joined: []models.Note{
			{ID: 11, Title: "a", Labels: []models.Label{{ID: 5, Name: "work"}}, Category: &models.Category{ID: 2, Name: "ideas"}},
			{ID: 12, Title: "b", Labels: []models.Label{}},
		},
		total: 25,
	}
	svc := listService(store)

	res, err := svc.List(context.Background(), "user-1", ListFilters{Page: 2, Limit: 10})
	require.NoError(t, err)

	require.Len(t, res.Data, 2)
	assert.Equal(t, uint(11), res.Data[0].ID)
	require.Len(t, res.Data[0].Labels, 1)
	assert.Equal(t, "work", res.Data[0].Labels[0].Name)
	require.NotNil(t, res.Data[0].Category)
	assert.Equal(t, "ideas", res.Data[0].Category.Name)

	assert.Equal(t, int64(25), res.Pagination.TotalCount)
	assert.Equal(t, 3, res.Pagination.TotalPages)
	assert.True(t, res.Pagination.HasNextPage)
	assert.True(t, res.Pagination.HasPrevPage)
	assert.Equal(t, 1, store.countCalls)
	assert.Zero(t, store.flatCalls)
}

func TestList_JoinedConnectionErrorIsFatal(t *testing.T) {
	store := &fakeNoteStore{joinedErr: errors.New("broken pipe")}
	svc := listService(store)

	_, err := svc.List(context.Background(), "user-1", ListFilters{Page: 1, Limit: 10})
	assert.Error(t, err)
	assert.Zero(t, store.flatCalls, "only a missing relation triggers the fallback")
}

// A missing association table degrades the listing to a flat query:
// every record comes back with an empty label set and no category, and
// pagination metadata is computed from the fetched page length instead
// of the count query.
func TestList_MissingRelationDegradesToFlat(t *testing.T) {
	store := &fakeNoteStore{
		joinedErr: undefinedTable("post_labels"),
		flat: []models.Note{
			{ID: 21, Title: "a", Labels: []models.Label{{ID: 9}}, Category: &models.Category{ID: 3}},
			{ID: 22, Title: "b"},
		},
		total: 99,
	}
	svc := listService(store)

	res, err := svc.List(context.Background(), "user-1", ListFilters{Page: 1, Limit: 10})
	require.NoError(t, err)

	require.Len(t, res.Data, 2)
	for _, v := range res.Data {
		assert.NotNil(t, v.Labels)
		assert.Empty(t, v.Labels, "degraded records carry no label data")
		assert.Nil(t, v.Category)
	}
	assert.Equal(t, int64(2), res.Pagination.TotalCount, "length-based, not count-based")
	assert.Equal(t, 1, res.Pagination.TotalPages)
	assert.Zero(t, store.countCalls)
	assert.Equal(t, 1, store.flatCalls)
}

func TestList_DegradedFetchErrorIsFatal(t *testing.T) {
	store := &fakeNoteStore{
		joinedErr: undefinedTable("post_labels"),
		flatErr:   errors.New("connection reset"),
	}
	svc := listService(store)

	_, err := svc.List(context.Background(), "user-1", ListFilters{Page: 1, Limit: 10})
	assert.Error(t, err)
}

// Degraded records have empty label sets, so a label filter on top of
// the flat fallback matches nothing. Pagination still reflects the
// pre-filter page.
func TestList_DegradedWithLabelFilterYieldsNothing(t *testing.T) {
	store := &fakeNoteStore{
		joinedErr: undefinedTable("post_labels"),
		flat: []models.Note{
			{ID: 31, Title: "a"},
			{ID: 32, Title: "b"},
			{ID: 33, Title: "c"},
		},
	}
	svc := listService(store)

	res, err := svc.List(context.Background(), "user-1", ListFilters{LabelIDs: []uint{9}, Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, int64(3), res.Pagination.TotalCount)
}

func TestList_LabelFilterNarrowsFetchedPage(t *testing.T) {
	store := &fakeNoteStore{
		joined: []models.Note{
			noteWithLabels(41, 7),
			noteWithLabels(42, 8),
			noteWithLabels(43, 7, 9),
		},
		total: 3,
	}
	svc := listService(store)

	res, err := svc.List(context.Background(), "user-1", ListFilters{LabelIDs: []uint{7}, Page: 1, Limit: 10})
	require.NoError(t, err)

	require.Len(t, res.Data, 2)
	assert.Equal(t, uint(41), res.Data[0].ID)
	assert.Equal(t, uint(43), res.Data[1].ID)
	assert.Equal(t, int64(3), res.Pagination.TotalCount, "count is not label-aware")
}

func TestList_ClampsPageAndLimit(t *testing.T) {
	store := &fakeNoteStore{total: 5}
	svc := listService(store)

	res, err := svc.List(context.Background(), "user-1", ListFilters{Page: -3, Limit: 5000})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Pagination.CurrentPage)
	assert.Equal(t, 10, res.Pagination.Limit)
}
