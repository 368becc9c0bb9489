package catalog

import (
	"context"
	"log/slog"
	"testing"

	"yamdb/proj/internal/domain/fields"
	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategories struct {
	nextID     int64
	categories map[string]*models.Category
}

func (f *fakeCategories) Insert(_ context.Context, name, slug string) (*models.Category, error) {
	if _, ok := f.categories[slug]; ok {
		return nil, storage.ErrConflict
	}
	f.nextID++
	c := &models.Category{ID: f.nextID, Name: name, Slug: slug}
	f.categories[slug] = c
	return c, nil
}

func (f *fakeCategories) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	if c, ok := f.categories[slug]; ok {
		return c, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeCategories) List(_ context.Context, _ string, _ filters.Filters) ([]models.Category, int, error) {
	out := make([]models.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeCategories) Delete(_ context.Context, slug string) error {
	if _, ok := f.categories[slug]; !ok {
		return storage.ErrNotFound
	}
	delete(f.categories, slug)
	return nil
}

type fakeGenres struct {
	nextID int64
	genres map[string]*models.Genre
}

func (f *fakeGenres) Insert(_ context.Context, name, slug string) (*models.Genre, error) {
	if _, ok := f.genres[slug]; ok {
		return nil, storage.ErrConflict
	}
	f.nextID++
	g := &models.Genre{ID: f.nextID, Name: name, Slug: slug}
	f.genres[slug] = g
	return g, nil
}

func (f *fakeGenres) GetBySlug(_ context.Context, slug string) (*models.Genre, error) {
	if g, ok := f.genres[slug]; ok {
		return g, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeGenres) List(_ context.Context, _ string, _ filters.Filters) ([]models.Genre, int, error) {
	out := make([]models.Genre, 0, len(f.genres))
	for _, g := range f.genres {
		out = append(out, *g)
	}
	return out, len(out), nil
}

func (f *fakeGenres) Delete(_ context.Context, slug string) error {
	if _, ok := f.genres[slug]; !ok {
		return storage.ErrNotFound
	}
	delete(f.genres, slug)
	return nil
}

type fakeTitles struct {
	nextID int64
	titles map[int64]*models.Title
	scores map[int64][]int32 // review scores per title, for the derived rating
}

func (f *fakeTitles) avg(id int64) fields.Rating {
	scores := f.scores[id]
	if len(scores) == 0 {
		return fields.NewRating(nil)
	}
	var sum float64
	for _, s := range scores {
		sum += float64(s)
	}
	avg := sum / float64(len(scores))
	return fields.NewRating(&avg)
}

func (f *fakeTitles) Get(_ context.Context, id int64) (*models.Title, error) {
	t, ok := f.titles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *t
	cp.Rating = f.avg(id)
	return &cp, nil
}

func (f *fakeTitles) List(_ context.Context, _ filters.TitleFilters, _ filters.Filters) ([]models.Title, int, error) {
	out := make([]models.Title, 0, len(f.titles))
	for id, t := range f.titles {
		cp := *t
		cp.Rating = f.avg(id)
		out = append(out, cp)
	}
	return out, len(out), nil
}

func (f *fakeTitles) Insert(_ context.Context, name string, year int32, description string, categoryID *int64, genreIDs []int64) (int64, error) {
	f.nextID++
	f.titles[f.nextID] = &models.Title{ID: f.nextID, Name: name, Year: year, Description: description}
	return f.nextID, nil
}

func (f *fakeTitles) Update(_ context.Context, id int64, name string, year int32, description string, categoryID *int64, genreIDs []int64) error {
	t, ok := f.titles[id]
	if !ok {
		return storage.ErrNotFound
	}
	t.Name, t.Year, t.Description = name, year, description
	return nil
}

func (f *fakeTitles) Delete(_ context.Context, id int64) error {
	if _, ok := f.titles[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.titles, id)
	return nil
}

func newTestService() (*CatalogService, *fakeCategories, *fakeGenres, *fakeTitles) {
	categories := &fakeCategories{categories: map[string]*models.Category{}}
	genres := &fakeGenres{genres: map[string]*models.Genre{}}
	titles := &fakeTitles{titles: map[int64]*models.Title{}, scores: map[int64][]int32{}}
	return New(slog.Default(), categories, genres, titles), categories, genres, titles
}

func TestCreateCategoryDuplicateSlug(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.CreateCategory(context.Background(), "Books", "books")
	require.NoError(t, err)
	_, err = svc.CreateCategory(context.Background(), "More books", "books")
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCreateTitleResolvesSlugs(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.CreateCategory(context.Background(), "Films", "films")
	require.NoError(t, err)
	_, err = svc.CreateGenre(context.Background(), "Sci-Fi", "sci-fi")
	require.NoError(t, err)

	category := "films"
	title, err := svc.CreateTitle(context.Background(), TitleParams{
		Name: "Solaris", Year: 1972, Category: &category, Genres: []string{"sci-fi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Solaris", title.Name)

	t.Run("UnknownCategory", func(t *testing.T) {
		bad := "games"
		_, err := svc.CreateTitle(context.Background(), TitleParams{Name: "X", Year: 2000, Category: &bad})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
	t.Run("UnknownGenre", func(t *testing.T) {
		_, err := svc.CreateTitle(context.Background(), TitleParams{Name: "X", Year: 2000, Genres: []string{"nope"}})
		assert.ErrorIs(t, err, ErrGenreNotFound)
	})
}

func TestTitleRatingIsDerived(t *testing.T) {
	svc, _, _, titles := newTestService()
	created, err := svc.CreateTitle(context.Background(), TitleParams{Name: "Solaris", Year: 1972})
	require.NoError(t, err)

	t.Run("NoReviewsMeansNoRating", func(t *testing.T) {
		title, err := svc.GetTitle(context.Background(), created.ID)
		require.NoError(t, err)
		assert.False(t, title.Rating.Valid)
	})
	t.Run("AverageOverScores", func(t *testing.T) {
		titles.scores[created.ID] = []int32{8, 6, 10}
		title, err := svc.GetTitle(context.Background(), created.ID)
		require.NoError(t, err)
		require.True(t, title.Rating.Valid)
		assert.InDelta(t, 8.0, title.Rating.Value, 0.001)
	})
}

func TestDeleteCategoryNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	assert.ErrorIs(t, svc.DeleteCategory(context.Background(), "nope"), ErrCategoryNotFound)
}
