package catalog

import (
	"context"
	"errors"
	"log/slog"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
)

type CategoriesStorage interface {
	Insert(ctx context.Context, name, slug string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context, search string, f filters.Filters) ([]models.Category, int, error)
	Delete(ctx context.Context, slug string) error
}

type GenresStorage interface {
	Insert(ctx context.Context, name, slug string) (*models.Genre, error)
	GetBySlug(ctx context.Context, slug string) (*models.Genre, error)
	List(ctx context.Context, search string, f filters.Filters) ([]models.Genre, int, error)
	Delete(ctx context.Context, slug string) error
}

type TitlesStorage interface {
	Get(ctx context.Context, id int64) (*models.Title, error)
	List(ctx context.Context, tf filters.TitleFilters, f filters.Filters) ([]models.Title, int, error)
	Insert(ctx context.Context, name string, year int32, description string, categoryID *int64, genreIDs []int64) (int64, error)
	Update(ctx context.Context, id int64, name string, year int32, description string, categoryID *int64, genreIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

type CatalogService struct {
	log        *slog.Logger
	categories CategoriesStorage
	genres     GenresStorage
	titles     TitlesStorage
}

func New(log *slog.Logger, categories CategoriesStorage, genres GenresStorage, titles TitlesStorage) *CatalogService {
	return &CatalogService{
		log:        log,
		categories: categories,
		genres:     genres,
		titles:     titles,
	}
}

type TitleParams struct {
	Name        string
	Year        int32
	Description string
	Category    *string  // category slug, nil clears the category
	Genres      []string // genre slugs, nil leaves links untouched on update
}

func (s *CatalogService) ListCategories(ctx context.Context, search string, f filters.Filters) ([]models.Category, int, error) {
	const op = "catalog.CatalogService.ListCategories"
	categories, total, err := s.categories.List(ctx, search, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return categories, total, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	const op = "catalog.CatalogService.CreateCategory"
	category, err := s.categories.Insert(ctx, name, slug)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrSlugTaken
		}
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	const op = "catalog.CatalogService.DeleteCategory"
	if err := s.categories.Delete(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCategoryNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return err
	}
	return nil
}

func (s *CatalogService) ListGenres(ctx context.Context, search string, f filters.Filters) ([]models.Genre, int, error) {
	const op = "catalog.CatalogService.ListGenres"
	genres, total, err := s.genres.List(ctx, search, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return genres, total, nil
}

func (s *CatalogService) CreateGenre(ctx context.Context, name, slug string) (*models.Genre, error) {
	const op = "catalog.CatalogService.CreateGenre"
	genre, err := s.genres.Insert(ctx, name, slug)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrSlugTaken
		}
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return genre, nil
}

func (s *CatalogService) DeleteGenre(ctx context.Context, slug string) error {
	const op = "catalog.CatalogService.DeleteGenre"
	if err := s.genres.Delete(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrGenreNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return err
	}
	return nil
}

// ListTitles returns titles with their read-time rating already computed by
// the storage query, ordered by name unless the caller sorts otherwise.
func (s *CatalogService) ListTitles(ctx context.Context, tf filters.TitleFilters, f filters.Filters) ([]models.Title, int, error) {
	const op = "catalog.CatalogService.ListTitles"
	titles, total, err := s.titles.List(ctx, tf, f)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return titles, total, nil
}

func (s *CatalogService) GetTitle(ctx context.Context, id int64) (*models.Title, error) {
	const op = "catalog.CatalogService.GetTitle"
	title, err := s.titles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTitleNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return nil, err
	}
	return title, nil
}

func (s *CatalogService) CreateTitle(ctx context.Context, params TitleParams) (*models.Title, error) {
	const op = "catalog.CatalogService.CreateTitle"
	log := s.log.With("op", op, "name", params.Name)
	categoryID, genreIDs, err := s.resolveRefs(ctx, params)
	if err != nil {
		return nil, err
	}
	id, err := s.titles.Insert(ctx, params.Name, params.Year, params.Description, categoryID, genreIDs)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return s.GetTitle(ctx, id)
}

func (s *CatalogService) UpdateTitle(ctx context.Context, id int64, params TitleParams) (*models.Title, error) {
	const op = "catalog.CatalogService.UpdateTitle"
	log := s.log.With("op", op, "id", id)
	title, err := s.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Name == "" {
		params.Name = title.Name
	}
	if params.Year == 0 {
		params.Year = title.Year
	}
	if params.Description == "" {
		params.Description = title.Description
	}
	if params.Category == nil && title.Category != nil {
		params.Category = &title.Category.Slug
	}
	categoryID, genreIDs, err := s.resolveRefs(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := s.titles.Update(ctx, id, params.Name, params.Year, params.Description, categoryID, genreIDs); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return s.GetTitle(ctx, id)
}

func (s *CatalogService) DeleteTitle(ctx context.Context, id int64) error {
	const op = "catalog.CatalogService.DeleteTitle"
	if err := s.titles.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTitleNotFound
		}
		s.log.With("op", op).Error(err.Error())
		return err
	}
	return nil
}

// resolveRefs maps category and genre slugs from the request payload onto
// stored ids; unknown slugs surface as NotFound for the referenced kind.
func (s *CatalogService) resolveRefs(ctx context.Context, params TitleParams) (*int64, []int64, error) {
	var categoryID *int64
	if params.Category != nil {
		category, err := s.categories.GetBySlug(ctx, *params.Category)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, nil, ErrCategoryNotFound
			}
			return nil, nil, err
		}
		categoryID = &category.ID
	}
	var genreIDs []int64
	if params.Genres != nil {
		genreIDs = make([]int64, 0, len(params.Genres))
		for _, slug := range params.Genres {
			genre, err := s.genres.GetBySlug(ctx, slug)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return nil, nil, ErrGenreNotFound
				}
				return nil, nil, err
			}
			genreIDs = append(genreIDs, genre.ID)
		}
	}
	return categoryID, genreIDs, nil
}
