package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AmirAliEidivandi/movie/pkg/logger"
	"github.com/AmirAliEidivandi/movie/services/movies/internal/entity"
)

// Cache TTLs are tiered by how fast each listing goes stale.
const (
	PopularTTL  = 30 * time.Minute
	TrendingTTL = 3 * time.Hour
	DetailsTTL  = 24 * time.Hour
	SearchTTL   = 15 * time.Minute
	GenresTTL   = 7 * 24 * time.Hour
)

// CatalogClient is the upstream movie catalog API.
type CatalogClient interface {
	Popular(ctx context.Context, page int) (*entity.MovieList, error)
	Trending(ctx context.Context, window string, page int) (*entity.MovieList, error)
	Search(ctx context.Context, query string, page int) (*entity.MovieList, error)
	Details(ctx context.Context, movieID int) (*entity.MovieDetails, error)
	Genres(ctx context.Context) (*entity.GenreList, error)
}

// ListCache is the slice of the cache layer the catalog needs.
type ListCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
}

type MoviesUseCase interface {
	Popular(ctx context.Context, page int) (*entity.MovieList, error)
	Trending(ctx context.Context, window string, page int) (*entity.MovieList, error)
	Search(ctx context.Context, query string, page int) (*entity.MovieList, error)
	Details(ctx context.Context, movieID int) (*entity.MovieDetails, error)
	Genres(ctx context.Context) (*entity.GenreList, error)
}

type moviesUseCase struct {
	catalog CatalogClient
	cache   ListCache
	logger  *logger.Logger
}

func NewMoviesUseCase(catalog CatalogClient, cache ListCache, log *logger.Logger) MoviesUseCase {
	return &moviesUseCase{
		catalog: catalog,
		cache:   cache,
		logger:  log,
	}
}

func (uc *moviesUseCase) Popular(ctx context.Context, page int) (*entity.MovieList, error) {
	page = normalizePage(page)
	key := fmt.Sprintf("popular_p%d", page)

	var cached entity.MovieList
	if uc.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	list, err := uc.catalog.Popular(ctx, page)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(ctx, key, list, PopularTTL)
	return list, nil
}

func (uc *moviesUseCase) Trending(ctx context.Context, window string, page int) (*entity.MovieList, error) {
	if window != "day" && window != "week" {
		window = "week"
	}
	page = normalizePage(page)
	key := fmt.Sprintf("trending_%s_p%d", window, page)

	var cached entity.MovieList
	if uc.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	list, err := uc.catalog.Trending(ctx, window, page)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(ctx, key, list, TrendingTTL)
	return list, nil
}

func (uc *moviesUseCase) Search(ctx context.Context, query string, page int) (*entity.MovieList, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, entity.ErrEmptyQuery
	}
	page = normalizePage(page)
	key := fmt.Sprintf("search_%s_p%d", strings.ToLower(query), page)

	var cached entity.MovieList
	if uc.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	list, err := uc.catalog.Search(ctx, query, page)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(ctx, key, list, SearchTTL)
	return list, nil
}

func (uc *moviesUseCase) Details(ctx context.Context, movieID int) (*entity.MovieDetails, error) {
	key := fmt.Sprintf("details_%d", movieID)

	var cached entity.MovieDetails
	if uc.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	details, err := uc.catalog.Details(ctx, movieID)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(ctx, key, details, DetailsTTL)
	return details, nil
}

func (uc *moviesUseCase) Genres(ctx context.Context) (*entity.GenreList, error) {
	const key = "genres"

	var cached entity.GenreList
	if uc.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	genres, err := uc.catalog.Genres(ctx)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(ctx, key, genres, GenresTTL)
	return genres, nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
