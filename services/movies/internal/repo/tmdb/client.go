package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/AmirAliEidivandi/movie/pkg/config"
	"github.com/AmirAliEidivandi/movie/services/movies/internal/entity"

	"github.com/go-resty/resty/v2"
)

// Client talks to the TMDB v3 REST API.
type Client struct {
	http   *resty.Client
	apiKey string
}

func NewClient(cfg *config.Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.TMDBAPIBaseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		apiKey: cfg.TMDBAPIKey,
	}
}

func (c *Client) Popular(ctx context.Context, page int) (*entity.MovieList, error) {
	var list entity.MovieList
	if err := c.get(ctx, "/movie/popular", map[string]string{"page": fmt.Sprintf("%d", page)}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Trending fetches trending movies for a time window ("day" or "week").
func (c *Client) Trending(ctx context.Context, window string, page int) (*entity.MovieList, error) {
	var list entity.MovieList
	path := fmt.Sprintf("/trending/movie/%s", window)
	if err := c.get(ctx, path, map[string]string{"page": fmt.Sprintf("%d", page)}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) Search(ctx context.Context, query string, page int) (*entity.MovieList, error) {
	var list entity.MovieList
	params := map[string]string{
		"query": query,
		"page":  fmt.Sprintf("%d", page),
	}
	if err := c.get(ctx, "/search/movie", params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) Details(ctx context.Context, movieID int) (*entity.MovieDetails, error) {
	var details entity.MovieDetails
	path := fmt.Sprintf("/movie/%d", movieID)
	if err := c.get(ctx, path, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *Client) Genres(ctx context.Context) (*entity.GenreList, error) {
	var genres entity.GenreList
	if err := c.get(ctx, "/genre/movie/list", nil, &genres); err != nil {
		return nil, err
	}
	return &genres, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, result interface{}) error {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetResult(result)
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("tmdb request %s: %w", path, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return entity.ErrMovieNotFound
	case resp.IsError():
		return fmt.Errorf("tmdb request %s: status %d: %w", path, resp.StatusCode(), entity.ErrUpstreamFailed)
	}
	return nil
}
