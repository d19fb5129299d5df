package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AmirAliEidivandi/movie/pkg/logger"
	"github.com/AmirAliEidivandi/movie/services/movies/internal/entity"
	"github.com/AmirAliEidivandi/movie/services/movies/internal/usecase"

	"github.com/gin-gonic/gin"
)

type MoviesHandler struct {
	moviesUseCase usecase.MoviesUseCase
	logger        *logger.Logger
}

func NewMoviesHandler(moviesUseCase usecase.MoviesUseCase, log *logger.Logger) *MoviesHandler {
	return &MoviesHandler{
		moviesUseCase: moviesUseCase,
		logger:        log,
	}
}

// Popular godoc
// @Summary      Popular movies
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number (default 1)"
// @Success      200  {object}  entity.MovieList
// @Router       /movies/popular [get]
func (h *MoviesHandler) Popular(c *gin.Context) {
	list, err := h.moviesUseCase.Popular(c.Request.Context(), pageParam(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Trending godoc
// @Summary      Trending movies
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Param        window query string false "Time window: day or week (default week)"
// @Param        page   query int    false "Page number (default 1)"
// @Success      200  {object}  entity.MovieList
// @Router       /movies/trending [get]
func (h *MoviesHandler) Trending(c *gin.Context) {
	window := c.DefaultQuery("window", "week")

	list, err := h.moviesUseCase.Trending(c.Request.Context(), window, pageParam(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Search godoc
// @Summary      Search movies by title
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Param        query query string true  "Search query"
// @Param        page  query int    false "Page number (default 1)"
// @Success      200  {object}  entity.MovieList
// @Failure      400  {object}  map[string]string
// @Router       /movies/search [get]
func (h *MoviesHandler) Search(c *gin.Context) {
	query := c.Query("query")

	list, err := h.moviesUseCase.Search(c.Request.Context(), query, pageParam(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Details godoc
// @Summary      Movie details
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "TMDB movie ID"
// @Success      200  {object}  entity.MovieDetails
// @Failure      404  {object}  map[string]string
// @Router       /movies/{id} [get]
func (h *MoviesHandler) Details(c *gin.Context) {
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil || movieID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	details, err := h.moviesUseCase.Details(c.Request.Context(), movieID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Genres godoc
// @Summary      Movie genres
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.GenreList
// @Router       /movies/genres [get]
func (h *MoviesHandler) Genres(c *gin.Context) {
	genres, err := h.moviesUseCase.Genres(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genres)
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return page
}

func (h *MoviesHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrMovieNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrUpstreamFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Movies operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
