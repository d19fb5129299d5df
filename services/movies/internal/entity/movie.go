package entity

import "errors"

var (
	ErrMovieNotFound  = errors.New("movie not found")
	ErrUpstreamFailed = errors.New("movie catalog is unavailable")
	ErrEmptyQuery     = errors.New("search query must not be empty")
)

// Movie is a single entry in a TMDB list response.
type Movie struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	ReleaseDate   string  `json:"release_date"`
	GenreIDs      []int   `json:"genre_ids,omitempty"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Popularity    float64 `json:"popularity"`
	OriginalTitle string  `json:"original_title,omitempty"`
	Adult         bool    `json:"adult"`
}

type MovieList struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type GenreList struct {
	Genres []Genre `json:"genres"`
}

// MovieDetails is the full record returned for a single title.
type MovieDetails struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	ReleaseDate   string  `json:"release_date"`
	Genres        []Genre `json:"genres"`
	Runtime       int     `json:"runtime"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Popularity    float64 `json:"popularity"`
	Status        string  `json:"status"`
	Tagline       string  `json:"tagline"`
	Budget        int64   `json:"budget"`
	Revenue       int64   `json:"revenue"`
	OriginalTitle string  `json:"original_title,omitempty"`
	Homepage      string  `json:"homepage,omitempty"`
	IMDbID        string  `json:"imdb_id,omitempty"`
	Adult         bool    `json:"adult"`
}
