package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// MovieHandler serves the movie catalog.
type MovieHandler struct {
	movies MovieStore
}

// NewMovieHandler wires the movie endpoints.
func NewMovieHandler(m MovieStore) *MovieHandler {
	return &MovieHandler{movies: m}
}

type createMovieReq struct {
	Title       string `json:"title" validate:"required,max=255"`
	Synopsis    string `json:"synopsis"`
	DurationMin uint32 `json:"duration_min" validate:"required,min=1,max=1000"`
	PosterURL   string `json:"poster_url" validate:"omitempty,url"`
}

// Create adds a movie.
func (h *MovieHandler) Create(c echo.Context) error {
	var req createMovieReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "malformed JSON")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}
	m := &model.Movie{Title: req.Title, Synopsis: req.Synopsis, DurationMin: req.DurationMin, PosterURL: req.PosterURL}
	if err := h.movies.Create(c.Request().Context(), m); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, movieResp(m))
}

// Get returns one movie.
func (h *MovieHandler) Get(c echo.Context) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "id", "must be a positive integer")
	}
	m, err := h.movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "movie not found", Code: http.StatusNotFound})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, movieResp(m))
}

// List returns one page of movies ordered by title, optionally narrowed
// by id or by part of the title.
func (h *MovieHandler) List(c echo.Context) error {
	var f repository.MovieFilter
	var field, reason string
	if f.Limit, f.Offset, field, reason = pageQuery(c); field != "" {
		return badRequest(c, field, reason)
	}
	id, ok := uintQuery(c, "id")
	if !ok {
		return badRequest(c, "id", "must be a positive integer")
	}
	f.ID = id
	f.Title = strings.TrimSpace(c.QueryParam("title"))

	list, err := h.movies.List(c.Request().Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]echo.Map, len(list))
	for i := range list {
		out[i] = movieResp(&list[i])
	}
	return c.JSON(http.StatusOK, out)
}

func movieResp(m *model.Movie) echo.Map {
	return echo.Map{
		"id":           m.ID,
		"title":        m.Title,
		"synopsis":     m.Synopsis,
		"duration_min": m.DurationMin,
		"poster_url":   m.PosterURL,
	}
}
