// Package handler exposes the HTTP handlers of the API.  This file serves
// the public catalog routes; none of them require authentication.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/pathfinder-api/internal/service"
)

// CatalogHandler serves read-only college and stream queries.
type CatalogHandler struct {
	Catalog *service.CatalogService
	Log     zerolog.Logger
}

func NewCatalogHandler(catalog *service.CatalogService, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog, Log: log}
}

// filterQuery reads the optional filters shared by both listing routes.
func filterQuery(c echo.Context) service.CollegeQuery {
	return service.CollegeQuery{
		Type:     c.QueryParam("type"),
		Location: c.QueryParam("location"),
		Course:   c.QueryParam("course"),
		Search:   c.QueryParam("search"),
	}
}

// ListColleges handles GET /api/colleges?stream&type&location&course&search.
func (h *CatalogHandler) ListColleges(c echo.Context) error {
	q := filterQuery(c)
	q.Stream = c.QueryParam("stream")

	list, err := h.Catalog.List(q)
	if err != nil {
		return respondError(c, h.Log, "list colleges", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   list.Count,
		"data":    list.Data,
	})
}

// ListStreamColleges handles GET /api/colleges/:stream.
func (h *CatalogHandler) ListStreamColleges(c echo.Context) error {
	q := filterQuery(c)
	q.Stream = c.Param("stream")

	list, err := h.Catalog.List(q)
	if err != nil {
		return respondError(c, h.Log, "list stream colleges", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"stream":  q.Stream,
		"count":   list.Count,
		"data":    list.Data,
	})
}

// GetCollege handles GET /api/college/:id.  An id that is not a number can
// never match, so it is reported like any other unknown id.
func (h *CatalogHandler) GetCollege(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "College not found"})
	}
	college, err := h.Catalog.Get(id)
	if err != nil {
		return respondError(c, h.Log, "get college", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": college})
}

// ListStreams handles GET /api/streams.
func (h *CatalogHandler) ListStreams(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": h.Catalog.Streams()})
}

// StreamFilters handles GET /api/streams/:stream/filters.
func (h *CatalogHandler) StreamFilters(c echo.Context) error {
	stream := c.Param("stream")
	opts, err := h.Catalog.FilterOptions(stream)
	if err != nil {
		return respondError(c, h.Log, "stream filters", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "stream": stream, "data": opts})
}
