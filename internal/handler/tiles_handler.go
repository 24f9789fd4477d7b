package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gabrielunor/coordinator-backend/internal/domain/model"
	"github.com/Gabrielunor/coordinator-backend/internal/usecase"
)

// TilesHandler exposes the tile index over HTTP.
type TilesHandler struct {
	tileUseCase usecase.TileFeatureUseCase
}

// NewTilesHandler creates the handler for every /tiles and /levels route.
func NewTilesHandler(tileUseCase usecase.TileFeatureUseCase) *TilesHandler {
	return &TilesHandler{
		tileUseCase: tileUseCase,
	}
}

// GetTile GET /tiles/:level/:tile_id - resolve one identifier into its feature
func (h *TilesHandler) GetTile(c *gin.Context) {
	level, ok := h.levelParam(c)
	if !ok {
		return
	}
	tileID := c.Param("tile_id")

	feature, err := h.tileUseCase.GetTileFeature(c.Request.Context(), level, tileID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, feature)
}

// LookupTile GET /tiles/lookup - find the tile containing a lon/lat coordinate
func (h *TilesHandler) LookupTile(c *gin.Context) {
	levelStr := c.Query("level")
	if levelStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": "level query parameter is required",
		})
		return
	}
	level, err := strconv.Atoi(levelStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "level must be an integer",
		})
		return
	}

	lon, ok := h.floatQuery(c, "lon")
	if !ok {
		return
	}
	lat, ok := h.floatQuery(c, "lat")
	if !ok {
		return
	}

	result, err := h.tileUseCase.LookupTileFeature(c.Request.Context(), level, lon, lat)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerateLevel GET /tiles/:level - materialize a whole level as GeoJSON
func (h *TilesHandler) GenerateLevel(c *gin.Context) {
	level, ok := h.levelParam(c)
	if !ok {
		return
	}

	collection, err := h.tileUseCase.GenerateLevelFeatures(c.Request.Context(), level)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, collection)
}

// DescribeLevel GET /levels/:level - report the grid geometry of a level
func (h *TilesHandler) DescribeLevel(c *gin.Context) {
	level, ok := h.levelParam(c)
	if !ok {
		return
	}

	info, err := h.tileUseCase.DescribeLevel(c.Request.Context(), level)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *TilesHandler) levelParam(c *gin.Context) (int, bool) {
	level, err := strconv.Atoi(c.Param("level"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "level must be an integer",
		})
		return 0, false
	}
	return level, true
}

func (h *TilesHandler) floatQuery(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": name + " query parameter is required",
		})
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": name + " must be a number",
		})
		return 0, false
	}
	return value, true
}

// renderError maps domain errors onto HTTP statuses: bad input is 400, a
// well-formed request for something that does not exist is 404.
func (h *TilesHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidLevel), errors.Is(err, model.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	case errors.Is(err, model.ErrIdentifierOutOfRange), errors.Is(err, model.ErrUnmappedTile):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "tile_not_found",
			"message": err.Error(),
		})
	case errors.Is(err, model.ErrCoordinateOutOfArea):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "coordinate_out_of_area",
			"message": err.Error(),
		})
	default:
		log.Printf("[%s] internal error: %v", c.GetString(RequestIDKey), err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "unexpected error while resolving the tile",
		})
	}
}
