package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/meteorites-backend-go/internal/models"
	"github.com/jengzang/meteorites-backend-go/internal/service"
	"github.com/jengzang/meteorites-backend-go/pkg/response"
)

// WelcomeMessage is returned by the API root
const WelcomeMessage = "Welcome to the API root. Refer to the documentation at https://github.com/Nde-Code/MeteoritesAPI."

// MeteoriteHandler handles HTTP requests for the meteorite catalog
type MeteoriteHandler struct {
	service *service.MeteoriteService
	log     *slog.Logger
}

// NewMeteoriteHandler creates a new meteorite handler
func NewMeteoriteHandler(service *service.MeteoriteService, log *slog.Logger) *MeteoriteHandler {
	return &MeteoriteHandler{service: service, log: log}
}

// Root greets the caller
// GET /
func (h *MeteoriteHandler) Root(c *gin.Context) {
	response.Success(c, WelcomeMessage)
}

// Stats returns the precomputed dataset statistics
// GET /stats
func (h *MeteoriteHandler) Stats(c *gin.Context) {
	stats, err := h.service.Statistics()
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Info("returned /stats data")
	response.Success(c, stats)
}

// Random returns a contiguous window of the shuffled catalog
// GET /random?count=N
func (h *MeteoriteHandler) Random(c *gin.Context) {
	var q models.RandomQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.FromError(c, err)
		return
	}

	meteorites, err := h.service.Random(q)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Info("returned random meteorites", "count", len(meteorites), "query", c.Request.URL.RawQuery)
	response.Success(c, models.MeteoritesResponse{Count: len(meteorites), Meteorites: meteorites})
}

// Get looks up a single meteorite by id or name
// GET /get?id=ID | /get?name=NAME
func (h *MeteoriteHandler) Get(c *gin.Context) {
	var q models.LookupQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.FromError(c, err)
		return
	}

	m, err := h.service.Lookup(q)
	if err != nil {
		h.log.Warn("unable to find meteorite", "query", c.Request.URL.RawQuery, "error", err)
		response.FromError(c, err)
		return
	}

	h.log.Info("returned meteorite", "query", c.Request.URL.RawQuery)
	response.Success(c, models.MeteoriteResponse{Meteorite: m})
}

// Search returns the meteorites matching every supplied filter
// GET /search
func (h *MeteoriteHandler) Search(c *gin.Context) {
	var q models.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.FromError(c, err)
		return
	}

	meteorites, err := h.service.Search(q)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Info("returned search results", "count", len(meteorites), "query", c.Request.URL.RawQuery)
	response.Success(c, models.MeteoritesResponse{Count: len(meteorites), Meteorites: meteorites})
}
