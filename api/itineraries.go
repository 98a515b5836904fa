package api

import (
	"net/http"

	"github.com/Domenick1991/tripbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type ItineraryHandler struct {
	service flights.FlightUseCase
}

func NewItineraryHandler(service flights.FlightUseCase) *ItineraryHandler {
	return &ItineraryHandler{service: service}
}

func (h *ItineraryHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
}

func (h *ItineraryHandler) get(c *gin.Context) {
	id := c.Param("id")
	legs, err := h.service.GetItinerary(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItineraryResponse(id, legs))
}

func (h *ItineraryHandler) cancel(c *gin.Context) {
	if err := h.service.CancelItinerary(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
