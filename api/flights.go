package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type searchFlightsQuery struct {
	FromCity   string `form:"from_city" binding:"required,notblank"`
	ToCity     string `form:"to_city" binding:"required,notblank"`
	Passengers int    `form:"passengers" binding:"omitempty,gte=1"`
}

type createFlightRequest struct {
	FromCity   string    `json:"from_city" binding:"required,notblank"`
	ToCity     string    `json:"to_city" binding:"required,notblank"`
	Departure  time.Time `json:"departure" binding:"required"`
	Arrival    time.Time `json:"arrival" binding:"required"`
	TotalSeats int       `json:"total_seats" binding:"required,gte=1"`
	Price      float64   `json:"price" binding:"gte=0"`
}

type bookFlightsRequest struct {
	FlightIDs  []int64 `json:"flight_ids" binding:"required,min=1,dive,gt=0"`
	Passengers int     `json:"passengers" binding:"required,gte=1"`
}

type flightResponse struct {
	ID          int64   `json:"id"`
	FromCity    string  `json:"from_city"`
	ToCity      string  `json:"to_city"`
	Departure   string  `json:"departure"`
	Arrival     string  `json:"arrival"`
	TotalSeats  int     `json:"total_seats"`
	BookedSeats int     `json:"booked_seats"`
	FreeSeats   int     `json:"free_seats"`
	Price       float64 `json:"price"`
}

type flightBookingResponse struct {
	ID          int64  `json:"id"`
	ItineraryID string `json:"itinerary_id"`
	UserID      int64  `json:"user_id"`
	FlightID    int64  `json:"flight_id"`
	Passengers  int    `json:"passengers"`
	BookingDate string `json:"booking_date,omitempty"`
}

type itineraryResponse struct {
	ItineraryID string                  `json:"itinerary_id"`
	Legs        []flightBookingResponse `json:"legs"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("", h.search)
	router.GET("/:id", h.get)
	router.POST("", auth, h.create)
	router.POST("/book", auth, h.book)
	router.GET("/bookings/mine", auth, h.mine)
}

func (h *FlightHandler) search(c *gin.Context) {
	var q searchFlightsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	if q.Passengers == 0 {
		q.Passengers = 1
	}

	found, err := h.service.Search(c.Request.Context(), flights.SearchInput{
		FromCity:   q.FromCity,
		ToCity:     q.ToCity,
		Passengers: q.Passengers,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]flightResponse, 0, len(found))
	for _, f := range found {
		resp = append(resp, toFlightResponse(f))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(*flight))
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	flight, err := h.service.CreateFlight(c.Request.Context(), principalFrom(c), flights.CreateFlightInput{
		FromCity:   req.FromCity,
		ToCity:     req.ToCity,
		Departure:  req.Departure,
		Arrival:    req.Arrival,
		TotalSeats: req.TotalSeats,
		Price:      req.Price,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(*flight))
}

func (h *FlightHandler) book(c *gin.Context) {
	var req bookFlightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	legs, err := h.service.BookItinerary(c.Request.Context(), principalFrom(c), flights.BookItineraryInput{
		FlightIDs:  req.FlightIDs,
		Passengers: req.Passengers,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItineraryResponse(legs[0].ItineraryID, legs))
}

func (h *FlightHandler) mine(c *gin.Context) {
	legs, err := h.service.ListUserFlightBookings(c.Request.Context(), principalFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]flightBookingResponse, 0, len(legs))
	for _, leg := range legs {
		resp = append(resp, toFlightBookingResponse(leg))
	}
	c.JSON(http.StatusOK, resp)
}

func toFlightResponse(f domain.Flight) flightResponse {
	return flightResponse{
		ID:          f.ID,
		FromCity:    f.FromCity,
		ToCity:      f.ToCity,
		Departure:   f.Departure.UTC().Format(time.RFC3339),
		Arrival:     f.Arrival.UTC().Format(time.RFC3339),
		TotalSeats:  f.TotalSeats,
		BookedSeats: f.BookedSeats,
		FreeSeats:   f.FreeSeats(),
		Price:       f.Price,
	}
}

func toFlightBookingResponse(b domain.FlightBooking) flightBookingResponse {
	resp := flightBookingResponse{
		ID:          b.ID,
		ItineraryID: b.ItineraryID,
		UserID:      b.UserID,
		FlightID:    b.FlightID,
		Passengers:  b.Passengers,
	}
	if !b.BookingDate.IsZero() {
		resp.BookingDate = b.BookingDate.UTC().Format(time.RFC3339)
	}
	return resp
}

func toItineraryResponse(id string, legs []domain.FlightBooking) itineraryResponse {
	resp := itineraryResponse{ItineraryID: id, Legs: make([]flightBookingResponse, 0, len(legs))}
	for _, leg := range legs {
		resp.Legs = append(resp.Legs, toFlightBookingResponse(leg))
	}
	return resp
}
