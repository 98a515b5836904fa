package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	RoomID    int64     `json:"room_id" binding:"required,gt=0"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

type createBookingByDaysRequest struct {
	RoomID    int64     `json:"room_id" binding:"required,gt=0"`
	StartDate time.Time `json:"start_date" binding:"required"`
	NumDays   int       `json:"num_days" binding:"lte=365"`
}

type bookingResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	RoomID    int64  `json:"room_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	CreatedAt string `json:"created_at,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.POST("/by-days", h.createByDays)
	router.GET("/mine", h.mine)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.service.BookRoom(c.Request.Context(), principalFrom(c), booking.BookRoomInput{
		RoomID:    req.RoomID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(*b))
}

func (h *BookingHandler) createByDays(c *gin.Context) {
	var req createBookingByDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.service.BookRoomForDuration(c.Request.Context(), principalFrom(c), booking.BookRoomForDurationInput{
		RoomID:    req.RoomID,
		StartDate: req.StartDate,
		NumDays:   req.NumDays,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(*b))
}

func (h *BookingHandler) mine(c *gin.Context) {
	bookings, err := h.service.ListUserBookings(c.Request.Context(), principalFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, toBookingResponse(b))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.CancelBooking(c.Request.Context(), principalFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toBookingResponse(b domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		RoomID:    b.RoomID,
		StartDate: b.StartDate.UTC().Format(time.RFC3339),
		EndDate:   b.EndDate.UTC().Format(time.RFC3339),
	}
	if !b.CreatedAt.IsZero() {
		resp.CreatedAt = b.CreatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
