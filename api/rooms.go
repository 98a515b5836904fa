package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	service booking.BookingUseCase
}

type listRoomsQuery struct {
	HotelID     int64     `form:"hotel_id" binding:"omitempty,gt=0"`
	RoomType    string    `form:"room_type" binding:"omitempty,oneof=standard large premium"`
	MinPrice    float64   `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice    float64   `form:"max_price" binding:"omitempty,gte=0"`
	MinCapacity int       `form:"min_capacity" binding:"omitempty,gte=1"`
	SortByPrice bool      `form:"sort_by_price"`
	Start       time.Time `form:"start"`
	End         time.Time `form:"end"`
}

type availabilityQuery struct {
	Start time.Time `form:"start" binding:"required"`
	End   time.Time `form:"end" binding:"required"`
}

type updateRoomRequest struct {
	RoomType *string  `json:"room_type" binding:"omitempty,oneof=standard large premium"`
	Price    *float64 `json:"price" binding:"omitempty,gt=0"`
	Capacity *int     `json:"capacity" binding:"omitempty,gt=0"`
}

type roomResponse struct {
	ID        int64   `json:"id"`
	HotelID   int64   `json:"hotel_id"`
	HotelName string  `json:"hotel_name,omitempty"`
	RoomType  string  `json:"room_type"`
	Price     float64 `json:"price"`
	Capacity  int     `json:"capacity"`
	Available bool    `json:"available"`
}

type availabilityResponse struct {
	RoomID    int64  `json:"room_id"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

func NewRoomHandler(service booking.BookingUseCase) *RoomHandler {
	return &RoomHandler{service: service}
}

func (h *RoomHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id/availability", h.availability)
	router.PATCH("/:id", auth, h.update)
}

func (h *RoomHandler) list(c *gin.Context) {
	var q listRoomsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	rooms, err := h.service.ListRooms(c.Request.Context(), domain.RoomFilter{
		HotelID:     q.HotelID,
		RoomType:    domain.RoomType(q.RoomType),
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		MinCapacity: q.MinCapacity,
		SortByPrice: q.SortByPrice,
		FreeFrom:    q.Start,
		FreeTo:      q.End,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]roomResponse, 0, len(rooms))
	for _, r := range rooms {
		resp = append(resp, toRoomResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RoomHandler) availability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var q availabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	free, err := h.service.GetRoomAvailability(c.Request.Context(), id, q.Start, q.End)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, availabilityResponse{
		RoomID:    id,
		Start:     q.Start.UTC().Format(time.RFC3339),
		End:       q.End.UTC().Format(time.RFC3339),
		Available: free,
	})
}

func (h *RoomHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	update := domain.RoomUpdate{Price: req.Price, Capacity: req.Capacity}
	if req.RoomType != nil {
		rt := domain.RoomType(*req.RoomType)
		update.RoomType = &rt
	}

	room, err := h.service.UpdateRoom(c.Request.Context(), principalFrom(c), id, update)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomResponse(*room))
}

func toRoomResponse(r domain.Room) roomResponse {
	return roomResponse{
		ID:        r.ID,
		HotelID:   r.HotelID,
		HotelName: r.HotelName,
		RoomType:  string(r.RoomType),
		Price:     r.Price,
		Capacity:  r.Capacity,
		Available: r.Available,
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, errors.New("invalid id"))
		return 0, false
	}
	return id, true
}
