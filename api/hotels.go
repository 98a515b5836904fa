package api

import (
	"net/http"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/Domenick1991/tripbooking/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type HotelHandler struct {
	service catalog.CatalogUseCase
}

type listHotelsQuery struct {
	City        string `form:"city"`
	Stars       int    `form:"stars" binding:"omitempty,gte=1,lte=5"`
	SortByStars bool   `form:"sort_by_stars"`
}

type createHotelRequest struct {
	Name  string `json:"name" binding:"required,notblank"`
	City  string `json:"city" binding:"required,notblank"`
	Stars int    `json:"stars" binding:"required,gte=1,lte=5"`
}

type createRoomRequest struct {
	HotelID  int64   `json:"hotel_id" binding:"required,gt=0"`
	RoomType string  `json:"room_type" binding:"required,oneof=standard large premium"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Capacity int     `json:"capacity" binding:"required,gt=0"`
}

type hotelResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city"`
	Stars int    `json:"stars"`
}

func NewHotelHandler(service catalog.CatalogUseCase) *HotelHandler {
	return &HotelHandler{service: service}
}

func (h *HotelHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("", h.list)
	router.POST("", auth, h.create)
	router.POST("/rooms", auth, h.createRoom)
}

func (h *HotelHandler) list(c *gin.Context) {
	var q listHotelsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	hotels, err := h.service.ListHotels(c.Request.Context(), domain.HotelFilter{
		City:        q.City,
		Stars:       q.Stars,
		SortByStars: q.SortByStars,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]hotelResponse, 0, len(hotels))
	for _, hotel := range hotels {
		resp = append(resp, toHotelResponse(hotel))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HotelHandler) create(c *gin.Context) {
	var req createHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	hotel, err := h.service.CreateHotel(c.Request.Context(), principalFrom(c), catalog.CreateHotelInput{
		Name:  req.Name,
		City:  req.City,
		Stars: req.Stars,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toHotelResponse(*hotel))
}

func (h *HotelHandler) createRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), principalFrom(c), catalog.CreateRoomInput{
		HotelID:  req.HotelID,
		RoomType: domain.RoomType(req.RoomType),
		Price:    req.Price,
		Capacity: req.Capacity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRoomResponse(*room))
}

func toHotelResponse(h domain.Hotel) hotelResponse {
	return hotelResponse{ID: h.ID, Name: h.Name, City: h.City, Stars: h.Stars}
}
