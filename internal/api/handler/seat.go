package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type SeatHandler struct {
	service SeatServiceInterface
}

func NewSeatHandler(s SeatServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

type AvailableSeatsResponse struct {
	Seats []int `json:"seats"`
	Count int   `json:"count"`
}

// GetAvailable godoc
// @Summary 空席一覧を取得
// @Description 空席の座席番号を昇順で取得します。stable=trueでは行ロック付きの読み取りになり、並行する割当と直列化されます
// @Tags seats
// @Produce json
// @Param stable query bool false "安定読み取り（行ロック付き）"
// @Success 200 {object} AvailableSeatsResponse
// @Router /seats/available [get]
func (h *SeatHandler) GetAvailable(c echo.Context) error {
	stable := c.QueryParam("stable") == "true"
	seats, err := h.service.GetAvailableSeats(c.Request().Context(), stable)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, AvailableSeatsResponse{Seats: seats, Count: len(seats)})
}

func (h *SeatHandler) CountAvailable(c echo.Context) error {
	count, err := h.service.CountAvailableSeats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}
