package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-seat-booking/internal/application"
	"github.com/sanosuguru/go-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-seat-booking/internal/domain/category"
	"github.com/sanosuguru/go-seat-booking/internal/domain/seat"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type AllocateByCategoryRequest struct {
	Customer  string `json:"customer" validate:"required" example:"alice"`
	Counts    []int  `json:"counts" example:"2,1"`
	Adjoining bool   `json:"adjoining" example:"true"`
}

type AllocateSeatsRequest struct {
	Customer string  `json:"customer" validate:"required" example:"alice"`
	Seats    [][]int `json:"seats" validate:"required" example:"[[1,2],[5]]"`
}

type CancelBookingEntry struct {
	SeatID     int    `json:"seat_id" validate:"min=1" example:"1"`
	Customer   string `json:"customer" validate:"required" example:"alice"`
	CategoryID int    `json:"category_id" validate:"min=0" example:"0"`
}

type CancelBookingsRequest struct {
	Requests []CancelBookingEntry `json:"requests" validate:"dive"`
}

type BookingResponse struct {
	ID         int64     `json:"id" example:"1"`
	SeatID     int       `json:"seat_id" example:"1"`
	Customer   string    `json:"customer" example:"alice"`
	CategoryID int       `json:"category_id" example:"0"`
	Price      float64   `json:"price" example:"100"`
	CreatedAt  time.Time `json:"created_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID: b.ID, SeatID: b.SeatID, Customer: b.Customer,
		CategoryID: b.CategoryID, Price: b.Price, CreatedAt: b.CreatedAt,
	}
}

func toBookingResponses(bookings []*booking.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return resp
}

// リクエスト自体を修正しない限り成功しないエラー
func isValidationError(err error) bool {
	return errors.Is(err, booking.ErrCustomerRequired) ||
		errors.Is(err, booking.ErrNegativeCount) ||
		errors.Is(err, booking.ErrDuplicateSeat) ||
		errors.Is(err, booking.ErrInvalidSeat) ||
		errors.Is(err, booking.ErrInvalidCategory) ||
		errors.Is(err, category.ErrUnknownCategory) ||
		errors.Is(err, seat.ErrSeatNotFound)
}

// 容量不足または並行予約との競合。同じリクエストが後で成功することもある
func isConflictError(err error) bool {
	return errors.Is(err, seat.ErrInsufficientSeats) ||
		errors.Is(err, seat.ErrNoAdjoiningBlock) ||
		errors.Is(err, seat.ErrSeatUnavailable) ||
		errors.Is(err, booking.ErrSeatConflict) ||
		errors.Is(err, booking.ErrTxConflict)
}

func allocationHTTPError(err error) error {
	switch {
	case isValidationError(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case isConflictError(err):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// Allocate godoc
// @Summary カテゴリ別枚数で座席を割り当て
// @Description カテゴリごとの枚数を指定して空席を割り当てます。adjoining指定時は合計枚数分の連続ブロックを確保します
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body AllocateByCategoryRequest true "割当条件"
// @Success 201 {array} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "空席不足または競合"
// @Router /bookings [post]
func (h *BookingHandler) Allocate(c echo.Context) error {
	var req AllocateByCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	bookings, err := h.service.AllocateByCategory(c.Request().Context(), application.AllocateByCategoryInput{
		Customer: req.Customer, Counts: req.Counts, Adjoining: req.Adjoining,
	})
	if err != nil {
		return allocationHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toBookingResponses(bookings))
}

// AllocateSeats godoc
// @Summary 指定座席を割り当て
// @Description カテゴリごとに座席番号を直接指定して割り当てます。競合時の再試行は行いません
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body AllocateSeatsRequest true "カテゴリ別の座席番号"
// @Success 201 {array} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "指定座席が確保済み"
// @Router /bookings/seats [post]
func (h *BookingHandler) AllocateSeats(c echo.Context) error {
	var req AllocateSeatsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	bookings, err := h.service.AllocateSeats(c.Request().Context(), application.AllocateSeatsInput{
		Customer: req.Customer, SeatsByCategory: req.Seats,
	})
	if err != nil {
		return allocationHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toBookingResponses(bookings))
}

// GetBookings godoc
// @Summary 予約一覧を取得
// @Description 顧客の予約一覧を座席ID昇順で取得します。customer省略時は全予約を返します
// @Tags bookings
// @Produce json
// @Param customer query string false "顧客名"
// @Success 200 {array} BookingResponse
// @Router /bookings [get]
func (h *BookingHandler) GetBookings(c echo.Context) error {
	customer := c.QueryParam("customer")
	bookings, err := h.service.GetBookings(c.Request().Context(), customer)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toBookingResponses(bookings))
}

// Cancel godoc
// @Summary 予約を取消
// @Description 座席・顧客・カテゴリの組で予約を取り消します。1件でも照合に失敗すると全件が取り消されません
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body CancelBookingsRequest true "取消対象"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "予約が存在しない"
// @Failure 409 {object} map[string]string "予約内容の不一致または競合"
// @Router /bookings/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	var req CancelBookingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	reqs := make([]booking.CancelRequest, len(req.Requests))
	for i, r := range req.Requests {
		reqs[i] = booking.CancelRequest{SeatID: r.SeatID, Customer: r.Customer, CategoryID: r.CategoryID}
	}
	if err := h.service.CancelBookings(c.Request().Context(), reqs); err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, booking.ErrBookingMismatch):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case isValidationError(err):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case isConflictError(err):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.NoContent(http.StatusNoContent)
}
