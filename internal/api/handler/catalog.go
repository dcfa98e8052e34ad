package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-seat-booking/internal/application"
	"github.com/sanosuguru/go-seat-booking/internal/domain/category"
	"github.com/sanosuguru/go-seat-booking/internal/domain/seat"
)

type CatalogHandler struct {
	service CatalogServiceInterface
}

func NewCatalogHandler(s CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: s}
}

type InitCatalogRequest struct {
	SeatCount int       `json:"seat_count" validate:"min=0" example:"100"`
	Prices    []float64 `json:"prices" validate:"required,min=1" example:"100,75.5,50"`
}

type CategoryResponse struct {
	ID    int     `json:"id" example:"0"`
	Name  string  `json:"name" example:"category-0"`
	Price float64 `json:"price" example:"100"`
}

type CatalogResponse struct {
	SeatCount  int                `json:"seat_count" example:"100"`
	Categories []CategoryResponse `json:"categories"`
}

func toCatalogResponse(seatCount int, categories []*category.Category) CatalogResponse {
	resp := CatalogResponse{SeatCount: seatCount, Categories: make([]CategoryResponse, len(categories))}
	for i, c := range categories {
		resp.Categories[i] = CategoryResponse{ID: c.ID, Name: c.Name, Price: c.Price}
	}
	return resp
}

// Init godoc
// @Summary カタログを再投入
// @Description 既存の予約・座席・カテゴリをすべて破棄し、新しい座席とカテゴリを投入します
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body InitCatalogRequest true "座席数と価格リスト"
// @Success 201 {object} CatalogResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "別の再投入が実行中"
// @Router /catalog [post]
func (h *CatalogHandler) Init(c echo.Context) error {
	var req InitCatalogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	categories, err := h.service.InitCatalog(c.Request().Context(), application.InitCatalogInput{
		SeatCount: req.SeatCount, PriceList: req.Prices,
	})
	if err != nil {
		switch {
		case errors.Is(err, category.ErrReseedInProgress):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, seat.ErrInvalidSeatCount),
			errors.Is(err, category.ErrEmptyPriceList),
			errors.Is(err, category.ErrInvalidPrice):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, toCatalogResponse(req.SeatCount, categories))
}

// GetPriceList godoc
// @Summary 価格リストを取得
// @Description カテゴリID昇順の価格リストを取得します
// @Tags catalog
// @Produce json
// @Success 200 {array} float64
// @Router /catalog/prices [get]
func (h *CatalogHandler) GetPriceList(c echo.Context) error {
	prices, err := h.service.GetPriceList(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, prices)
}
