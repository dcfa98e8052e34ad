package handler

import (
	"context"

	"github.com/sanosuguru/go-seat-booking/internal/application"
	"github.com/sanosuguru/go-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-seat-booking/internal/domain/category"
)

// CatalogServiceInterface はカタログサービスのインターフェース
type CatalogServiceInterface interface {
	InitCatalog(ctx context.Context, input application.InitCatalogInput) ([]*category.Category, error)
	GetPriceList(ctx context.Context) ([]float64, error)
}

// SeatServiceInterface は座席サービスのインターフェース
type SeatServiceInterface interface {
	GetAvailableSeats(ctx context.Context, stable bool) ([]int, error)
	CountAvailableSeats(ctx context.Context) (int, error)
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	AllocateByCategory(ctx context.Context, input application.AllocateByCategoryInput) ([]*booking.Booking, error)
	AllocateSeats(ctx context.Context, input application.AllocateSeatsInput) ([]*booking.Booking, error)
	GetBookings(ctx context.Context, customer string) ([]*booking.Booking, error)
	CancelBookings(ctx context.Context, reqs []booking.CancelRequest) error
}
