package handler

import (
	"context"
	"iter"
	"time"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
	"github.com/iliyamo/cinema-booking/internal/service"
)

// BookingServiceInterface is the booking engine as seen by the handlers.
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, req service.BookingRequest) (*model.TicketRecord, error)
	CancelBooking(ctx context.Context, bookingID uint64) (*service.CancelResult, error)
	ListBookings(ctx context.Context, f repository.BookingFilter) ([]model.Booking, error)
}

// TicketServiceInterface assembles tickets and their QR codes.
type TicketServiceInterface interface {
	AssembleTicket(ctx context.Context, bookingID uint64) (*model.TicketRecord, error)
	TicketQR(ctx context.Context, bookingID uint64, size int) ([]byte, *model.TicketRecord, error)
}

// InventoryServiceInterface manages rooms and seats.
type InventoryServiceInterface interface {
	CreateRoom(ctx context.Context, in service.CreateRoomInput) (*model.Room, error)
	SetAdminBlock(ctx context.Context, seatID uint64, blocked bool) (*model.Seat, error)
	ListSeats(ctx context.Context, roomID uint64) iter.Seq2[model.Seat, error]
	DeleteRoom(ctx context.Context, roomID uint64) error
}

// AvailabilityServiceInterface projects per date layouts.
type AvailabilityServiceInterface interface {
	EffectiveLayout(ctx context.Context, roomID uint64, date model.ShowDate) ([]model.LayoutSeat, error)
}

// LayoutServiceInterface restructures rooms.
type LayoutServiceInterface interface {
	ResizeRoom(ctx context.Context, in service.ResizeInput) (*service.ResizeResult, error)
}

// RoomLister lists rooms for the public catalog.
type RoomLister interface {
	List(ctx context.Context) ([]model.Room, error)
}

// MovieStore persists movies.
type MovieStore interface {
	Create(ctx context.Context, m *model.Movie) error
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
	List(ctx context.Context, f repository.MovieFilter) ([]model.Movie, error)
}

// UserStore persists users.
type UserStore interface {
	Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context, f repository.UserFilter) ([]model.User, error)
}

// TokenStore persists hashed refresh tokens.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}
