package service

import (
	"context"
	"iter"

	"github.com/iliyamo/cinema-booking/internal/database"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/queue"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// TxBeginner opens units of work.  *database.TxManager satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (database.Tx, error)
}

// RoomStore is the room persistence used by the services.
type RoomStore interface {
	CreateTx(ctx context.Context, tx database.Tx, room *model.Room) error
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	LockSharedTx(ctx context.Context, tx database.Tx, id uint64) (*model.Room, error)
	LockForUpdateTx(ctx context.Context, tx database.Tx, id uint64) (*model.Room, error)
	UpdateDimensionsTx(ctx context.Context, tx database.Tx, id uint64, rows, cols uint32) error
	DeleteTx(ctx context.Context, tx database.Tx, id uint64) error
}

// SeatStore is the seat persistence used by the services.
type SeatStore interface {
	CreateBulkTx(ctx context.Context, tx database.Tx, seats []model.Seat) error
	All(ctx context.Context, roomID uint64) iter.Seq2[model.Seat, error]
	GetByRoom(ctx context.Context, roomID uint64) ([]model.Seat, error)
	GetByRoomTx(ctx context.Context, tx database.Tx, roomID uint64) ([]model.Seat, error)
	LockByIDsTx(ctx context.Context, tx database.Tx, roomID uint64, ids []uint64) ([]model.Seat, error)
	LockByIDTx(ctx context.Context, tx database.Tx, id uint64) (*model.Seat, error)
	SetBaseStatusTx(ctx context.Context, tx database.Tx, id uint64, status model.BaseStatus) error
	ResetAdminBlocksTx(ctx context.Context, tx database.Tx, roomID uint64) (int64, error)
	DeleteByRoomTx(ctx context.Context, tx database.Tx, roomID uint64) error
}

// BookingStore is the booking persistence used by the services.
type BookingStore interface {
	CreateTx(ctx context.Context, tx database.Tx, b *model.Booking) error
	CreateSeatsBulkTx(ctx context.Context, tx database.Tx, seats []model.BookingSeat) error
	BookedSeatIDsTx(ctx context.Context, tx database.Tx, roomID uint64, date model.ShowDate, seatIDs []uint64) ([]uint64, error)
	BookedSeatIDs(ctx context.Context, roomID uint64, date model.ShowDate) ([]uint64, error)
	ActiveSeatIDsTx(ctx context.Context, tx database.Tx, roomID uint64, from model.ShowDate) ([]uint64, error)
	SeatHasActiveTx(ctx context.Context, tx database.Tx, seatID uint64, from model.ShowDate) (bool, error)
	CountActiveTx(ctx context.Context, tx database.Tx, roomID uint64, from model.ShowDate) (int, error)
	DetachInactiveSeatsTx(ctx context.Context, tx database.Tx, roomID uint64, before model.ShowDate) (int64, error)
	DeleteInactiveTx(ctx context.Context, tx database.Tx, roomID uint64, before model.ShowDate) (int64, error)
	LockByIDTx(ctx context.Context, tx database.Tx, id uint64) (*model.Booking, error)
	DeleteSeatsTx(ctx context.Context, tx database.Tx, bookingID uint64) (int64, error)
	DeleteTx(ctx context.Context, tx database.Tx, id uint64) error
	List(ctx context.Context, f repository.BookingFilter) ([]model.Booking, error)
}

// MovieStore checks movie references.
type MovieStore interface {
	ExistsTx(ctx context.Context, tx database.Tx, id uint64) (bool, error)
}

// TicketStore reads the rows a ticket is assembled from.
type TicketStore interface {
	GetHeader(ctx context.Context, bookingID uint64) (*model.TicketRecord, error)
	GetSeats(ctx context.Context, bookingID uint64) ([]model.Seat, error)
}

// LayoutCache stores computed layouts.  Get reports the room version it
// read; Set must be given that version, never a fresh one, so a layout
// computed before an Invalidate is never visible after it.  A nil
// LayoutCache disables caching.
type LayoutCache interface {
	Get(ctx context.Context, roomID uint64, date model.ShowDate) (layout []model.LayoutSeat, ver int64, ok bool, err error)
	Set(ctx context.Context, roomID uint64, date model.ShowDate, ver int64, layout []model.LayoutSeat) error
	Invalidate(ctx context.Context, roomID uint64) error
}

// EventPublisher announces committed booking changes.  A nil
// EventPublisher disables publishing.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
	PublishBookingCancelled(ctx context.Context, ev queue.BookingCancelledEvent) error
}
