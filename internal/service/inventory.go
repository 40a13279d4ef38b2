package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/database"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/pkg/logger"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

const (
	// MaxRows is the number of row labels available (A to Z).
	MaxRows = 26
	// MaxColumns bounds the seats per row.
	MaxColumns = 200
)

// validateDimensions checks a rows × columns grid.
func validateDimensions(rows, cols int) error {
	var problems []FieldProblem
	if rows < 1 {
		problems = append(problems, FieldProblem{Field: "rows", Reason: "must be at least 1"})
	}
	if cols < 1 {
		problems = append(problems, FieldProblem{Field: "columns", Reason: "must be at least 1"})
	}
	if len(problems) > 0 {
		return &InvalidRequestError{Problems: problems}
	}
	if rows > MaxRows {
		return fmt.Errorf("%w: %d rows, at most %d row letters", ErrUnsupportedDimension, rows, MaxRows)
	}
	if cols > MaxColumns {
		return fmt.Errorf("%w: %d columns, at most %d", ErrUnsupportedDimension, cols, MaxColumns)
	}
	return nil
}

// GenerateSeats returns the rows × cols seats of a room, row major,
// labelled A1 onwards.  Seats whose display id is in blocked start as
// UNAVAILABLE_ADMIN, all others as AVAILABLE.
func GenerateSeats(roomID uint64, rows, cols int, blocked map[string]struct{}) ([]model.Seat, error) {
	if err := validateDimensions(rows, cols); err != nil {
		return nil, err
	}
	seats := make([]model.Seat, 0, rows*cols)
	for r := 0; r < rows; r++ {
		letter := model.RowLetter(r)
		for c := 1; c <= cols; c++ {
			s := model.Seat{RoomID: roomID, RowLetter: letter, ColNumber: uint32(c), BaseStatus: model.BaseAvailable}
			if _, ok := blocked[s.DisplayID()]; ok {
				s.BaseStatus = model.BaseUnavailableAdmin
			}
			seats = append(seats, s)
		}
	}
	return seats, nil
}

// CreateRoomInput describes a new room.
type CreateRoomInput struct {
	RoomNumber uint32
	MovieID    *uint64
	Rows       int
	Columns    int
}

// InventoryService owns rooms and their physical seats.
type InventoryService struct {
	tx       TxBeginner
	rooms    RoomStore
	seats    SeatStore
	bookings BookingStore
	cache    LayoutCache
	now      func() time.Time
}

// NewInventoryService wires the seat inventory.  cache may be nil.
func NewInventoryService(tx TxBeginner, rooms RoomStore, seats SeatStore, bookings BookingStore, cache LayoutCache) *InventoryService {
	return &InventoryService{tx: tx, rooms: rooms, seats: seats, bookings: bookings, cache: cache, now: time.Now}
}

func (s *InventoryService) today() model.ShowDate { return model.DateOf(s.now()) }

// CreateRoom inserts a room together with its full seat grid.  Either
// both persist or neither does.
func (s *InventoryService) CreateRoom(ctx context.Context, in CreateRoomInput) (*model.Room, error) {
	if err := validateDimensions(in.Rows, in.Columns); err != nil {
		return nil, err
	}
	if in.RoomNumber == 0 {
		return nil, invalid("roomNumber", "required")
	}

	tx, err := s.tx.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	room := &model.Room{
		RoomNumber:   in.RoomNumber,
		MovieID:      in.MovieID,
		TotalRows:    uint32(in.Rows),
		TotalColumns: uint32(in.Columns),
	}
	if err := s.rooms.CreateTx(ctx, tx, room); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRoomExists
		}
		if errors.Is(err, repository.ErrMovieNotFound) {
			return nil, invalid("movieId", "unknown movie")
		}
		return nil, fmt.Errorf("insert room: %w", err)
	}
	if _, err := s.CreateSeatsTx(ctx, tx, room.ID, in.Rows, in.Columns, nil); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return room, nil
}

// CreateSeatsTx generates and inserts the seat grid of a room inside tx.
func (s *InventoryService) CreateSeatsTx(ctx context.Context, tx database.Tx, roomID uint64, rows, cols int, blocked map[string]struct{}) ([]model.Seat, error) {
	seats, err := GenerateSeats(roomID, rows, cols, blocked)
	if err != nil {
		return nil, err
	}
	if err := s.seats.CreateBulkTx(ctx, tx, seats); err != nil {
		return nil, fmt.Errorf("insert seats: %w", err)
	}
	return seats, nil
}

// SetAdminBlock switches a seat between AVAILABLE and UNAVAILABLE_ADMIN.
// Blocking a seat held by a confirmed booking for today or later fails
// with ErrSeatInUse.  The seat row stays locked until commit, so a
// concurrent booking either sees the block or completes first.
func (s *InventoryService) SetAdminBlock(ctx context.Context, seatID uint64, blocked bool) (*model.Seat, error) {
	tx, err := s.tx.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seat, err := s.seats.LockByIDTx(ctx, tx, seatID)
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, fmt.Errorf("lock seat: %w", err)
	}

	target := model.BaseAvailable
	if blocked {
		target = model.BaseUnavailableAdmin
	}
	if seat.BaseStatus == target {
		return seat, nil
	}
	if blocked {
		inUse, err := s.bookings.SeatHasActiveTx(ctx, tx, seatID, s.today())
		if err != nil {
			return nil, fmt.Errorf("check seat bookings: %w", err)
		}
		if inUse {
			return nil, &SeatConflictError{Kind: ErrSeatInUse, Seats: []SeatRef{{ID: seat.ID, Label: seat.DisplayID()}}}
		}
	}
	if err := s.seats.SetBaseStatusTx(ctx, tx, seatID, target); err != nil {
		return nil, fmt.Errorf("update seat: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	committed = true

	seat.BaseStatus = target
	invalidateLayout(ctx, s.cache, seat.RoomID)
	logger.Info("seat base status changed",
		zap.Uint64("seat_id", seat.ID),
		zap.Uint64("room_id", seat.RoomID),
		zap.String("status", string(target)))
	return seat, nil
}

// ListSeats yields the seats of a room ordered by row then column.  The
// sequence is lazy and restartable: each range checks the room and
// streams the seats anew.
func (s *InventoryService) ListSeats(ctx context.Context, roomID uint64) iter.Seq2[model.Seat, error] {
	return func(yield func(model.Seat, error) bool) {
		if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
			if errors.Is(err, repository.ErrRoomNotFound) {
				err = ErrRoomNotFound
			}
			yield(model.Seat{}, err)
			return
		}
		for seat, err := range s.seats.All(ctx, roomID) {
			if !yield(seat, err) || err != nil {
				return
			}
		}
	}
}

// DeleteRoom removes a room and its seats.  Rooms with confirmed
// bookings for today or later are refused; bookings that are over or
// not confirmed are deleted with the room.
func (s *InventoryService) DeleteRoom(ctx context.Context, roomID uint64) error {
	tx, err := s.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := s.rooms.LockForUpdateTx(ctx, tx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("lock room: %w", err)
	}
	today := s.today()
	n, err := s.bookings.CountActiveTx(ctx, tx, roomID, today)
	if err != nil {
		return fmt.Errorf("count active bookings: %w", err)
	}
	if n > 0 {
		return &ActiveBookingsError{RoomID: roomID, Count: n}
	}
	if _, err := s.bookings.DeleteInactiveTx(ctx, tx, roomID, today); err != nil {
		return fmt.Errorf("delete past bookings: %w", err)
	}
	if err := s.seats.DeleteByRoomTx(ctx, tx, roomID); err != nil {
		return fmt.Errorf("delete seats: %w", err)
	}
	if err := s.rooms.DeleteTx(ctx, tx, roomID); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true

	invalidateLayout(ctx, s.cache, roomID)
	logger.Info("room deleted", zap.Uint64("room_id", roomID))
	return nil
}
