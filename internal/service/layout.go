package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/database"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/pkg/logger"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// ResizeInput describes a layout change.  A nil Blocked means "leave
// admin blocks alone"; an empty non-nil Blocked clears them.
type ResizeInput struct {
	RoomID  uint64
	Rows    int
	Columns int
	Blocked []string
}

// ResizeResult is the layout after the change together with the
// display ids that could not be blocked.
type ResizeResult struct {
	Layout   []model.LayoutSeat `json:"layout"`
	Warnings []string           `json:"warnings"`
}

// LayoutService restructures rooms without touching live sales.
type LayoutService struct {
	tx        TxBeginner
	rooms     RoomStore
	seats     SeatStore
	bookings  BookingStore
	inventory *InventoryService
	cache     LayoutCache
	now       func() time.Time
}

// NewLayoutService wires the reconciler.  cache may be nil.
func NewLayoutService(tx TxBeginner, rooms RoomStore, seats SeatStore, bookings BookingStore, inventory *InventoryService, cache LayoutCache) *LayoutService {
	return &LayoutService{tx: tx, rooms: rooms, seats: seats, bookings: bookings, inventory: inventory, cache: cache, now: time.Now}
}

// ResizeRoom applies new dimensions and admin blocks to a room.
//
// When the dimensions change every seat is regenerated, which is refused
// while confirmed bookings for today or later exist.  Seat links of
// bookings that are over are detached first.  When the dimensions stay
// the same, the admin blocks are replaced by the listed display ids,
// skipping seats that do not exist or are held by an active booking.
func (s *LayoutService) ResizeRoom(ctx context.Context, in ResizeInput) (*ResizeResult, error) {
	if err := validateDimensions(in.Rows, in.Columns); err != nil {
		return nil, err
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

	room, err := s.rooms.LockForUpdateTx(ctx, tx, in.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("lock room: %w", err)
	}

	today := model.DateOf(s.now())
	var warnings []string
	changed := int(room.TotalRows) != in.Rows || int(room.TotalColumns) != in.Columns
	switch {
	case changed:
		n, err := s.bookings.CountActiveTx(ctx, tx, room.ID, today)
		if err != nil {
			return nil, fmt.Errorf("count active bookings: %w", err)
		}
		if n > 0 {
			return nil, &ActiveBookingsError{RoomID: room.ID, Count: n}
		}
		if _, err := s.bookings.DetachInactiveSeatsTx(ctx, tx, room.ID, today); err != nil {
			return nil, fmt.Errorf("detach past bookings: %w", err)
		}
		if err := s.seats.DeleteByRoomTx(ctx, tx, room.ID); err != nil {
			return nil, fmt.Errorf("delete seats: %w", err)
		}
		if err := s.rooms.UpdateDimensionsTx(ctx, tx, room.ID, uint32(in.Rows), uint32(in.Columns)); err != nil {
			return nil, fmt.Errorf("update room: %w", err)
		}
		blocked, skipped := blockTargets(in.Blocked, in.Rows, in.Columns)
		warnings = skipped
		if _, err := s.inventory.CreateSeatsTx(ctx, tx, room.ID, in.Rows, in.Columns, blocked); err != nil {
			return nil, err
		}
	case in.Blocked != nil:
		warnings, err = s.reapplyBlocks(ctx, tx, room.ID, in.Blocked, today)
		if err != nil {
			return nil, err
		}
	}

	seats, err := s.seats.GetByRoomTx(ctx, tx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("load seats: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	committed = true

	invalidateLayout(ctx, s.cache, room.ID)
	for _, w := range warnings {
		logger.Warn("admin block skipped", zap.Uint64("room_id", room.ID), zap.String("reason", w))
	}
	logger.Info("room layout updated",
		zap.Uint64("room_id", room.ID),
		zap.Int("rows", in.Rows),
		zap.Int("columns", in.Columns),
		zap.Bool("regenerated", changed))
	if warnings == nil {
		warnings = []string{}
	}
	return &ResizeResult{Layout: Project(seats, nil), Warnings: warnings}, nil
}

// reapplyBlocks clears every admin block of a room and blocks exactly
// the listed seats, skipping those held by an active booking.
func (s *LayoutService) reapplyBlocks(ctx context.Context, tx database.Tx, roomID uint64, labels []string, today model.ShowDate) ([]string, error) {
	if _, err := s.seats.ResetAdminBlocksTx(ctx, tx, roomID); err != nil {
		return nil, fmt.Errorf("reset admin blocks: %w", err)
	}
	seats, err := s.seats.GetByRoomTx(ctx, tx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load seats: %w", err)
	}
	byLabel := make(map[string]model.Seat, len(seats))
	for _, seat := range seats {
		byLabel[seat.DisplayID()] = seat
	}
	active, err := s.bookings.ActiveSeatIDsTx(ctx, tx, roomID, today)
	if err != nil {
		return nil, fmt.Errorf("load active seats: %w", err)
	}
	inUse := idSet(active)

	var warnings []string
	seen := make(map[string]bool, len(labels))
	for _, raw := range labels {
		row, col, ok := model.ParseDisplayID(raw)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%q is not a seat id", raw))
			continue
		}
		label := model.DisplayID(row, col)
		if seen[label] {
			continue
		}
		seen[label] = true
		seat, ok := byLabel[label]
		if !ok {
			warnings = append(warnings, label+" does not exist")
			continue
		}
		if _, busy := inUse[seat.ID]; busy {
			warnings = append(warnings, label+" has active bookings")
			continue
		}
		if err := s.seats.SetBaseStatusTx(ctx, tx, seat.ID, model.BaseUnavailableAdmin); err != nil {
			return nil, fmt.Errorf("block %s: %w", label, err)
		}
	}
	return warnings, nil
}

// blockTargets resolves display ids against a rows × cols grid.
func blockTargets(labels []string, rows, cols int) (map[string]struct{}, []string) {
	set := make(map[string]struct{}, len(labels))
	var warnings []string
	for _, raw := range labels {
		row, col, ok := model.ParseDisplayID(raw)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%q is not a seat id", raw))
			continue
		}
		if int(row[0]-'A') >= rows || int(col) > cols {
			warnings = append(warnings, model.DisplayID(row, col)+" does not exist")
			continue
		}
		set[model.DisplayID(row, col)] = struct{}{}
	}
	return set, warnings
}
