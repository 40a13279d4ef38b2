package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/pkg/logger"
	"github.com/iliyamo/cinema-booking/internal/pkg/metrics"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// EffectiveStatus derives the status of a seat on a date from its base
// status and whether a confirmed booking for that date holds it.  An
// admin block wins over occupancy.
func EffectiveStatus(base model.BaseStatus, booked bool) model.EffectiveStatus {
	switch {
	case base == model.BaseUnavailableAdmin:
		return model.StatusUnavailableAdmin
	case booked:
		return model.StatusOccupied
	default:
		return model.StatusAvailable
	}
}

// Project maps seats, already ordered by row then column, to layout
// entries.  A nil booked set reports base statuses only.
func Project(seats []model.Seat, booked map[uint64]struct{}) []model.LayoutSeat {
	out := make([]model.LayoutSeat, len(seats))
	for i, s := range seats {
		_, taken := booked[s.ID]
		out[i] = model.LayoutSeat{
			DisplayID: s.DisplayID(),
			Status:    EffectiveStatus(s.BaseStatus, taken),
			SeatID:    s.ID,
		}
	}
	return out
}

func idSet(ids []uint64) map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// AvailabilityService computes per date seat layouts.  Reads take no
// locks; a seat shown as available may be sold before it is requested.
type AvailabilityService struct {
	rooms    RoomStore
	seats    SeatStore
	bookings BookingStore
	cache    LayoutCache
	metrics  *metrics.Metrics
}

// NewAvailabilityService wires the projector.  cache may be nil.
func NewAvailabilityService(rooms RoomStore, seats SeatStore, bookings BookingStore, cache LayoutCache, m *metrics.Metrics) *AvailabilityService {
	if m == nil {
		m = metrics.Discard()
	}
	return &AvailabilityService{rooms: rooms, seats: seats, bookings: bookings, cache: cache, metrics: m}
}

// EffectiveLayout returns the seats of a room ordered by row then
// column.  With a zero date only base statuses are reported.
func (s *AvailabilityService) EffectiveLayout(ctx context.Context, roomID uint64, date model.ShowDate) ([]model.LayoutSeat, error) {
	if s.cache == nil {
		return s.compute(ctx, roomID, date)
	}

	// The version is read before the store so that a commit landing
	// during compute bumps it and orphans what we write below.
	cached, ver, ok, err := s.cache.Get(ctx, roomID, date)
	switch {
	case err != nil:
		s.metrics.LayoutCacheTotal.WithLabelValues("error").Inc()
		logger.Warn("layout cache read failed", zap.Uint64("room_id", roomID), zap.Error(err))
	case ok:
		s.metrics.LayoutCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		s.metrics.LayoutCacheTotal.WithLabelValues("miss").Inc()
	}

	layout, cerr := s.compute(ctx, roomID, date)
	if cerr != nil {
		return nil, cerr
	}
	if err == nil {
		if err := s.cache.Set(ctx, roomID, date, ver, layout); err != nil {
			logger.Warn("layout cache write failed", zap.Uint64("room_id", roomID), zap.Error(err))
		}
	}
	return layout, nil
}

func (s *AvailabilityService) compute(ctx context.Context, roomID uint64, date model.ShowDate) ([]model.LayoutSeat, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("load room: %w", err)
	}
	seats, err := s.seats.GetByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load seats: %w", err)
	}
	if date.IsZero() {
		return Project(seats, nil), nil
	}
	booked, err := s.bookings.BookedSeatIDs(ctx, roomID, date)
	if err != nil {
		return nil, fmt.Errorf("load booked seats: %w", err)
	}
	return Project(seats, idSet(booked)), nil
}

// invalidateLayout drops cached layouts of a room after a committed
// change.  Failures are logged; entries also expire on their own.
func invalidateLayout(ctx context.Context, cache LayoutCache, roomID uint64) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, roomID); err != nil {
		logger.Warn("layout cache invalidation failed", zap.Uint64("room_id", roomID), zap.Error(err))
	}
}
