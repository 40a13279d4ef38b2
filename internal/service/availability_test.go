package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking/internal/cache"
	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

func TestEffectiveStatus(t *testing.T) {
	tests := []struct {
		name   string
		base   model.BaseStatus
		booked bool
		want   model.EffectiveStatus
	}{
		{"available", model.BaseAvailable, false, model.StatusAvailable},
		{"occupied", model.BaseAvailable, true, model.StatusOccupied},
		{"blocked", model.BaseUnavailableAdmin, false, model.StatusUnavailableAdmin},
		{"blocked wins over booking", model.BaseUnavailableAdmin, true, model.StatusUnavailableAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveStatus(tt.base, tt.booked))
		})
	}
}

func TestProject(t *testing.T) {
	seats := []model.Seat{
		mkSeat(1, "A", 1, model.BaseAvailable),
		mkSeat(2, "A", 2, model.BaseAvailable),
		mkSeat(3, "A", 3, model.BaseUnavailableAdmin),
	}

	t.Run("base statuses only", func(t *testing.T) {
		got := Project(seats, nil)
		assert.Equal(t, []model.LayoutSeat{
			{DisplayID: "A1", Status: model.StatusAvailable, SeatID: 1},
			{DisplayID: "A2", Status: model.StatusAvailable, SeatID: 2},
			{DisplayID: "A3", Status: model.StatusUnavailableAdmin, SeatID: 3},
		}, got)
	})

	t.Run("booked seats are occupied, blocked stays blocked", func(t *testing.T) {
		got := Project(seats, idSet([]uint64{1, 3}))
		assert.Equal(t, model.StatusOccupied, got[0].Status)
		assert.Equal(t, model.StatusAvailable, got[1].Status)
		assert.Equal(t, model.StatusUnavailableAdmin, got[2].Status)
	})

	t.Run("empty room", func(t *testing.T) {
		assert.Empty(t, Project(nil, nil))
	})
}

func TestEffectiveLayout_WithDate(t *testing.T) {
	ctx := context.Background()
	rooms, seats, bookings := new(MockRoomStore), new(MockSeatStore), new(MockBookingStore)
	date := mustDate("2024-06-01")

	rooms.On("GetByID", mock.Anything, uint64(1)).Return(&model.Room{ID: 1, TotalRows: 1, TotalColumns: 3}, nil)
	seats.On("GetByRoom", mock.Anything, uint64(1)).Return([]model.Seat{
		mkSeat(1, "A", 1, model.BaseAvailable),
		mkSeat(2, "A", 2, model.BaseAvailable),
		mkSeat(3, "A", 3, model.BaseAvailable),
	}, nil)
	bookings.On("BookedSeatIDs", mock.Anything, uint64(1), date).Return([]uint64{1, 2}, nil)

	svc := NewAvailabilityService(rooms, seats, bookings, nil, nil)
	layout, err := svc.EffectiveLayout(ctx, 1, date)
	require.NoError(t, err)
	require.Len(t, layout, 3)
	assert.Equal(t, model.StatusOccupied, layout[0].Status)
	assert.Equal(t, model.StatusOccupied, layout[1].Status)
	assert.Equal(t, model.StatusAvailable, layout[2].Status)
}

func TestEffectiveLayout_WithoutDateSkipsOccupancy(t *testing.T) {
	rooms, seats, bookings := new(MockRoomStore), new(MockSeatStore), new(MockBookingStore)
	rooms.On("GetByID", mock.Anything, uint64(1)).Return(&model.Room{ID: 1}, nil)
	seats.On("GetByRoom", mock.Anything, uint64(1)).Return([]model.Seat{mkSeat(1, "A", 1, model.BaseAvailable)}, nil)

	svc := NewAvailabilityService(rooms, seats, bookings, nil, nil)
	layout, err := svc.EffectiveLayout(context.Background(), 1, model.ShowDate{})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, layout[0].Status)
	bookings.AssertNotCalled(t, "BookedSeatIDs", mock.Anything, mock.Anything, mock.Anything)
}

func TestEffectiveLayout_RoomNotFound(t *testing.T) {
	rooms := new(MockRoomStore)
	rooms.On("GetByID", mock.Anything, uint64(9)).Return(nil, repository.ErrRoomNotFound)

	svc := NewAvailabilityService(rooms, new(MockSeatStore), new(MockBookingStore), nil, nil)
	_, err := svc.EffectiveLayout(context.Background(), 9, mustDate("2024-06-01"))
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestEffectiveLayout_Cache(t *testing.T) {
	date := mustDate("2024-06-01")
	cached := []model.LayoutSeat{{DisplayID: "A1", Status: model.StatusOccupied, SeatID: 1}}

	t.Run("hit skips the store", func(t *testing.T) {
		cache := new(MockLayoutCache)
		cache.On("Get", mock.Anything, uint64(1), date).Return(cached, int64(0), true, nil)
		rooms := new(MockRoomStore)

		svc := NewAvailabilityService(rooms, new(MockSeatStore), new(MockBookingStore), cache, nil)
		layout, err := svc.EffectiveLayout(context.Background(), 1, date)
		require.NoError(t, err)
		assert.Equal(t, cached, layout)
		rooms.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("miss computes and stores", func(t *testing.T) {
		cache := new(MockLayoutCache)
		cache.On("Get", mock.Anything, uint64(1), date).Return(nil, int64(3), false, nil)
		cache.On("Set", mock.Anything, uint64(1), date, int64(3), mock.Anything).Return(nil)
		rooms, seats, bookings := new(MockRoomStore), new(MockSeatStore), new(MockBookingStore)
		rooms.On("GetByID", mock.Anything, uint64(1)).Return(&model.Room{ID: 1}, nil)
		seats.On("GetByRoom", mock.Anything, uint64(1)).Return([]model.Seat{mkSeat(1, "A", 1, model.BaseAvailable)}, nil)
		bookings.On("BookedSeatIDs", mock.Anything, uint64(1), date).Return([]uint64{1}, nil)

		svc := NewAvailabilityService(rooms, seats, bookings, cache, nil)
		layout, err := svc.EffectiveLayout(context.Background(), 1, date)
		require.NoError(t, err)
		assert.Equal(t, cached, layout)
		cache.AssertCalled(t, "Set", mock.Anything, uint64(1), date, int64(3), cached)
	})

	t.Run("cache errors fall back to the store", func(t *testing.T) {
		cache := new(MockLayoutCache)
		cache.On("Get", mock.Anything, uint64(1), date).Return(nil, int64(0), false, errors.New("redis down"))
		rooms, seats, bookings := new(MockRoomStore), new(MockSeatStore), new(MockBookingStore)
		rooms.On("GetByID", mock.Anything, uint64(1)).Return(&model.Room{ID: 1}, nil)
		seats.On("GetByRoom", mock.Anything, uint64(1)).Return([]model.Seat{mkSeat(1, "A", 1, model.BaseAvailable)}, nil)
		bookings.On("BookedSeatIDs", mock.Anything, uint64(1), date).Return([]uint64{}, nil)

		svc := NewAvailabilityService(rooms, seats, bookings, cache, nil)
		layout, err := svc.EffectiveLayout(context.Background(), 1, date)
		require.NoError(t, err)
		assert.Equal(t, model.StatusAvailable, layout[0].Status)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

// A booking change that commits while a reader is computing must not
// leave the reader's older layout behind in the cache.
func TestEffectiveLayout_InvalidateDuringCompute(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	lc := cache.NewLayoutCache(client, config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "test"})

	ctx := context.Background()
	date := mustDate("2024-06-01")
	rooms, seats, bookings := new(MockRoomStore), new(MockSeatStore), new(MockBookingStore)
	rooms.On("GetByID", mock.Anything, uint64(1)).Return(&model.Room{ID: 1}, nil)
	seats.On("GetByRoom", mock.Anything, uint64(1)).Return([]model.Seat{mkSeat(1, "A", 1, model.BaseAvailable)}, nil)
	// the first read sees the booking, then a cancel commits and
	// invalidates before the reader writes its result
	bookings.On("BookedSeatIDs", mock.Anything, uint64(1), date).Return([]uint64{1}, nil).Once().
		Run(func(mock.Arguments) { require.NoError(t, lc.Invalidate(ctx, 1)) })
	bookings.On("BookedSeatIDs", mock.Anything, uint64(1), date).Return([]uint64{}, nil)

	svc := NewAvailabilityService(rooms, seats, bookings, lc, nil)

	first, err := svc.EffectiveLayout(ctx, 1, date)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOccupied, first[0].Status)

	second, err := svc.EffectiveLayout(ctx, 1, date)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, second[0].Status)

	// the fresh layout is cached from here on
	third, err := svc.EffectiveLayout(ctx, 1, date)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, third[0].Status)
	bookings.AssertNumberOfCalls(t, "BookedSeatIDs", 2)
}
