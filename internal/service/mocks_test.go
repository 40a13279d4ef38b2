package service

import (
	"context"
	"iter"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/cinema-booking/internal/database"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/queue"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// MockTxManager implements TxBeginner
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (database.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(database.Tx), args.Error(1)
}

// MockTx implements database.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockRoomStore implements RoomStore
type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) CreateTx(ctx context.Context, tx database.Tx, room *model.Room) error {
	args := m.Called(ctx, tx, room)
	return args.Error(0)
}

func (m *MockRoomStore) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockRoomStore) LockSharedTx(ctx context.Context, tx database.Tx, id uint64) (*model.Room, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockRoomStore) LockForUpdateTx(ctx context.Context, tx database.Tx, id uint64) (*model.Room, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockRoomStore) UpdateDimensionsTx(ctx context.Context, tx database.Tx, id uint64, rows, cols uint32) error {
	args := m.Called(ctx, tx, id, rows, cols)
	return args.Error(0)
}

func (m *MockRoomStore) DeleteTx(ctx context.Context, tx database.Tx, id uint64) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockSeatStore implements SeatStore
type MockSeatStore struct {
	mock.Mock
}

func (m *MockSeatStore) CreateBulkTx(ctx context.Context, tx database.Tx, seats []model.Seat) error {
	args := m.Called(ctx, tx, seats)
	return args.Error(0)
}

func (m *MockSeatStore) All(ctx context.Context, roomID uint64) iter.Seq2[model.Seat, error] {
	args := m.Called(ctx, roomID)
	return args.Get(0).(iter.Seq2[model.Seat, error])
}

func (m *MockSeatStore) GetByRoom(ctx context.Context, roomID uint64) ([]model.Seat, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Seat), args.Error(1)
}

func (m *MockSeatStore) GetByRoomTx(ctx context.Context, tx database.Tx, roomID uint64) ([]model.Seat, error) {
	args := m.Called(ctx, tx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Seat), args.Error(1)
}

func (m *MockSeatStore) LockByIDsTx(ctx context.Context, tx database.Tx, roomID uint64, ids []uint64) ([]model.Seat, error) {
	args := m.Called(ctx, tx, roomID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Seat), args.Error(1)
}

func (m *MockSeatStore) LockByIDTx(ctx context.Context, tx database.Tx, id uint64) (*model.Seat, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Seat), args.Error(1)
}

func (m *MockSeatStore) SetBaseStatusTx(ctx context.Context, tx database.Tx, id uint64, status model.BaseStatus) error {
	args := m.Called(ctx, tx, id, status)
	return args.Error(0)
}

func (m *MockSeatStore) ResetAdminBlocksTx(ctx context.Context, tx database.Tx, roomID uint64) (int64, error) {
	args := m.Called(ctx, tx, roomID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSeatStore) DeleteByRoomTx(ctx context.Context, tx database.Tx, roomID uint64) error {
	args := m.Called(ctx, tx, roomID)
	return args.Error(0)
}

// MockBookingStore implements BookingStore
type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) CreateTx(ctx context.Context, tx database.Tx, b *model.Booking) error {
	args := m.Called(ctx, tx, b)
	return args.Error(0)
}

func (m *MockBookingStore) CreateSeatsBulkTx(ctx context.Context, tx database.Tx, seats []model.BookingSeat) error {
	args := m.Called(ctx, tx, seats)
	return args.Error(0)
}

func (m *MockBookingStore) BookedSeatIDsTx(ctx context.Context, tx database.Tx, roomID uint64, date model.ShowDate, seatIDs []uint64) ([]uint64, error) {
	args := m.Called(ctx, tx, roomID, date, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockBookingStore) BookedSeatIDs(ctx context.Context, roomID uint64, date model.ShowDate) ([]uint64, error) {
	args := m.Called(ctx, roomID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockBookingStore) ActiveSeatIDsTx(ctx context.Context, tx database.Tx, roomID uint64, from model.ShowDate) ([]uint64, error) {
	args := m.Called(ctx, tx, roomID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockBookingStore) SeatHasActiveTx(ctx context.Context, tx database.Tx, seatID uint64, from model.ShowDate) (bool, error) {
	args := m.Called(ctx, tx, seatID, from)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) CountActiveTx(ctx context.Context, tx database.Tx, roomID uint64, from model.ShowDate) (int, error) {
	args := m.Called(ctx, tx, roomID, from)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingStore) DetachInactiveSeatsTx(ctx context.Context, tx database.Tx, roomID uint64, before model.ShowDate) (int64, error) {
	args := m.Called(ctx, tx, roomID, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingStore) DeleteInactiveTx(ctx context.Context, tx database.Tx, roomID uint64, before model.ShowDate) (int64, error) {
	args := m.Called(ctx, tx, roomID, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingStore) LockByIDTx(ctx context.Context, tx database.Tx, id uint64) (*model.Booking, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookingStore) DeleteSeatsTx(ctx context.Context, tx database.Tx, bookingID uint64) (int64, error) {
	args := m.Called(ctx, tx, bookingID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingStore) DeleteTx(ctx context.Context, tx database.Tx, id uint64) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockBookingStore) List(ctx context.Context, f repository.BookingFilter) ([]model.Booking, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Booking), args.Error(1)
}

// MockMovieStore implements MovieStore
type MockMovieStore struct {
	mock.Mock
}

func (m *MockMovieStore) ExistsTx(ctx context.Context, tx database.Tx, id uint64) (bool, error) {
	args := m.Called(ctx, tx, id)
	return args.Bool(0), args.Error(1)
}

// MockTicketStore implements TicketStore
type MockTicketStore struct {
	mock.Mock
}

func (m *MockTicketStore) GetHeader(ctx context.Context, bookingID uint64) (*model.TicketRecord, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketRecord), args.Error(1)
}

func (m *MockTicketStore) GetSeats(ctx context.Context, bookingID uint64) ([]model.Seat, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Seat), args.Error(1)
}

// MockLayoutCache implements LayoutCache
type MockLayoutCache struct {
	mock.Mock
}

func (m *MockLayoutCache) Get(ctx context.Context, roomID uint64, date model.ShowDate) ([]model.LayoutSeat, int64, bool, error) {
	args := m.Called(ctx, roomID, date)
	var layout []model.LayoutSeat
	if v := args.Get(0); v != nil {
		layout = v.([]model.LayoutSeat)
	}
	return layout, args.Get(1).(int64), args.Bool(2), args.Error(3)
}

func (m *MockLayoutCache) Set(ctx context.Context, roomID uint64, date model.ShowDate, ver int64, layout []model.LayoutSeat) error {
	args := m.Called(ctx, roomID, date, ver, layout)
	return args.Error(0)
}

func (m *MockLayoutCache) Invalidate(ctx context.Context, roomID uint64) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

// MockPublisher implements EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockPublisher) PublishBookingCancelled(ctx context.Context, ev queue.BookingCancelledEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// newMockTx returns a manager handing out one transaction that accepts
// Commit and Rollback.
func newMockTx() (*MockTxManager, *MockTx) {
	tx := new(MockTx)
	tx.On("Commit").Return(nil).Maybe()
	tx.On("Rollback").Return(nil).Maybe()
	tm := new(MockTxManager)
	tm.On("Begin", mock.Anything).Return(tx, nil)
	return tm, tx
}

func mkSeat(id uint64, row string, col uint32, base model.BaseStatus) model.Seat {
	return model.Seat{ID: id, RoomID: 1, RowLetter: row, ColNumber: col, BaseStatus: base}
}

func mustDate(s string) model.ShowDate {
	d, err := model.ParseShowDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
