package handler

import (
	"context"
	"iter"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
	"github.com/iliyamo/cinema-booking/internal/service"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, req service.BookingRequest) (*model.TicketRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketRecord), args.Error(1)
}

func (m *MockBookingService) CancelBooking(ctx context.Context, bookingID uint64) (*service.CancelResult, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CancelResult), args.Error(1)
}

func (m *MockBookingService) ListBookings(ctx context.Context, f repository.BookingFilter) ([]model.Booking, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Booking), args.Error(1)
}

type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) AssembleTicket(ctx context.Context, bookingID uint64) (*model.TicketRecord, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketRecord), args.Error(1)
}

func (m *MockTicketService) TicketQR(ctx context.Context, bookingID uint64, size int) ([]byte, *model.TicketRecord, error) {
	args := m.Called(ctx, bookingID, size)
	if args.Get(1) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).(*model.TicketRecord), args.Error(2)
}

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) CreateRoom(ctx context.Context, in service.CreateRoomInput) (*model.Room, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockInventoryService) SetAdminBlock(ctx context.Context, seatID uint64, blocked bool) (*model.Seat, error) {
	args := m.Called(ctx, seatID, blocked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Seat), args.Error(1)
}

// ListSeats yields the seats given to Return, then the error if any.
func (m *MockInventoryService) ListSeats(ctx context.Context, roomID uint64) iter.Seq2[model.Seat, error] {
	args := m.Called(ctx, roomID)
	seats, _ := args.Get(0).([]model.Seat)
	err := args.Error(1)
	return func(yield func(model.Seat, error) bool) {
		for _, s := range seats {
			if !yield(s, nil) {
				return
			}
		}
		if err != nil {
			yield(model.Seat{}, err)
		}
	}
}

func (m *MockInventoryService) DeleteRoom(ctx context.Context, roomID uint64) error {
	return m.Called(ctx, roomID).Error(0)
}

type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) EffectiveLayout(ctx context.Context, roomID uint64, date model.ShowDate) ([]model.LayoutSeat, error) {
	args := m.Called(ctx, roomID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LayoutSeat), args.Error(1)
}

type MockLayoutService struct {
	mock.Mock
}

func (m *MockLayoutService) ResizeRoom(ctx context.Context, in service.ResizeInput) (*service.ResizeResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResizeResult), args.Error(1)
}

type MockRoomLister struct {
	mock.Mock
}

func (m *MockRoomLister) List(ctx context.Context) ([]model.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Room), args.Error(1)
}

type MockMovieStore struct {
	mock.Mock
}

func (m *MockMovieStore) Create(ctx context.Context, mv *model.Movie) error {
	return m.Called(ctx, mv).Error(0)
}

func (m *MockMovieStore) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movie), args.Error(1)
}

func (m *MockMovieStore) List(ctx context.Context, f repository.MovieFilter) ([]model.Movie, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Movie), args.Error(1)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error) {
	args := m.Called(ctx, name, email, password, role, cost)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) List(ctx context.Context, f repository.UserFilter) ([]model.User, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	return m.Called(ctx, userID, tokenHash, exp).Error(0)
}

func (m *MockTokenStore) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockTokenStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *MockTokenStore) RevokeAllForUser(ctx context.Context, userID uint64) error {
	return m.Called(ctx, userID).Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// newContext builds a request context.  body is sent as JSON when not
// empty; params are path name/value pairs.
func newContext(e *echo.Echo, method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

// asUser sets the identity JWTAuth would have stored.
func asUser(c echo.Context, id uint64, role string) echo.Context {
	c.Set("user_id", id)
	c.Set("role", role)
	return c
}
