package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/pkg/logger"
	"github.com/iliyamo/cinema-booking/internal/pkg/metrics"
	"github.com/iliyamo/cinema-booking/internal/queue"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// BookingRequest is the input of CreateBooking.  Price is a pointer so
// that a missing price can be told apart from a free ticket.
type BookingRequest struct {
	UserID   uint64   `json:"userId" validate:"required"`
	RoomID   uint64   `json:"roomId" validate:"required"`
	MovieID  uint64   `json:"movieId" validate:"required"`
	ShowDate string   `json:"showDate" validate:"required,datetime=2006-01-02"`
	SeatIDs  []uint64 `json:"seatIds" validate:"required,min=1,unique,dive,required"`
	Price    *int64   `json:"price" validate:"required,gte=0"`
}

// CancelResult confirms a cancellation.
type CancelResult struct {
	BookingID uint64 `json:"booking_id"`
	Released  int    `json:"released"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

var fieldReasons = map[string]string{
	"required": "required",
	"datetime": "must be a date formatted YYYY-MM-DD",
	"min":      "must not be empty",
	"unique":   "must not contain duplicates",
	"gte":      "must not be negative",
}

const reasonBadSeatID = "ids must be positive"

// problemList collects one FieldProblem per field, joining the reasons
// of a field that fails more than one check.
type problemList struct {
	problems []FieldProblem
	at       map[string]int
}

func (l *problemList) add(field, reason string) {
	if i, ok := l.at[field]; ok {
		if !slices.Contains(strings.Split(l.problems[i].Reason, "; "), reason) {
			l.problems[i].Reason += "; " + reason
		}
		return
	}
	if l.at == nil {
		l.at = make(map[string]int)
	}
	l.at[field] = len(l.problems)
	l.problems = append(l.problems, FieldProblem{Field: field, Reason: reason})
}

// validateBooking checks every field of req and reports all problems at
// once.  It never touches storage.
func validateBooking(req BookingRequest) (model.ShowDate, error) {
	var pl problemList
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return model.ShowDate{}, &InvalidRequestError{Problems: []FieldProblem{{Field: "request", Reason: err.Error()}}}
		}
		for _, fe := range verrs {
			field, _, elem := strings.Cut(fe.Field(), "[")
			reason := fieldReasons[fe.Tag()]
			if elem {
				reason = reasonBadSeatID
			}
			if reason == "" {
				reason = "invalid"
			}
			pl.add(field, reason)
		}
	}
	// validator stops at the first failing tag of a field, so the element
	// checks behind unique are repeated here
	if slices.Contains(req.SeatIDs, 0) {
		pl.add("seatIds", reasonBadSeatID)
	}
	if len(pl.problems) > 0 {
		return model.ShowDate{}, &InvalidRequestError{Problems: pl.problems}
	}
	date, err := model.ParseShowDate(req.ShowDate)
	if err != nil {
		return model.ShowDate{}, invalid("showDate", fieldReasons["datetime"])
	}
	return date, nil
}

// BookingService is the booking transaction engine.
type BookingService struct {
	tx        TxBeginner
	rooms     RoomStore
	seats     SeatStore
	bookings  BookingStore
	movies    MovieStore
	tickets   *TicketService
	cache     LayoutCache
	publisher EventPublisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewBookingService wires the engine.  cache, publisher and m may be nil.
func NewBookingService(tx TxBeginner, rooms RoomStore, seats SeatStore, bookings BookingStore, movies MovieStore,
	tickets *TicketService, cache LayoutCache, publisher EventPublisher, m *metrics.Metrics) *BookingService {
	if m == nil {
		m = metrics.Discard()
	}
	return &BookingService{
		tx:        tx,
		rooms:     rooms,
		seats:     seats,
		bookings:  bookings,
		movies:    movies,
		tickets:   tickets,
		cache:     cache,
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
	}
}

// CreateBooking validates req, reserves the seats and returns the
// ticket of the new booking.  Two concurrent calls for overlapping seats
// of one room and date never both succeed: the seat rows are locked in
// id order before occupancy is read, and the sale key rejects anything
// that slips past.
func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (*model.TicketRecord, error) {
	date, err := validateBooking(req)
	if err != nil {
		s.record(err)
		return nil, err
	}
	seatIDs := slices.Clone(req.SeatIDs)
	slices.Sort(seatIDs)

	b := &model.Booking{
		UserID:   req.UserID,
		RoomID:   req.RoomID,
		MovieID:  req.MovieID,
		ShowDate: date,
		Price:    *req.Price,
		Status:   model.BookingConfirmed,
	}
	err = s.reserve(ctx, b, seatIDs)
	s.record(err)
	if err != nil {
		logBookingFailure(b, seatIDs, err)
		return nil, err
	}
	logger.Info("booking confirmed",
		zap.Uint64("booking_id", b.ID),
		zap.Uint64("user_id", b.UserID),
		zap.Uint64("room_id", b.RoomID),
		zap.Stringer("show_date", b.ShowDate),
		zap.Uint64s("seat_ids", seatIDs))

	invalidateLayout(ctx, s.cache, b.RoomID)
	ticket, err := s.tickets.AssembleTicket(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("assemble ticket for booking %d: %w", b.ID, err)
	}
	s.publishConfirmed(ctx, ticket)
	return ticket, nil
}

// reserve runs the locked check and insert.  On success b.ID is set.
func (s *BookingService) reserve(ctx context.Context, b *model.Booking, seatIDs []uint64) error {
	start := time.Now()
	defer func() { s.metrics.BookingDuration.Observe(time.Since(start).Seconds()) }()

	tx, err := s.tx.Begin(ctx)
	if err != nil {
		return failed("begin tx", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Shared lock: bookings run in parallel, resize and delete wait.
	if _, err := s.rooms.LockSharedTx(ctx, tx, b.RoomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		return failed("lock room", err)
	}
	ok, err := s.movies.ExistsTx(ctx, tx, b.MovieID)
	if err != nil {
		return failed("check movie", err)
	}
	if !ok {
		return invalid("movieId", "unknown movie")
	}

	locked, err := s.seats.LockByIDsTx(ctx, tx, b.RoomID, seatIDs)
	if err != nil {
		return failed("lock seats", err)
	}
	if len(locked) != len(seatIDs) {
		return invalid("seatIds", "not in room "+strconv.FormatUint(b.RoomID, 10)+": "+joinIDs(missingIDs(seatIDs, locked)))
	}
	byID := make(map[uint64]model.Seat, len(locked))
	var blocked []SeatRef
	for _, seat := range locked {
		byID[seat.ID] = seat
		if seat.BaseStatus == model.BaseUnavailableAdmin {
			blocked = append(blocked, SeatRef{ID: seat.ID, Label: seat.DisplayID()})
		}
	}
	if len(blocked) > 0 {
		return &SeatConflictError{Kind: ErrSeatUnavailable, Seats: blocked}
	}

	taken, err := s.bookings.BookedSeatIDsTx(ctx, tx, b.RoomID, b.ShowDate, seatIDs)
	if err != nil {
		return failed("check occupancy", err)
	}
	if len(taken) > 0 {
		return &SeatConflictError{Kind: ErrSeatsAlreadyTaken, Seats: refs(taken, byID)}
	}

	b.SeatLabels = seatLabels(locked)
	if err := s.bookings.CreateTx(ctx, tx, b); err != nil {
		return failed("insert booking", err)
	}
	links := make([]model.BookingSeat, len(seatIDs))
	for i, id := range seatIDs {
		links[i] = model.BookingSeat{BookingID: b.ID, SeatID: id, RoomID: b.RoomID, ShowDate: b.ShowDate}
	}
	if err := s.bookings.CreateSeatsBulkTx(ctx, tx, links); err != nil {
		if errors.Is(err, repository.ErrDuplicateSale) {
			return &SeatConflictError{Kind: ErrSeatsAlreadyTaken, Seats: refs(s.soldAmong(ctx, b, seatIDs), byID)}
		}
		return failed("insert booking seats", err)
	}
	if err := tx.Commit(); err != nil {
		return failed("commit", err)
	}
	committed = true
	return nil
}

// soldAmong names the requested seats a concurrent booking committed
// after the locked check.  It reads outside the failing transaction and
// falls back to every requested seat when the read fails or finds none.
func (s *BookingService) soldAmong(ctx context.Context, b *model.Booking, seatIDs []uint64) []uint64 {
	sold, err := s.bookings.BookedSeatIDs(ctx, b.RoomID, b.ShowDate)
	if err != nil {
		logger.Warn("reload booked seats failed", zap.Uint64("room_id", b.RoomID), zap.Error(err))
		return seatIDs
	}
	soldSet := idSet(sold)
	taken := make([]uint64, 0, len(seatIDs))
	for _, id := range seatIDs {
		if _, ok := soldSet[id]; ok {
			taken = append(taken, id)
		}
	}
	if len(taken) == 0 {
		return seatIDs
	}
	return taken
}

// CancelBooking deletes a booking and its seat links in one transaction,
// which makes the seats available again for that date.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uint64) (*CancelResult, error) {
	tx, err := s.tx.Begin(ctx)
	if err != nil {
		return nil, failed("begin tx", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := s.bookings.LockByIDTx(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, failed("lock booking", err)
	}
	released, err := s.bookings.DeleteSeatsTx(ctx, tx, bookingID)
	if err != nil {
		return nil, failed("delete booking seats", err)
	}
	if err := s.bookings.DeleteTx(ctx, tx, bookingID); err != nil {
		return nil, failed("delete booking", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, failed("commit", err)
	}
	committed = true

	s.metrics.SeatsReleasedTotal.Add(float64(released))
	invalidateLayout(ctx, s.cache, b.RoomID)
	logger.Info("booking cancelled",
		zap.Uint64("booking_id", bookingID),
		zap.Uint64("room_id", b.RoomID),
		zap.Stringer("show_date", b.ShowDate),
		zap.Int64("released", released))
	s.publishCancelled(ctx, b, int(released))
	return &CancelResult{BookingID: bookingID, Released: int(released)}, nil
}

// ListBookings returns bookings matching f, newest first.
func (s *BookingService) ListBookings(ctx context.Context, f repository.BookingFilter) ([]model.Booking, error) {
	out, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

func (s *BookingService) publishConfirmed(ctx context.Context, t *model.TicketRecord) {
	if s.publisher == nil {
		return
	}
	labels := strings.Split(t.Seats, ", ")
	ev := queue.BookingConfirmedEvent{
		BookingID:   t.BookingID,
		UserID:      t.UserID,
		RoomID:      t.RoomID,
		RoomNumber:  t.RoomNumber,
		MovieID:     t.MovieID,
		MovieTitle:  t.MovieTitle,
		ShowDate:    t.ShowDate.String(),
		Seats:       labels,
		Price:       t.Price,
		ConfirmedAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		logger.Warn("publish booking.confirmed failed", zap.Uint64("booking_id", t.BookingID), zap.Error(err))
	}
}

func (s *BookingService) publishCancelled(ctx context.Context, b *model.Booking, released int) {
	if s.publisher == nil {
		return
	}
	ev := queue.BookingCancelledEvent{
		BookingID:   b.ID,
		RoomID:      b.RoomID,
		ShowDate:    b.ShowDate.String(),
		Released:    released,
		CancelledAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishBookingCancelled(ctx, ev); err != nil {
		logger.Warn("publish booking.cancelled failed", zap.Uint64("booking_id", b.ID), zap.Error(err))
	}
}

// record counts the outcome of a booking attempt.
func (s *BookingService) record(err error) {
	s.metrics.BookingsTotal.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrInvalidRequest):
		return metrics.OutcomeInvalid
	case errors.Is(err, ErrSeatUnavailable):
		return metrics.OutcomeUnavailable
	case errors.Is(err, ErrSeatsAlreadyTaken):
		return metrics.OutcomeTaken
	case errors.Is(err, ErrRoomNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

func logBookingFailure(b *model.Booking, seatIDs []uint64, err error) {
	fields := []zap.Field{
		zap.Uint64("user_id", b.UserID),
		zap.Uint64("room_id", b.RoomID),
		zap.Stringer("show_date", b.ShowDate),
		zap.Uint64s("seat_ids", seatIDs),
		zap.Error(err),
	}
	if errors.Is(err, ErrBookingFailed) {
		logger.Error("booking failed", fields...)
		return
	}
	logger.Info("booking rejected", fields...)
}

func missingIDs(want []uint64, got []model.Seat) []uint64 {
	have := make(map[uint64]struct{}, len(got))
	for _, s := range got {
		have[s.ID] = struct{}{}
	}
	var out []uint64
	for _, id := range want {
		if _, ok := have[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// seatLabels joins the display ids of seats ordered by row then column.
func seatLabels(seats []model.Seat) string {
	sorted := slices.Clone(seats)
	sortSeats(sorted)
	labels := make([]string, len(sorted))
	for i, seat := range sorted {
		labels[i] = seat.DisplayID()
	}
	return strings.Join(labels, ",")
}

func refs(ids []uint64, byID map[uint64]model.Seat) []SeatRef {
	out := make([]SeatRef, len(ids))
	for i, id := range ids {
		out[i] = SeatRef{ID: id, Label: byID[id].DisplayID()}
	}
	return out
}

func joinIDs(ids []uint64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(parts, ", ")
}
