package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/cinema-booking/internal/database"
	"github.com/iliyamo/cinema-booking/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup fails.
var ErrBookingNotFound = errors.New("booking not found")

// saleKey is the unique index over (room_id, show_date, seat_id).
const saleKey = "uq_booking_seats_sale"

const bookingColumns = `id, user_id, room_id, movie_id, show_date, price, seat_labels, status, created_at`

// BookingFilter narrows List.  Zero values are ignored.
type BookingFilter struct {
	ID       uint64
	UserID   uint64
	MovieID  uint64
	RoomID   uint64
	ShowDate model.ShowDate
	Limit    int // 0 means no limit
	Offset   int
}

// BookingRepo encapsulates access to bookings and booking_seats.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.RoomID, &b.MovieID, &b.ShowDate, &b.Price, &b.SeatLabels, &b.Status, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// CreateTx inserts a booking and populates its ID.
func (r *BookingRepo) CreateTx(ctx context.Context, tx database.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, room_id, movie_id, show_date, price, seat_labels, status) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := database.Unwrap(tx).ExecContext(ctx, q, b.UserID, b.RoomID, b.MovieID, b.ShowDate, b.Price, b.SeatLabels, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// CreateSeatsBulkTx inserts booking_seats rows in one statement.  A
// violation of the sale key is reported as ErrDuplicateSale.
func (r *BookingRepo) CreateSeatsBulkTx(ctx context.Context, tx database.Tx, seats []model.BookingSeat) error {
	if len(seats) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO booking_seats (booking_id, seat_id, room_id, show_date) VALUES `)
	args := make([]any, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?)")
		args = append(args, s.BookingID, s.SeatID, s.RoomID, s.ShowDate)
	}
	if _, err := database.Unwrap(tx).ExecContext(ctx, sb.String(), args...); err != nil {
		if isDuplicate(err, saleKey) {
			return ErrDuplicateSale
		}
		return err
	}
	return nil
}

// BookedSeatIDsTx returns the subset of seatIDs already sold to a
// confirmed booking of the room on date.  Called with the seat rows
// locked, so the answer cannot change before the transaction ends.
func (r *BookingRepo) BookedSeatIDsTx(ctx context.Context, tx database.Tx, roomID uint64, date model.ShowDate, seatIDs []uint64) ([]uint64, error) {
	if len(seatIDs) == 0 {
		return []uint64{}, nil
	}
	query := `SELECT bs.seat_id
	          FROM booking_seats bs
	          JOIN bookings b ON b.id = bs.booking_id
	          WHERE bs.room_id = ? AND bs.show_date = ? AND b.status = ?
	            AND bs.seat_id IN (` + placeholders(len(seatIDs)) + `)
	          ORDER BY bs.seat_id`
	args := append([]any{roomID, date, model.BookingConfirmed}, idArgs(seatIDs)...)
	return queryIDs(ctx, database.Unwrap(tx), query, args...)
}

// BookedSeatIDs returns every seat id sold to a confirmed booking of the
// room on date.  It takes no locks.
func (r *BookingRepo) BookedSeatIDs(ctx context.Context, roomID uint64, date model.ShowDate) ([]uint64, error) {
	const q = `SELECT bs.seat_id
	           FROM booking_seats bs
	           JOIN bookings b ON b.id = bs.booking_id
	           WHERE bs.room_id = ? AND bs.show_date = ? AND b.status = ?`
	return queryIDs(ctx, r.db, q, roomID, date, model.BookingConfirmed)
}

// ActiveSeatIDsTx returns the seats of a room that belong to a confirmed
// booking whose show date is on or after from.
func (r *BookingRepo) ActiveSeatIDsTx(ctx context.Context, tx database.Tx, roomID uint64, from model.ShowDate) ([]uint64, error) {
	const q = `SELECT DISTINCT bs.seat_id
	           FROM booking_seats bs
	           JOIN bookings b ON b.id = bs.booking_id
	           WHERE bs.room_id = ? AND bs.show_date >= ? AND b.status = ?`
	return queryIDs(ctx, database.Unwrap(tx), q, roomID, from, model.BookingConfirmed)
}

// SeatHasActiveTx reports whether a seat belongs to a confirmed booking
// whose show date is on or after from.
func (r *BookingRepo) SeatHasActiveTx(ctx context.Context, tx database.Tx, seatID uint64, from model.ShowDate) (bool, error) {
	const q = `SELECT EXISTS (
	               SELECT 1 FROM booking_seats bs
	               JOIN bookings b ON b.id = bs.booking_id
	               WHERE bs.seat_id = ? AND bs.show_date >= ? AND b.status = ?)`
	var ok bool
	err := database.Unwrap(tx).QueryRowContext(ctx, q, seatID, from, model.BookingConfirmed).Scan(&ok)
	return ok, err
}

// CountActiveTx counts confirmed bookings of a room with a show date on
// or after from.
func (r *BookingRepo) CountActiveTx(ctx context.Context, tx database.Tx, roomID uint64, from model.ShowDate) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE room_id = ? AND show_date >= ? AND status = ?`
	var n int
	err := database.Unwrap(tx).QueryRowContext(ctx, q, roomID, from, model.BookingConfirmed).Scan(&n)
	return n, err
}

// DetachInactiveSeatsTx deletes the booking_seats rows of a room that
// belong to bookings which are no longer active: show date before
// before, or not confirmed.  The bookings themselves are kept.
func (r *BookingRepo) DetachInactiveSeatsTx(ctx context.Context, tx database.Tx, roomID uint64, before model.ShowDate) (int64, error) {
	const q = `DELETE bs FROM booking_seats bs
	           JOIN bookings b ON b.id = bs.booking_id
	           WHERE bs.room_id = ? AND (bs.show_date < ? OR b.status <> ?)`
	res, err := database.Unwrap(tx).ExecContext(ctx, q, roomID, before, model.BookingConfirmed)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteInactiveTx deletes the bookings of a room that are no longer
// active.  Their booking_seats rows cascade.
func (r *BookingRepo) DeleteInactiveTx(ctx context.Context, tx database.Tx, roomID uint64, before model.ShowDate) (int64, error) {
	const q = `DELETE FROM bookings WHERE room_id = ? AND (show_date < ? OR status <> ?)`
	res, err := database.Unwrap(tx).ExecContext(ctx, q, roomID, before, model.BookingConfirmed)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// LockByIDTx loads a booking holding an exclusive row lock.
func (r *BookingRepo) LockByIDTx(ctx context.Context, tx database.Tx, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	return scanBooking(database.Unwrap(tx).QueryRowContext(ctx, q, id))
}

// DeleteSeatsTx removes the booking_seats rows of a booking and returns
// how many were removed.
func (r *BookingRepo) DeleteSeatsTx(ctx context.Context, tx database.Tx, bookingID uint64) (int64, error) {
	res, err := database.Unwrap(tx).ExecContext(ctx, `DELETE FROM booking_seats WHERE booking_id = ?`, bookingID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteTx removes a booking row.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx database.Tx, id uint64) error {
	res, err := database.Unwrap(tx).ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// List returns bookings matching f, newest first.
func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	var (
		where []string
		args  []any
	)
	if f.ID != 0 {
		where = append(where, "id = ?")
		args = append(args, f.ID)
	}
	if f.UserID != 0 {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.MovieID != 0 {
		where = append(where, "movie_id = ?")
		args = append(args, f.MovieID)
	}
	if f.RoomID != 0 {
		where = append(where, "room_id = ?")
		args = append(args, f.RoomID)
	}
	if !f.ShowDate.IsZero() {
		where = append(where, "show_date = ?")
		args = append(args, f.ShowDate)
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func queryIDs(ctx context.Context, q database.Querier, query string, args ...any) ([]uint64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
