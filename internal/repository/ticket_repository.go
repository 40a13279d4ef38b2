package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// TicketRepo reads the joined rows a ticket is assembled from.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo.
func NewTicketRepo(db *sql.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

// GetHeader joins a booking with its user, movie and room.  Inner joins
// mean a missing join target reports ErrBookingNotFound just like a
// missing booking.  Seats, SeatIDs and Payload are left empty;
// SeatLabels carries the labels stored with the booking.
func (r *TicketRepo) GetHeader(ctx context.Context, bookingID uint64) (*model.TicketRecord, error) {
	const q = `SELECT b.id, b.status, u.id, u.name, u.email, m.id, m.title,
	                  r.id, r.room_number, b.show_date, b.price, b.seat_labels
	           FROM bookings b
	           JOIN users u  ON u.id = b.user_id
	           JOIN movies m ON m.id = b.movie_id
	           JOIN rooms r  ON r.id = b.room_id
	           WHERE b.id = ?`
	var t model.TicketRecord
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(
		&t.BookingID, &t.Status, &t.UserID, &t.UserName, &t.UserEmail,
		&t.MovieID, &t.MovieTitle, &t.RoomID, &t.RoomNumber, &t.ShowDate, &t.Price, &t.SeatLabels)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetSeats returns the physical seats of a booking ordered by row letter
// then column number.
func (r *TicketRepo) GetSeats(ctx context.Context, bookingID uint64) ([]model.Seat, error) {
	const q = `SELECT s.id, s.room_id, s.row_letter, s.col_number, s.base_status
	           FROM booking_seats bs
	           JOIN seats s ON s.id = bs.seat_id
	           WHERE bs.booking_id = ?
	           ORDER BY s.row_letter, s.col_number`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Seat, 0)
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
