package repository // repository defines data access for seats

import (
	"context"
	"database/sql"
	"errors"
	"iter"

	"github.com/iliyamo/cinema-booking/internal/database"
	"github.com/iliyamo/cinema-booking/internal/model"
)

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

const seatColumns = `id, room_id, row_letter, col_number, base_status`

// SeatRepo provides methods to work with seats in the database.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

func scanSeat(row interface{ Scan(...any) error }) (model.Seat, error) {
	var s model.Seat
	err := row.Scan(&s.ID, &s.RoomID, &s.RowLetter, &s.ColNumber, &s.BaseStatus)
	return s, err
}

// CreateBulkTx inserts multiple seats in a single statement.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx database.Tx, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (room_id, row_letter, col_number, base_status) VALUES `
	args := make([]any, 0, len(seats)*4)
	for i, seat := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, seat.RoomID, seat.RowLetter, seat.ColNumber, seat.BaseStatus)
	}
	_, err := database.Unwrap(tx).ExecContext(ctx, query, args...)
	return err
}

// All yields the seats of a room ordered by row letter then column
// number.  Rows are streamed from the driver; every range over the
// returned sequence issues a fresh query.
func (r *SeatRepo) All(ctx context.Context, roomID uint64) iter.Seq2[model.Seat, error] {
	return r.all(ctx, r.db, roomID)
}

func (r *SeatRepo) all(ctx context.Context, q database.Querier, roomID uint64) iter.Seq2[model.Seat, error] {
	const query = `SELECT ` + seatColumns + `
	           FROM seats
	           WHERE room_id = ?
	           ORDER BY row_letter, col_number`
	return func(yield func(model.Seat, error) bool) {
		rows, err := q.QueryContext(ctx, query, roomID)
		if err != nil {
			yield(model.Seat{}, err)
			return
		}
		defer rows.Close()
		for rows.Next() {
			s, err := scanSeat(rows)
			if !yield(s, err) || err != nil {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(model.Seat{}, err)
		}
	}
}

func collect(seq iter.Seq2[model.Seat, error]) ([]model.Seat, error) {
	out := make([]model.Seat, 0)
	for s, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// GetByRoom retrieves all seats of a room ordered by row letter then column number.
func (r *SeatRepo) GetByRoom(ctx context.Context, roomID uint64) ([]model.Seat, error) {
	return collect(r.all(ctx, r.db, roomID))
}

// GetByRoomTx is GetByRoom inside tx.
func (r *SeatRepo) GetByRoomTx(ctx context.Context, tx database.Tx, roomID uint64) ([]model.Seat, error) {
	return collect(r.all(ctx, database.Unwrap(tx), roomID))
}

// LockByIDsTx locks the requested seats of a room with FOR UPDATE.  Rows
// are locked in ascending id order so two transactions requesting
// overlapping sets always acquire their locks in the same sequence.
// Ids that do not belong to the room are simply absent from the result.
func (r *SeatRepo) LockByIDsTx(ctx context.Context, tx database.Tx, roomID uint64, ids []uint64) ([]model.Seat, error) {
	if len(ids) == 0 {
		return []model.Seat{}, nil
	}
	query := `SELECT ` + seatColumns + ` FROM seats WHERE room_id = ? AND id IN (` +
		placeholders(len(ids)) + `) ORDER BY id FOR UPDATE`
	args := append([]any{roomID}, idArgs(ids)...)
	rows, err := database.Unwrap(tx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Seat, 0, len(ids))
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LockByIDTx locks a single seat with FOR UPDATE.
func (r *SeatRepo) LockByIDTx(ctx context.Context, tx database.Tx, id uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE id = ? FOR UPDATE`
	s, err := scanSeat(database.Unwrap(tx).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// SetBaseStatusTx updates the base status of one seat.
func (r *SeatRepo) SetBaseStatusTx(ctx context.Context, tx database.Tx, id uint64, status model.BaseStatus) error {
	_, err := database.Unwrap(tx).ExecContext(ctx, `UPDATE seats SET base_status = ? WHERE id = ?`, status, id)
	return err
}

// ResetAdminBlocksTx sets every UNAVAILABLE_ADMIN seat of a room back to
// AVAILABLE and returns the number of seats changed.
func (r *SeatRepo) ResetAdminBlocksTx(ctx context.Context, tx database.Tx, roomID uint64) (int64, error) {
	const q = `UPDATE seats SET base_status = ? WHERE room_id = ? AND base_status = ?`
	res, err := database.Unwrap(tx).ExecContext(ctx, q, model.BaseAvailable, roomID, model.BaseUnavailableAdmin)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByRoomTx removes every seat of a room.  booking_seats rows still
// referencing the seats make this fail, so callers detach them first.
func (r *SeatRepo) DeleteByRoomTx(ctx context.Context, tx database.Tx, roomID uint64) error {
	_, err := database.Unwrap(tx).ExecContext(ctx, `DELETE FROM seats WHERE room_id = ?`, roomID)
	return err
}
