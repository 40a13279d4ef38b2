package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-booking/internal/database"
	"github.com/iliyamo/cinema-booking/internal/model"
)

// ErrRoomNotFound is returned when a room lookup fails.
var ErrRoomNotFound = errors.New("room not found")

const roomColumns = `id, room_number, movie_id, total_rows, total_columns`

// RoomRepo provides methods to create, lock and update rooms.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
	var (
		r       model.Room
		movieID sql.NullInt64
	)
	if err := row.Scan(&r.ID, &r.RoomNumber, &movieID, &r.TotalRows, &r.TotalColumns); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if movieID.Valid {
		id := uint64(movieID.Int64)
		r.MovieID = &id
	}
	return &r, nil
}

// CreateTx inserts a room inside tx and sets its ID.  A duplicate room
// number yields ErrConflict and an unknown movie ErrMovieNotFound.
func (r *RoomRepo) CreateTx(ctx context.Context, tx database.Tx, room *model.Room) error {
	const q = `INSERT INTO rooms (room_number, movie_id, total_rows, total_columns) VALUES (?, ?, ?, ?)`
	res, err := database.Unwrap(tx).ExecContext(ctx, q, room.RoomNumber, room.MovieID, room.TotalRows, room.TotalColumns)
	if err != nil {
		if isDuplicate(err, "") {
			return ErrConflict
		}
		if isMissingReference(err) {
			return ErrMovieNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	return nil
}

// GetByID retrieves a room without locking.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	return scanRoom(r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id))
}

// List returns every room ordered by room number.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY room_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *room)
	}
	return out, rows.Err()
}

// LockSharedTx reads a room holding a shared lock until tx ends.
// Bookings take this lock so that a concurrent resize or delete, which
// needs the exclusive lock, waits for them (and they for it).
func (r *RoomRepo) LockSharedTx(ctx context.Context, tx database.Tx, id uint64) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ? LOCK IN SHARE MODE`
	return scanRoom(database.Unwrap(tx).QueryRowContext(ctx, q, id))
}

// LockForUpdateTx reads a room holding an exclusive lock until tx ends.
func (r *RoomRepo) LockForUpdateTx(ctx context.Context, tx database.Tx, id uint64) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ? FOR UPDATE`
	return scanRoom(database.Unwrap(tx).QueryRowContext(ctx, q, id))
}

// UpdateDimensionsTx stores new grid dimensions.
func (r *RoomRepo) UpdateDimensionsTx(ctx context.Context, tx database.Tx, id uint64, rows, cols uint32) error {
	const q = `UPDATE rooms SET total_rows = ?, total_columns = ? WHERE id = ?`
	_, err := database.Unwrap(tx).ExecContext(ctx, q, rows, cols, id)
	return err
}

// DeleteTx removes a room.  Seats go with it through ON DELETE CASCADE.
func (r *RoomRepo) DeleteTx(ctx context.Context, tx database.Tx, id uint64) error {
	res, err := database.Unwrap(tx).ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}
