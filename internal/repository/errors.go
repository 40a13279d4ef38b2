// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow the service layer to
// distinguish missing rows and storage level conflicts from
// unexpected failures without inspecting driver errors itself.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicateSale is returned when inserting booking_seats violates
// the unique (room_id, show_date, seat_id) key, i.e. the seat was
// already sold for that date by a transaction this one did not see.
var ErrDuplicateSale = errors.New("seat already sold for this date")

// ErrConflict is returned when a row cannot be written because of a
// unique key other than the sale key (room number, email).
var ErrConflict = errors.New("conflict")

// MySQL server error numbers.
const (
	mysqlDuplicateEntry  = 1062
	mysqlNoReferencedRow = 1452
)

// isDuplicate reports whether err is a MySQL duplicate key error,
// optionally restricted to the named key.
func isDuplicate(err error, key string) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlDuplicateEntry {
		return false
	}
	return key == "" || strings.Contains(me.Message, key)
}

// isMissingReference reports whether err is a MySQL foreign key
// violation on insert or update.
func isMissingReference(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlNoReferencedRow
}

// placeholders returns "?,?,…" with n markers for an IN clause.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// idArgs converts ids to driver arguments.
func idArgs(ids []uint64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
