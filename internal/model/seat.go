package model

import (
    "strconv"
    "strings"
)

// BaseStatus is the date independent administrative state of a seat.
type BaseStatus string

const (
    BaseAvailable        BaseStatus = "AVAILABLE"
    BaseUnavailableAdmin BaseStatus = "UNAVAILABLE_ADMIN"
)

// EffectiveStatus is the status of a seat on a given show date.  It is
// derived from the base status and the confirmed bookings for that
// date and is never persisted.
type EffectiveStatus string

const (
    StatusAvailable        EffectiveStatus = "AVAILABLE"
    StatusOccupied         EffectiveStatus = "OCCUPIED"
    StatusUnavailableAdmin EffectiveStatus = "UNAVAILABLE_ADMIN"
)

// Seat describes one physical position in a room.  Seats are uniquely
// identified by their room, row letter and column number.
//
// Fields:
//  ID         – primary key identifier.
//  RoomID     – room to which this seat belongs.
//  RowLetter  – row label, A through Z.
//  ColNumber  – 1-based position within the row.
//  BaseStatus – AVAILABLE or UNAVAILABLE_ADMIN.
type Seat struct {
    ID         uint64     // seats.id
    RoomID     uint64     // seats.room_id
    RowLetter  string     // seats.row_letter
    ColNumber  uint32     // seats.col_number
    BaseStatus BaseStatus // seats.base_status
}

// DisplayID returns the label shown to customers, e.g. "C7".
func (s Seat) DisplayID() string {
    return DisplayID(s.RowLetter, s.ColNumber)
}

// DisplayID joins a row letter and a column number.
func DisplayID(row string, col uint32) string {
    return row + strconv.FormatUint(uint64(col), 10)
}

// ParseDisplayID splits a label such as "c7" into its upper case row
// letter and column number.  ok is false for anything that is not a
// single letter followed by a positive number.
func ParseDisplayID(label string) (row string, col uint32, ok bool) {
    label = strings.ToUpper(strings.TrimSpace(label))
    if len(label) < 2 || label[0] < 'A' || label[0] > 'Z' {
        return "", 0, false
    }
    n, err := strconv.ParseUint(label[1:], 10, 32)
    if err != nil || n == 0 {
        return "", 0, false
    }
    return label[:1], uint32(n), true
}

// RowLetter returns the label of the zero based row index i (0 -> "A").
func RowLetter(i int) string {
    return string(rune('A' + i))
}

// LayoutSeat is one entry of a room's effective layout.
type LayoutSeat struct {
    DisplayID string          `json:"id"`
    Status    EffectiveStatus `json:"status"`
    SeatID    uint64          `json:"seat_id"`
}
