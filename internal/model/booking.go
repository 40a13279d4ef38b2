package model

import "time"

// Booking statuses.  Bookings are confirmed on creation; cancelled is
// kept for completeness of the status column.
const (
    BookingConfirmed = "confirmed"
    BookingCancelled = "cancelled"
)

// Booking records a confirmed sale of one or more seats of a room for a
// single show date.  The seats themselves live in booking_seats.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who owns the booking.
//  RoomID    – room being booked.
//  MovieID   – movie screened.
//  ShowDate  – calendar date of the screening (no time component).
//  Price     – opaque amount supplied by the caller.
//  SeatLabels – comma joined display ids of the seats, row then column.
//  Status    – confirmed or cancelled.
//  CreatedAt – creation timestamp.
type Booking struct {
    ID         uint64    // bookings.id
    UserID     uint64    // bookings.user_id
    RoomID     uint64    // bookings.room_id
    MovieID    uint64    // bookings.movie_id
    ShowDate   ShowDate  // bookings.show_date
    Price      int64     // bookings.price
    SeatLabels string    // bookings.seat_labels
    Status     string    // bookings.status
    CreatedAt  time.Time // bookings.created_at
}

// BookingSeat links a booking to a physical seat.  RoomID and ShowDate
// are copied from the booking so that a unique index over
// (room_id, show_date, seat_id) can reject a second sale of the same
// seat for the same date.
type BookingSeat struct {
    BookingID uint64   // booking_seats.booking_id
    SeatID    uint64   // booking_seats.seat_id
    RoomID    uint64   // booking_seats.room_id
    ShowDate  ShowDate // booking_seats.show_date
}
