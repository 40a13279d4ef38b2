// Package queue defines the booking events exchanged over RabbitMQ and
// the publisher and consumer that carry them.
package queue

// Routing keys, also used as durable queue names on the default
// exchange.
const (
    BookingConfirmedQueue = "booking.confirmed"
    BookingCancelledQueue = "booking.cancelled"
)

// BookingConfirmedEvent is published after a booking commits.  It
// carries enough for consumers to log or notify without querying the
// database.
type BookingConfirmedEvent struct {
    BookingID   uint64   `json:"booking_id"`
    UserID      uint64   `json:"user_id"`
    RoomID      uint64   `json:"room_id"`
    RoomNumber  uint32   `json:"room_number"`
    MovieID     uint64   `json:"movie_id"`
    MovieTitle  string   `json:"movie_title"`
    ShowDate    string   `json:"show_date"`
    Seats       []string `json:"seats"`
    Price       int64    `json:"price"`
    ConfirmedAt string   `json:"confirmed_at"`
}

// BookingCancelledEvent is published after a booking is deleted and its
// seats released.
type BookingCancelledEvent struct {
    BookingID   uint64 `json:"booking_id"`
    RoomID      uint64 `json:"room_id"`
    ShowDate    string `json:"show_date"`
    Released    int    `json:"released"`
    CancelledAt string `json:"cancelled_at"`
}
