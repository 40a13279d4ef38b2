package model

// TicketRecord is the flat, display ready view of a booking.  Seats is
// the comma joined list of display ids ordered by row then column and
// Payload is the deterministic string encoded into the scannable code.
type TicketRecord struct {
    BookingID  uint64   `json:"booking_id"`
    Status     string   `json:"status"`
    UserID     uint64   `json:"user_id"`
    UserName   string   `json:"user_name"`
    UserEmail  string   `json:"user_email"`
    MovieID    uint64   `json:"movie_id"`
    MovieTitle string   `json:"movie_title"`
    RoomID     uint64   `json:"room_id"`
    RoomNumber uint32   `json:"room_number"`
    ShowDate   ShowDate `json:"show_date"`
    Price      int64    `json:"price"`
    Seats      string   `json:"seats"`
    SeatIDs    []uint64 `json:"seat_ids"`
    Payload    string   `json:"payload"`
    SeatLabels string   `json:"-"` // as stored on the booking
}
