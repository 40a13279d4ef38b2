package model

// Room represents a screening venue with a fixed rows × columns seat
// grid.  A room may currently be assigned to a movie.  This struct
// corresponds to a row in the `rooms` table.
//
// Fields:
//  ID           – primary key identifier.
//  RoomNumber   – unique, human facing room number.
//  MovieID      – movie currently screening (nil when unassigned).
//  TotalRows    – number of seat rows (A, B, C …).
//  TotalColumns – number of seats per row.
type Room struct {
    ID           uint64  // rooms.id
    RoomNumber   uint32  // rooms.room_number
    MovieID      *uint64 // rooms.movie_id (nullable)
    TotalRows    uint32  // rooms.total_rows
    TotalColumns uint32  // rooms.total_columns
}

// Capacity returns the number of seats the grid holds.
func (r Room) Capacity() int {
    return int(r.TotalRows) * int(r.TotalColumns)
}
