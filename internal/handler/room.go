package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/service"
)

// RoomHandler serves rooms, their layouts and seat blocks.
type RoomHandler struct {
	rooms        RoomLister
	inventory    InventoryServiceInterface
	availability AvailabilityServiceInterface
	layout       LayoutServiceInterface
}

func NewRoomHandler(rooms RoomLister, inv InventoryServiceInterface, avail AvailabilityServiceInterface, layout LayoutServiceInterface) *RoomHandler {
	return &RoomHandler{rooms: rooms, inventory: inv, availability: avail, layout: layout}
}

type createRoomReq struct {
	RoomNumber uint32  `json:"roomNumber"`
	MovieID    *uint64 `json:"movieId"`
	Rows       int     `json:"rows"`
	Columns    int     `json:"columns"`
}

type resizeReq struct {
	Rows    int      `json:"rows"`
	Columns int      `json:"columns"`
	Blocked []string `json:"blocked"`
}

type blockReq struct {
	Blocked *bool `json:"blocked" validate:"required"`
}

type roomResp struct {
	ID           uint64  `json:"id"`
	RoomNumber   uint32  `json:"room_number"`
	MovieID      *uint64 `json:"movie_id"`
	TotalRows    uint32  `json:"total_rows"`
	TotalColumns uint32  `json:"total_columns"`
	Capacity     int     `json:"capacity"`
}

func toRoomResp(r model.Room) roomResp {
	return roomResp{
		ID:           r.ID,
		RoomNumber:   r.RoomNumber,
		MovieID:      r.MovieID,
		TotalRows:    r.TotalRows,
		TotalColumns: r.TotalColumns,
		Capacity:     r.Capacity(),
	}
}

type seatResp struct {
	ID         uint64           `json:"seat_id"`
	DisplayID  string           `json:"id"`
	Row        string           `json:"row"`
	Column     uint32           `json:"column"`
	BaseStatus model.BaseStatus `json:"base_status"`
}

func toSeatResp(s model.Seat) seatResp {
	return seatResp{ID: s.ID, DisplayID: s.DisplayID(), Row: s.RowLetter, Column: s.ColNumber, BaseStatus: s.BaseStatus}
}

// List returns every room.
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.rooms.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]roomResp, len(rooms))
	for i, r := range rooms {
		out[i] = toRoomResp(r)
	}
	return c.JSON(http.StatusOK, out)
}

// Create adds a room with its full seat grid.
func (h *RoomHandler) Create(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "malformed JSON")
	}
	room, err := h.inventory.CreateRoom(c.Request().Context(), service.CreateRoomInput{
		RoomNumber: req.RoomNumber,
		MovieID:    req.MovieID,
		Rows:       req.Rows,
		Columns:    req.Columns,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toRoomResp(*room))
}

// Layout returns the effective layout of a room on ?date=YYYY-MM-DD, or
// base statuses when no date is given.
func (h *RoomHandler) Layout(c echo.Context) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "id", "must be a positive integer")
	}
	var date model.ShowDate
	if raw := c.QueryParam("date"); raw != "" {
		d, err := model.ParseShowDate(raw)
		if err != nil {
			return badRequest(c, "date", "must be a date formatted YYYY-MM-DD")
		}
		date = d
	}
	layout, err := h.availability.EffectiveLayout(c.Request().Context(), id, date)
	if err != nil {
		return respondError(c, err)
	}
	resp := echo.Map{"room_id": id, "seats": layout}
	if !date.IsZero() {
		resp["date"] = date
	}
	return c.JSON(http.StatusOK, resp)
}

// Seats lists the physical seats of a room in row, column order.
func (h *RoomHandler) Seats(c echo.Context) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "id", "must be a positive integer")
	}
	out := []seatResp{}
	for seat, err := range h.inventory.ListSeats(c.Request().Context(), id) {
		if err != nil {
			return respondError(c, err)
		}
		out = append(out, toSeatResp(seat))
	}
	return c.JSON(http.StatusOK, out)
}

// Resize changes the dimensions or the admin blocks of a room.
func (h *RoomHandler) Resize(c echo.Context) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "id", "must be a positive integer")
	}
	var req resizeReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "malformed JSON")
	}
	res, err := h.layout.ResizeRoom(c.Request().Context(), service.ResizeInput{
		RoomID:  id,
		Rows:    req.Rows,
		Columns: req.Columns,
		Blocked: req.Blocked,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Delete removes a room.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "id", "must be a positive integer")
	}
	if err := h.inventory.DeleteRoom(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// BlockSeat sets or clears the admin block of a seat.
func (h *RoomHandler) BlockSeat(c echo.Context) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "id", "must be a positive integer")
	}
	var req blockReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "malformed JSON")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}
	seat, err := h.inventory.SetAdminBlock(c.Request().Context(), id, *req.Blocked)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toSeatResp(*seat))
}
