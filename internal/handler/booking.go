package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/middleware"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
	"github.com/iliyamo/cinema-booking/internal/service"
	"github.com/iliyamo/cinema-booking/internal/utils"
)

// BookingHandler serves bookings and tickets.
type BookingHandler struct {
	bookings BookingServiceInterface
	tickets  TicketServiceInterface
}

// NewBookingHandler wires the booking endpoints.
func NewBookingHandler(b BookingServiceInterface, t TicketServiceInterface) *BookingHandler {
	return &BookingHandler{bookings: b, tickets: t}
}

type bookingResp struct {
	ID        uint64         `json:"id"`
	UserID    uint64         `json:"user_id"`
	RoomID    uint64         `json:"room_id"`
	MovieID   uint64         `json:"movie_id"`
	ShowDate  model.ShowDate `json:"show_date"`
	Price     int64          `json:"price"`
	Seats     []string       `json:"seats"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

func toBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:        b.ID,
		UserID:    b.UserID,
		RoomID:    b.RoomID,
		MovieID:   b.MovieID,
		ShowDate:  b.ShowDate,
		Price:     b.Price,
		Seats:     splitLabels(b.SeatLabels),
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
}

func splitLabels(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// Create books seats and answers with the ticket.  Users always book for
// themselves; admins may book on behalf of the userId in the body.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	var req service.BookingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "malformed JSON")
	}
	if middleware.Role(c) != model.RoleAdmin || req.UserID == 0 {
		req.UserID = uid
	}
	ticket, err := h.bookings.CreateBooking(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, ticket)
}

// List returns one page of bookings, newest first.  Users only see their
// own; admins may filter by user_id, movie_id, room_id and date.  page
// and page_size select the page.
func (h *BookingHandler) List(c echo.Context) error {
	var f repository.BookingFilter
	var field, reason string
	if f.Limit, f.Offset, field, reason = pageQuery(c); field != "" {
		return badRequest(c, field, reason)
	}

	for name, dst := range map[string]*uint64{
		"user_id":  &f.UserID,
		"movie_id": &f.MovieID,
		"room_id":  &f.RoomID,
	} {
		v, ok := uintQuery(c, name)
		if !ok {
			return badRequest(c, name, "must be a positive integer")
		}
		*dst = v
	}
	if raw := c.QueryParam("date"); raw != "" {
		d, err := model.ParseShowDate(raw)
		if err != nil {
			return badRequest(c, "date", "must be a date formatted YYYY-MM-DD")
		}
		f.ShowDate = d
	}
	if middleware.Role(c) != model.RoleAdmin {
		f.UserID, _ = middleware.UserID(c)
	}

	list, err := h.bookings.ListBookings(c.Request().Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]bookingResp, len(list))
	for i, b := range list {
		out[i] = toBookingResp(b)
	}
	return c.JSON(http.StatusOK, out)
}

// Ticket returns the flat ticket of a booking to its owner or an admin.
func (h *BookingHandler) Ticket(c echo.Context) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "id", "must be a positive integer")
	}
	t, err := h.tickets.AssembleTicket(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !canSee(c, t) {
		return respondError(c, service.ErrBookingNotFound)
	}
	return c.JSON(http.StatusOK, t)
}

// QR renders the ticket payload as a PNG.  ?size= sets the edge in
// pixels.
func (h *BookingHandler) QR(c echo.Context) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "id", "must be a positive integer")
	}
	size := utils.DefaultQRSize
	if raw := c.QueryParam("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "size", "must be an integer")
		}
		size = utils.ClampQRSize(n)
	}
	png, t, err := h.tickets.TicketQR(c.Request().Context(), id, size)
	if err != nil {
		return respondError(c, err)
	}
	if !canSee(c, t) {
		return respondError(c, service.ErrBookingNotFound)
	}
	c.Response().Header().Set("Cache-Control", "private, max-age=300")
	return c.Blob(http.StatusOK, "image/png", png)
}

// Cancel deletes a booking and frees its seats.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "id", "must be a positive integer")
	}
	res, err := h.bookings.CancelBooking(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// canSee hides other users' tickets behind a 404.
func canSee(c echo.Context, t *model.TicketRecord) bool {
	if middleware.Role(c) == model.RoleAdmin {
		return true
	}
	uid, ok := middleware.UserID(c)
	return ok && uid == t.UserID
}
