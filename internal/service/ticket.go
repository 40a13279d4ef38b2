package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
	"github.com/iliyamo/cinema-booking/internal/utils"
)

// BuildPayload returns the string encoded into a ticket's scannable
// code.  The same booking always yields the same payload.
func BuildPayload(bookingID, movieID uint64, date model.ShowDate, labels []string) string {
	return fmt.Sprintf("BOOKING:%d|MOVIE:%d|DATE:%s|SEATS:%s", bookingID, movieID, date, strings.Join(labels, ","))
}

// sortSeats orders seats by row letter then numeric column.
func sortSeats(seats []model.Seat) {
	slices.SortFunc(seats, func(a, b model.Seat) int {
		if c := cmp.Compare(a.RowLetter, b.RowLetter); c != 0 {
			return c
		}
		return cmp.Compare(a.ColNumber, b.ColNumber)
	})
}

// TicketService assembles flat ticket records.
type TicketService struct {
	store TicketStore
}

// NewTicketService wires the ticket assembler.
func NewTicketService(store TicketStore) *TicketService {
	return &TicketService{store: store}
}

// AssembleTicket joins a booking with its user, movie, room and seats.
// When a resize has since replaced the room's seats the labels stored
// with the booking are used and SeatIDs is empty.  A booking that is
// missing, lost a join target or has no seats either way reports
// ErrBookingNotFound.
func (s *TicketService) AssembleTicket(ctx context.Context, bookingID uint64) (*model.TicketRecord, error) {
	t, err := s.store.GetHeader(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("load ticket: %w", err)
	}
	seats, err := s.store.GetSeats(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load ticket seats: %w", err)
	}
	var labels []string
	switch {
	case len(seats) > 0:
		sortSeats(seats)
		labels = make([]string, len(seats))
		t.SeatIDs = make([]uint64, len(seats))
		for i, seat := range seats {
			labels[i] = seat.DisplayID()
			t.SeatIDs[i] = seat.ID
		}
	case t.SeatLabels != "":
		labels = strings.Split(t.SeatLabels, ",")
		t.SeatIDs = []uint64{}
	default:
		return nil, ErrBookingNotFound
	}
	t.Seats = strings.Join(labels, ", ")
	t.Payload = BuildPayload(t.BookingID, t.MovieID, t.ShowDate, labels)
	return t, nil
}

// TicketQR renders the ticket payload as a PNG QR code of the given
// edge size.
func (s *TicketService) TicketQR(ctx context.Context, bookingID uint64, size int) ([]byte, *model.TicketRecord, error) {
	t, err := s.AssembleTicket(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	png, err := utils.GenerateQRCode(t.Payload, size)
	if err != nil {
		return nil, nil, fmt.Errorf("render qr: %w", err)
	}
	return png, t, nil
}
