package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tiyende/internal/domain"
	"tiyende/internal/domain/models"
	"tiyende/internal/metrics"
	"tiyende/internal/repositories"
	"tiyende/internal/utils"

	"github.com/google/uuid"
)

type TicketService struct {
	Store interface {
		repositories.TicketStore
		repositories.RouteStore
		repositories.VendorStore
	}
	Activity  ActivityService
	Metrics   *metrics.Metrics
	RequestID string
}

// TicketFilter narrows List. RouteID wins over VendorID when both are set.
type TicketFilter struct {
	RouteID  int64
	VendorID int64
}

func (s TicketService) List(ctx context.Context, f TicketFilter) ([]models.Ticket, error) {
	switch {
	case f.RouteID != 0:
		return s.Store.ListTicketsByRoute(ctx, f.RouteID)
	case f.VendorID != 0:
		return s.Store.ListTicketsByVendor(ctx, f.VendorID)
	default:
		return s.Store.ListTickets(ctx)
	}
}

func (s TicketService) Get(ctx context.Context, id int64) (models.Ticket, error) {
	return s.Store.GetTicket(ctx, id)
}

func (s TicketService) GetByReference(ctx context.Context, reference string) (models.Ticket, error) {
	return s.Store.GetTicketByReference(ctx, strings.ToUpper(strings.TrimSpace(reference)))
}

// NewBookingReference returns a reference such as "TIY-3F2A9C1B".
func NewBookingReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TIY-" + strings.ToUpper(id[:8])
}

// Create books a ticket. bookingReference is generated when empty and bookingDate is always set now.
func (s TicketService) Create(ctx context.Context, rc domain.RequestContext, t models.Ticket) (models.Ticket, error) {
	t.BookingReference = strings.ToUpper(strings.TrimSpace(t.BookingReference))
	if t.BookingReference == "" {
		t.BookingReference = NewBookingReference()
	}
	if t.Status == "" {
		t.Status = domain.TicketPending
	}
	t.BookingDate = time.Time{}
	if err := models.Validate(t); err != nil {
		return models.Ticket{}, err
	}
	if err := s.checkRefs(ctx, t.RouteID, t.VendorID); err != nil {
		return models.Ticket{}, err
	}

	created, err := s.Store.CreateTicket(ctx, t)
	if err != nil {
		return models.Ticket{}, err
	}
	s.Metrics.TicketCreated(created.Status)
	s.Activity.Record(ctx, rc.ActorID(), "Ticket created", models.Details{
		"reference": created.BookingReference,
		"customer":  created.CustomerName,
		"status":    created.Status,
	})
	utils.LogEvent(s.RequestID, "ticket", "create", "ref="+created.BookingReference)
	return created, nil
}

func (s TicketService) Update(ctx context.Context, rc domain.RequestContext, id int64, patch models.TicketPatch) (models.Ticket, error) {
	current, err := s.Store.GetTicket(ctx, id)
	if err != nil {
		return models.Ticket{}, err
	}
	patch.ApplyTo(&current)
	if err := models.Validate(current); err != nil {
		return models.Ticket{}, err
	}
	if patch.RouteID.Set || patch.VendorID.Set {
		if err := s.checkRefs(ctx, current.RouteID, current.VendorID); err != nil {
			return models.Ticket{}, err
		}
	}

	updated, err := s.Store.UpdateTicket(ctx, id, patch)
	if err != nil {
		return models.Ticket{}, err
	}
	s.Activity.Record(ctx, rc.ActorID(), "Ticket updated", models.Details{
		"reference": updated.BookingReference,
		"customer":  updated.CustomerName,
		"status":    updated.Status,
	})
	utils.LogEvent(s.RequestID, "ticket", "update", fmt.Sprintf("id=%d status=%s", id, updated.Status))
	return updated, nil
}

func (s TicketService) checkRefs(ctx context.Context, routeID, vendorID int64) error {
	if _, err := s.Store.GetRoute(ctx, routeID); err != nil {
		if domain.IsNotFound(err) {
			return domain.ReferentialError{Resource: "Route", ID: routeID}
		}
		return err
	}
	if _, err := s.Store.GetVendor(ctx, vendorID); err != nil {
		if domain.IsNotFound(err) {
			return domain.ReferentialError{Resource: "Vendor", ID: vendorID}
		}
		return err
	}
	return nil
}
