package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"tiyende/internal/domain/models"
	"tiyende/internal/repositories"
	"tiyende/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders printable ticket documents.
type DocsService struct {
	Store interface {
		repositories.TicketStore
		repositories.RouteStore
		repositories.VendorStore
	}
	RequestID string
	Loader    func(ctx context.Context, ticketID int64) (ticketDocData, error)
}

type ticketDocData struct {
	Ticket models.Ticket
	Route  *models.Route
	Vendor *models.Vendor
}

// GenerateETicket returns the PDF bytes and a download file name for a ticket.
func (s DocsService) GenerateETicket(ctx context.Context, ticketID int64) ([]byte, string, error) {
	data, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", "ref="+data.Ticket.BookingReference)
	return buildETicketPDF(data)
}

// load tolerates a deleted route or vendor; the ticket still prints with dashes.
func (s DocsService) load(ctx context.Context, ticketID int64) (ticketDocData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, ticketID)
	}
	var out ticketDocData
	t, err := s.Store.GetTicket(ctx, ticketID)
	if err != nil {
		return out, err
	}
	out.Ticket = t
	if r, err := s.Store.GetRoute(ctx, t.RouteID); err == nil {
		out.Route = &r
	}
	if v, err := s.Store.GetVendor(ctx, t.VendorID); err == nil {
		out.Vendor = &v
	}
	return out, nil
}

func buildETicketPDF(d ticketDocData) ([]byte, string, error) {
	t := d.Ticket
	route, departs, vendor := "-", "-", "-"
	if d.Route != nil {
		// core fonts are cp1252, which has no arrow glyph
		route = d.Route.Departure + " - " + d.Route.Destination
		departs = d.Route.DepartureTime
	}
	if d.Vendor != nil {
		vendor = d.Vendor.Name
	}
	payment := "-"
	if t.PaymentMethod != nil {
		payment = *t.PaymentMethod
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+t.BookingReference, false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TIYENDE E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := [][2]string{
		{"Booking reference", t.BookingReference},
		{"Passenger", t.CustomerName},
		{"Phone", t.CustomerPhone},
		{"Operator", vendor},
		{"Route", route},
		{"Travel date", utils.FormatDate(t.TravelDate)},
		{"Departure time", departs},
		{"Seat", strconv.Itoa(t.SeatNumber)},
		{"Amount", utils.FormatKwacha(t.Amount)},
		{"Payment", payment},
		{"Status", t.Status},
	}
	for _, l := range lines {
		pdf.Cell(0, 7, tr(fmt.Sprintf("%-18s: %s", l[0], utils.OrDash(l[1]))))
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Issued %s. Valid for one passenger on the seat shown. Please arrive 30 minutes before departure.",
		utils.FormatDateTime(time.Now())), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("ETICKET_%s_%s.pdf", utils.SafeFilenamePart(t.BookingReference), utils.SafeFilenamePart(t.CustomerName))
	return buf.Bytes(), filename, nil
}
