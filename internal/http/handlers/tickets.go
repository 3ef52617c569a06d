package handlers

import (
	"net/http"
	"strings"

	"tiyende/internal/domain"
	"tiyende/internal/domain/models"
	"tiyende/internal/services"

	"github.com/gin-gonic/gin"
)

// ticketRequest is the POST /api/tickets body. travelDate may be a plain date or RFC 3339.
type ticketRequest struct {
	BookingReference string  `json:"bookingReference"`
	RouteID          int64   `json:"routeId"`
	VendorID         int64   `json:"vendorId"`
	CustomerName     string  `json:"customerName"`
	CustomerPhone    string  `json:"customerPhone"`
	CustomerEmail    *string `json:"customerEmail"`
	SeatNumber       int     `json:"seatNumber"`
	Status           string  `json:"status"`
	Amount           int     `json:"amount"`
	PaymentMethod    *string `json:"paymentMethod"`
	PaymentReference *string `json:"paymentReference"`
	TravelDate       string  `json:"travelDate"`
}

func (r ticketRequest) toModel() (models.Ticket, error) {
	t := models.Ticket{
		BookingReference: r.BookingReference,
		RouteID:          r.RouteID,
		VendorID:         r.VendorID,
		CustomerName:     r.CustomerName,
		CustomerPhone:    r.CustomerPhone,
		CustomerEmail:    r.CustomerEmail,
		SeatNumber:       r.SeatNumber,
		Status:           r.Status,
		Amount:           r.Amount,
		PaymentMethod:    r.PaymentMethod,
		PaymentReference: r.PaymentReference,
	}
	if strings.TrimSpace(r.TravelDate) == "" {
		return t, domain.ValidationError{Msg: "travelDate is required"}
	}
	d, err := parseDate(r.TravelDate)
	if err != nil {
		return t, domain.ValidationError{Msg: "travelDate must be a date (YYYY-MM-DD or RFC 3339)"}
	}
	t.TravelDate = d
	return t, nil
}

// GetTickets lists tickets. ?routeId= takes precedence over ?vendorId=.
func (h *Handler) GetTickets(c *gin.Context) {
	routeID, ok := queryID(c, "routeId", "route")
	if !ok {
		return
	}
	vendorID, ok := queryID(c, "vendorId", "vendor")
	if !ok {
		return
	}
	tickets, err := h.tickets(c).List(c.Request.Context(), services.TicketFilter{RouteID: routeID, VendorID: vendorID})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *Handler) GetTicketByID(c *gin.Context) {
	id, ok := parseID(c, "id", "ticket")
	if !ok {
		return
	}
	t, err := h.tickets(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) GetTicketByReference(c *gin.Context) {
	t, err := h.tickets(c).GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) CreateTicket(c *gin.Context) {
	var req ticketRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	t, err := req.toModel()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	created, err := h.tickets(c).Create(c.Request.Context(), currentUser(c), t)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateTicket(c *gin.Context) {
	id, ok := parseID(c, "id", "ticket")
	if !ok {
		return
	}
	body, ok := readObject(c)
	if !ok {
		return
	}
	patch, err := decodeTicketPatch(body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	t, err := h.tickets(c).Update(c.Request.Context(), currentUser(c), id, patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
