package domain

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

const (
	VendorActive   = "active"
	VendorInactive = "inactive"
	VendorPending  = "pending"

	RouteActive   = "active"
	RouteInactive = "inactive"

	TicketPaid      = "paid"
	TicketPending   = "pending"
	TicketRefunded  = "refunded"
	TicketCancelled = "cancelled"
)

const (
	PaymentMobileMoney  = "mobile_money"
	PaymentCreditCard   = "credit_card"
	PaymentCash         = "cash"
	PaymentBankTransfer = "bank_transfer"
)

// DefaultRouteCapacity is the seat count of a standard coach.
const DefaultRouteCapacity = 44

// DefaultActivityLimit is used when a caller does not ask for a page size.
const DefaultActivityLimit = 20

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

// ActorID returns a pointer suitable for Activity.UserID, nil for anonymous callers.
func (r RequestContext) ActorID() *int64 {
	if r.UserID == 0 {
		return nil
	}
	id := r.UserID
	return &id
}
