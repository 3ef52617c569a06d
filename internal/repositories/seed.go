package repositories

import (
	"context"
	"fmt"
	"time"

	"tiyende/internal/domain"
	"tiyende/internal/domain/models"
)

const busTerminal = "Intercity Bus Terminal, Lusaka, Zambia"

type seedVendor struct {
	name, contact, email, phone string
}

var seedVendors = []seedVendor{
	{"Mazhandu Family Bus Services", "John Mazhandu", "info@mazhandufamily.com", "+260 97 1234567"},
	{"Power Tools Bus Services", "Maria Daka", "info@powertoolsbus.com", "+260 96 7654321"},
	{"Shalom Bus Services", "David Banda", "info@shalombus.com", "+260 97 8765432"},
	{"Juldan Motors", "Julian Mwanza", "info@juldanmotors.com", "+260 95 1234567"},
	{"Euro Africa Bus Services", "Samuel Mulenga", "info@euroafrica.com", "+260 96 8765432"},
	{"Kobs Bus Services", "Kenneth Chanda", "info@kobsbus.com", "+260 97 5678901"},
	{"CR Carriers", "Charles Mumba", "info@crcarriers.com", "+260 96 5432109"},
	{"Wada Chovu Transport", "Watson Chovu", "info@wadachovu.com", "+260 95 8765432"},
}

type seedRoute struct {
	vendor                     int // 1-based index into seedVendors
	from, to, departs, arrives string
	fare                       int
	days                       []string
}

var seedRoutes = []seedRoute{
	{1, "Lusaka", "Livingstone", "08:00", "15:00", 350, []string{"Monday", "Wednesday", "Friday", "Sunday"}},
	{1, "Lusaka", "Ndola", "07:30", "11:30", 200, []string{"Monday", "Tuesday", "Thursday", "Saturday"}},
	{1, "Lusaka", "Chipata", "06:00", "14:00", 280, []string{"Monday", "Wednesday", "Friday"}},
	{2, "Lusaka", "Kitwe", "07:00", "13:00", 220, []string{"Monday", "Tuesday", "Thursday", "Saturday", "Sunday"}},
	{2, "Lusaka", "Solwezi", "06:30", "16:30", 320, []string{"Tuesday", "Thursday", "Sunday"}},
	{3, "Lusaka", "Nakonde", "05:00", "17:00", 380, []string{"Monday", "Friday"}},
	{3, "Lusaka", "Mongu", "06:00", "15:00", 280, []string{"Wednesday", "Saturday"}},
	{4, "Lusaka", "Kabwe", "09:00", "11:30", 120, []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}},
	{4, "Lusaka", "Mazabuka", "10:00", "12:30", 150, []string{"Monday", "Wednesday", "Friday", "Sunday"}},
	{5, "Lusaka", "Johannesburg", "14:00", "10:00", 850, []string{"Tuesday", "Saturday"}},
	{5, "Lusaka", "Harare", "07:00", "17:00", 400, []string{"Monday", "Thursday"}},
	{6, "Lusaka", "Kasama", "06:00", "16:00", 320, []string{"Tuesday", "Friday", "Sunday"}},
	{6, "Ndola", "Lusaka", "08:00", "12:00", 200, []string{"Monday", "Wednesday", "Friday", "Sunday"}},
	{7, "Lusaka", "Choma", "09:30", "14:30", 220, []string{"Monday", "Wednesday", "Saturday"}},
	{8, "Lusaka", "Mansa", "07:00", "17:00", 350, []string{"Tuesday", "Thursday", "Sunday"}},
}

type seedTicket struct {
	ref                string
	route, vendor      int
	name, phone, email string
	seat               int
	status             string
	amount             int
	method, payRef     string
	travel             string
}

var seedTickets = []seedTicket{
	{"TIY-8294", 1, 1, "John Doe", "+260 97 1234567", "john@example.com", 12, domain.TicketPaid, 350, domain.PaymentMobileMoney, "PAY123456", "2023-06-15"},
	{"TIY-8293", 2, 2, "Maria Sakala", "+260 96 7654321", "maria@example.com", 5, domain.TicketPending, 200, domain.PaymentMobileMoney, "", "2023-06-16"},
	{"TIY-8292", 3, 1, "Chanda Mulenga", "+260 95 9876543", "chanda@example.com", 8, domain.TicketPaid, 280, domain.PaymentMobileMoney, "PAY789012", "2023-06-17"},
	{"TIY-8291", 4, 2, "Bwalya Mutale", "+260 96 8765432", "bwalya@example.com", 15, domain.TicketPaid, 220, domain.PaymentCash, "CASH001", "2023-06-18"},
	{"TIY-8290", 6, 3, "Mwamba Chilufya", "+260 97 6543210", "mwamba@example.com", 22, domain.TicketPaid, 380, domain.PaymentMobileMoney, "PAY345678", "2023-06-19"},
	{"TIY-8289", 8, 4, "Thandiwe Banda", "+260 95 5432109", "thandiwe@example.com", 7, domain.TicketPaid, 120, domain.PaymentMobileMoney, "PAY901234", "2023-06-20"},
	{"TIY-8288", 10, 5, "Kabwe Musonda", "+260 96 4321098", "kabwe@example.com", 34, domain.TicketPending, 850, domain.PaymentBankTransfer, "", "2023-06-21"},
	{"TIY-8287", 12, 6, "Mumba Phiri", "+260 97 3210987", "mumba@example.com", 19, domain.TicketPaid, 320, domain.PaymentMobileMoney, "PAY567890", "2023-06-22"},
	{"TIY-8286", 14, 7, "Nkandu Tembo", "+260 95 2109876", "nkandu@example.com", 28, domain.TicketPaid, 220, domain.PaymentMobileMoney, "PAY123789", "2023-06-23"},
	{"TIY-8285", 15, 8, "Kasonde Mbewe", "+260 96 1098765", "kasonde@example.com", 11, domain.TicketPaid, 350, domain.PaymentCreditCard, "CC456789", "2023-06-24"},
}

var seedSettings = [][2]string{
	{"system_name", "Tiyende Bus Reservation"},
	{"contact_email", "support@tiyende.com"},
	{"contact_phone", "+260 97 1234567"},
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Seed loads the default admin account and the demo catalogue into an empty store.
// It returns false without writing anything when users already exist.
func Seed(ctx context.Context, store Store, adminPasswordHash string) (bool, error) {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return false, err
	}
	if len(users) > 0 {
		return false, nil
	}

	admin, err := store.CreateUser(ctx, models.User{
		Username: "admin",
		Password: adminPasswordHash,
		Email:    "admin@tiyende.com",
		FullName: "Admin User",
		Role:     domain.RoleAdmin,
		Active:   true,
	})
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	vendorIDs := make([]int64, len(seedVendors))
	for i, sv := range seedVendors {
		v, err := store.CreateVendor(ctx, models.Vendor{
			Name:          sv.name,
			ContactPerson: sv.contact,
			Email:         sv.email,
			Phone:         sv.phone,
			Address:       strPtr(busTerminal),
			Status:        domain.VendorActive,
		})
		if err != nil {
			return false, fmt.Errorf("seed vendor %q: %w", sv.name, err)
		}
		vendorIDs[i] = v.ID
	}

	routeIDs := make([]int64, len(seedRoutes))
	for i, sr := range seedRoutes {
		r, err := store.CreateRoute(ctx, models.Route{
			VendorID:         vendorIDs[sr.vendor-1],
			Departure:        sr.from,
			Destination:      sr.to,
			DepartureTime:    sr.departs,
			EstimatedArrival: strPtr(sr.arrives),
			Fare:             sr.fare,
			Capacity:         domain.DefaultRouteCapacity,
			Status:           domain.RouteActive,
			DaysOfWeek:       sr.days,
		})
		if err != nil {
			return false, fmt.Errorf("seed route %s-%s: %w", sr.from, sr.to, err)
		}
		routeIDs[i] = r.ID
	}

	for _, kv := range seedSettings {
		if _, err := store.UpsertSetting(ctx, kv[0], kv[1]); err != nil {
			return false, fmt.Errorf("seed setting %s: %w", kv[0], err)
		}
	}

	// Booking dates step back an hour per ticket so the first reference is the most recent booking.
	now := time.Now()
	for i, st := range seedTickets {
		travel, err := time.ParseInLocation("2006-01-02", st.travel, time.Local)
		if err != nil {
			return false, err
		}
		_, err = store.CreateTicket(ctx, models.Ticket{
			BookingReference: st.ref,
			RouteID:          routeIDs[st.route-1],
			VendorID:         vendorIDs[st.vendor-1],
			CustomerName:     st.name,
			CustomerPhone:    st.phone,
			CustomerEmail:    strPtr(st.email),
			SeatNumber:       st.seat,
			Status:           st.status,
			Amount:           st.amount,
			PaymentMethod:    strPtr(st.method),
			PaymentReference: strPtr(st.payRef),
			BookingDate:      now.Add(-time.Duration(i) * time.Hour),
			TravelDate:       travel,
		})
		if err != nil {
			return false, fmt.Errorf("seed ticket %s: %w", st.ref, err)
		}
	}

	seedActivities := []struct {
		action  string
		details models.Details
	}{
		{"New vendor added", models.Details{"vendorName": "Shalom Bus Services"}},
		{"New route added", models.Details{"route": "Lusaka → Livingstone"}},
		{"New vendor added", models.Details{"vendorName": "Juldan Motors"}},
		{"Ticket booked", models.Details{"reference": "TIY-8294", "route": "Lusaka → Livingstone"}},
		{"System setting updated", models.Details{"setting": "contact_email"}},
	}
	for i, sa := range seedActivities {
		_, err := store.CreateActivity(ctx, models.Activity{
			UserID:    &admin.ID,
			Action:    sa.action,
			Details:   sa.details,
			Timestamp: now.Add(time.Duration(i-len(seedActivities)) * time.Minute),
		})
		if err != nil {
			return false, fmt.Errorf("seed activity: %w", err)
		}
	}
	return true, nil
}
