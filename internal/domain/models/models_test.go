package models

import (
	"strings"
	"testing"
	"time"

	"tiyende/internal/domain"
)

func validRoute() Route {
	arrival := "15:00"
	return Route{
		VendorID:         1,
		Departure:        "Lusaka",
		Destination:      "Livingstone",
		DepartureTime:    "08:00",
		EstimatedArrival: &arrival,
		Fare:             350,
		Capacity:         44,
		Status:           "active",
		DaysOfWeek:       []string{"Monday", "Friday"},
	}
}

func TestValidateRoute(t *testing.T) {
	r := validRoute()
	if err := Validate(r); err != nil {
		t.Fatalf("expected valid route, got %v", err)
	}

	r.Status = "paused"
	r.DepartureTime = "8am"
	r.DaysOfWeek = nil
	err := Validate(r)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{"status must be one of [active inactive]", "departureTime must be a time in HH:MM format", "daysOfWeek is required"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q does not mention %q", msg, want)
		}
	}
}

func TestValidateTicketOptionalFields(t *testing.T) {
	bad := "not-an-email"
	method := "cheque"
	tk := Ticket{
		BookingReference: "TIY-1",
		RouteID:          1,
		VendorID:         1,
		CustomerName:     "John Doe",
		CustomerPhone:    "+260 97 1234567",
		SeatNumber:       12,
		Status:           "pending",
		Amount:           350,
		TravelDate:       time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := Validate(tk); err != nil {
		t.Fatalf("nil optional fields should pass: %v", err)
	}

	tk.CustomerEmail = &bad
	tk.PaymentMethod = &method
	err := Validate(tk)
	if err == nil || !strings.Contains(err.Error(), "customerEmail must be a valid email") || !strings.Contains(err.Error(), "paymentMethod must be one of") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestValidateUsesJSONNames(t *testing.T) {
	err := Validate(User{Role: "admin"})
	if err == nil || !strings.Contains(err.Error(), "fullName is required") || !strings.Contains(err.Error(), "password is required") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestPatchApplyKeepsAbsentFields(t *testing.T) {
	addr := "Lusaka"
	v := Vendor{Name: "Old", Status: "active", Address: &addr}

	VendorPatch{Name: Some("New"), Address: Some[*string](nil)}.ApplyTo(&v)

	if v.Name != "New" || v.Status != "active" {
		t.Fatalf("unexpected vendor %+v", v)
	}
	if v.Address != nil {
		t.Fatalf("explicit null should clear address")
	}
}
