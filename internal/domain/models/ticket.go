package models

import "time"

// Ticket is a booking on a route. Amount is in whole kwacha.
type Ticket struct {
	ID               int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	BookingReference string    `json:"bookingReference" gorm:"size:32;not null;uniqueIndex" validate:"required,max=32"`
	RouteID          int64     `json:"routeId" gorm:"not null;index" validate:"required,gt=0"`
	VendorID         int64     `json:"vendorId" gorm:"not null;index" validate:"required,gt=0"`
	CustomerName     string    `json:"customerName" gorm:"size:255;not null" validate:"required"`
	CustomerPhone    string    `json:"customerPhone" gorm:"size:64;not null" validate:"required"`
	CustomerEmail    *string   `json:"customerEmail" gorm:"size:255" validate:"omitempty,email"`
	SeatNumber       int       `json:"seatNumber" gorm:"not null" validate:"gt=0"`
	Status           string    `json:"status" gorm:"size:16;not null;index" validate:"required,oneof=paid pending refunded cancelled"`
	Amount           int       `json:"amount" gorm:"not null" validate:"gte=0"`
	PaymentMethod    *string   `json:"paymentMethod" gorm:"size:32" validate:"omitempty,oneof=mobile_money credit_card cash bank_transfer"`
	PaymentReference *string   `json:"paymentReference" gorm:"size:128"`
	BookingDate      time.Time `json:"bookingDate" gorm:"not null;index"`
	TravelDate       time.Time `json:"travelDate" gorm:"not null" validate:"required"`
}

type TicketPatch struct {
	RouteID          Field[int64]
	VendorID         Field[int64]
	CustomerName     Field[string]
	CustomerPhone    Field[string]
	CustomerEmail    Field[*string]
	SeatNumber       Field[int]
	Status           Field[string]
	Amount           Field[int]
	PaymentMethod    Field[*string]
	PaymentReference Field[*string]
	TravelDate       Field[time.Time]
}

func (p TicketPatch) ApplyTo(t *Ticket) {
	p.RouteID.Apply(&t.RouteID)
	p.VendorID.Apply(&t.VendorID)
	p.CustomerName.Apply(&t.CustomerName)
	p.CustomerPhone.Apply(&t.CustomerPhone)
	p.CustomerEmail.Apply(&t.CustomerEmail)
	p.SeatNumber.Apply(&t.SeatNumber)
	p.Status.Apply(&t.Status)
	p.Amount.Apply(&t.Amount)
	p.PaymentMethod.Apply(&t.PaymentMethod)
	p.PaymentReference.Apply(&t.PaymentReference)
	p.TravelDate.Apply(&t.TravelDate)
}
