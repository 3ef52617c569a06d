package models

import "time"

// Route is a scheduled trip offered by a vendor. Times are "HH:MM" wall-clock strings.
type Route struct {
	ID               int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	VendorID         int64     `json:"vendorId" gorm:"not null;index" validate:"required,gt=0"`
	Departure        string    `json:"departure" gorm:"size:128;not null" validate:"required"`
	Destination      string    `json:"destination" gorm:"size:128;not null" validate:"required"`
	DepartureTime    string    `json:"departureTime" gorm:"size:8;not null" validate:"required,datetime=15:04"`
	EstimatedArrival *string   `json:"estimatedArrival" gorm:"size:8" validate:"omitempty,datetime=15:04"`
	Fare             int       `json:"fare" gorm:"not null" validate:"gte=0"`
	Capacity         int       `json:"capacity" gorm:"not null" validate:"gt=0"`
	Status           string    `json:"status" gorm:"size:16;not null" validate:"required,oneof=active inactive"`
	DaysOfWeek       []string  `json:"daysOfWeek" gorm:"serializer:json;type:text;not null" validate:"required,min=1,unique,dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	CreatedAt        time.Time `json:"createdAt"`
}

type RoutePatch struct {
	VendorID         Field[int64]
	Departure        Field[string]
	Destination      Field[string]
	DepartureTime    Field[string]
	EstimatedArrival Field[*string]
	Fare             Field[int]
	Capacity         Field[int]
	Status           Field[string]
	DaysOfWeek       Field[[]string]
}

func (p RoutePatch) ApplyTo(r *Route) {
	p.VendorID.Apply(&r.VendorID)
	p.Departure.Apply(&r.Departure)
	p.Destination.Apply(&r.Destination)
	p.DepartureTime.Apply(&r.DepartureTime)
	p.EstimatedArrival.Apply(&r.EstimatedArrival)
	p.Fare.Apply(&r.Fare)
	p.Capacity.Apply(&r.Capacity)
	p.Status.Apply(&r.Status)
	p.DaysOfWeek.Apply(&r.DaysOfWeek)
}
