package models

import "time"

// Vendor is a bus operator.
type Vendor struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string    `json:"name" gorm:"size:255;not null" validate:"required"`
	ContactPerson string    `json:"contactPerson" gorm:"size:255;not null" validate:"required"`
	Email         string    `json:"email" gorm:"size:255;not null" validate:"required,email"`
	Phone         string    `json:"phone" gorm:"size:64;not null" validate:"required"`
	Address       *string   `json:"address" gorm:"type:text"`
	Status        string    `json:"status" gorm:"size:16;not null" validate:"required,oneof=active inactive pending"`
	Logo          *string   `json:"logo" gorm:"type:text"`
	CreatedAt     time.Time `json:"createdAt"`
}

type VendorPatch struct {
	Name          Field[string]
	ContactPerson Field[string]
	Email         Field[string]
	Phone         Field[string]
	Address       Field[*string]
	Status        Field[string]
	Logo          Field[*string]
}

func (p VendorPatch) ApplyTo(v *Vendor) {
	p.Name.Apply(&v.Name)
	p.ContactPerson.Apply(&v.ContactPerson)
	p.Email.Apply(&v.Email)
	p.Phone.Apply(&v.Phone)
	p.Address.Apply(&v.Address)
	p.Status.Apply(&v.Status)
	p.Logo.Apply(&v.Logo)
}
