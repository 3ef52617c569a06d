package models

import "time"

// Details is the free-form payload attached to an activity.
type Details map[string]any

// Activity is an append-only audit entry. UserID is nil for system actions.
type Activity struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    *int64    `json:"userId" gorm:"index"`
	Action    string    `json:"action" gorm:"size:255;not null" validate:"required"`
	Details   Details   `json:"details" gorm:"serializer:json;type:text"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
}

// DashboardStats is recomputed on every request.
type DashboardStats struct {
	TotalBookings    int        `json:"totalBookings"`
	TotalRevenue     int        `json:"totalRevenue"`
	ActiveVendors    int        `json:"activeVendors"`
	ActiveRoutes     int        `json:"activeRoutes"`
	RecentBookings   []Ticket   `json:"recentBookings"`
	RecentActivities []Activity `json:"recentActivities"`
}
