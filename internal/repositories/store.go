package repositories

import (
	"context"
	"time"

	"tiyende/internal/domain/models"
)

// UserStore is the credential store. Lookups on missing ids return domain.NotFoundError.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (models.User, error)
	// SetUserToken stores or clears the live session token. lastLogin is stamped only when loginAt is non-nil.
	SetUserToken(ctx context.Context, id int64, token *string, loginAt *time.Time) error
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

type VendorStore interface {
	GetVendor(ctx context.Context, id int64) (models.Vendor, error)
	ListVendors(ctx context.Context) ([]models.Vendor, error)
	CreateVendor(ctx context.Context, v models.Vendor) (models.Vendor, error)
	UpdateVendor(ctx context.Context, id int64, patch models.VendorPatch) (models.Vendor, error)
	DeleteVendor(ctx context.Context, id int64) (bool, error)
}

type RouteStore interface {
	GetRoute(ctx context.Context, id int64) (models.Route, error)
	ListRoutes(ctx context.Context) ([]models.Route, error)
	ListRoutesByVendor(ctx context.Context, vendorID int64) ([]models.Route, error)
	CreateRoute(ctx context.Context, r models.Route) (models.Route, error)
	UpdateRoute(ctx context.Context, id int64, patch models.RoutePatch) (models.Route, error)
	DeleteRoute(ctx context.Context, id int64) (bool, error)
}

type TicketStore interface {
	GetTicket(ctx context.Context, id int64) (models.Ticket, error)
	GetTicketByReference(ctx context.Context, reference string) (models.Ticket, error)
	ListTickets(ctx context.Context) ([]models.Ticket, error)
	ListTicketsByRoute(ctx context.Context, routeID int64) ([]models.Ticket, error)
	ListTicketsByVendor(ctx context.Context, vendorID int64) ([]models.Ticket, error)
	CreateTicket(ctx context.Context, t models.Ticket) (models.Ticket, error)
	UpdateTicket(ctx context.Context, id int64, patch models.TicketPatch) (models.Ticket, error)
}

type SettingStore interface {
	GetSetting(ctx context.Context, name string) (models.Setting, error)
	ListSettings(ctx context.Context) ([]models.Setting, error)
	// UpsertSetting updates the value of an existing setting or creates it with an empty description.
	UpsertSetting(ctx context.Context, name, value string) (models.Setting, error)
}

type ActivityStore interface {
	CreateActivity(ctx context.Context, a models.Activity) (models.Activity, error)
	// ListActivities returns the newest activities first.
	ListActivities(ctx context.Context, limit int) ([]models.Activity, error)
}

// Store is the storage abstraction injected into services and handlers.
type Store interface {
	UserStore
	VendorStore
	RouteStore
	TicketStore
	SettingStore
	ActivityStore

	Ping(ctx context.Context) error
	Close() error
}
