package repositories

import (
	"context"
	"testing"
	"time"

	"tiyende/internal/domain"
	"tiyende/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract runs the behaviour every Store backend must share.
func storeContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("user ids are monotonic and never reused", func(t *testing.T) {
		s := newStore(t)
		a, err := s.CreateUser(ctx, testUser("alice"))
		require.NoError(t, err)
		b, err := s.CreateUser(ctx, testUser("bob"))
		require.NoError(t, err)
		assert.Greater(t, b.ID, a.ID)

		deleted, err := s.DeleteUser(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		c, err := s.CreateUser(ctx, testUser("carol"))
		require.NoError(t, err)
		assert.Greater(t, c.ID, b.ID)

		deleted, err = s.DeleteUser(ctx, b.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("username is unique", func(t *testing.T) {
		s := newStore(t)
		_, err := s.CreateUser(ctx, testUser("alice"))
		require.NoError(t, err)
		_, err = s.CreateUser(ctx, testUser("alice"))
		assert.True(t, domain.IsConflict(err), "got %v", err)
	})

	t.Run("missing user is NotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetUser(ctx, 404)
		assert.True(t, domain.IsNotFound(err))
		_, err = s.GetUserByUsername(ctx, "ghost")
		assert.True(t, domain.IsNotFound(err))
		_, err = s.UpdateUser(ctx, 404, models.UserPatch{FullName: models.Some("x")})
		assert.True(t, domain.IsNotFound(err))
		assert.True(t, domain.IsNotFound(s.SetUserToken(ctx, 404, nil, nil)))
	})

	t.Run("token set and clear only stamps lastLogin on login", func(t *testing.T) {
		s := newStore(t)
		u, err := s.CreateUser(ctx, testUser("alice"))
		require.NoError(t, err)
		assert.Nil(t, u.LastLogin)

		token := "tok-1"
		loginAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		require.NoError(t, s.SetUserToken(ctx, u.ID, &token, &loginAt))
		got, err := s.GetUser(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Token)
		assert.Equal(t, "tok-1", *got.Token)
		require.NotNil(t, got.LastLogin)
		assert.True(t, got.LastLogin.Equal(loginAt))

		require.NoError(t, s.SetUserToken(ctx, u.ID, nil, nil))
		got, err = s.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Token)
		require.NotNil(t, got.LastLogin)
		assert.True(t, got.LastLogin.Equal(loginAt))
	})

	t.Run("update user merges present fields", func(t *testing.T) {
		s := newStore(t)
		u, err := s.CreateUser(ctx, testUser("alice"))
		require.NoError(t, err)
		updated, err := s.UpdateUser(ctx, u.ID, models.UserPatch{FullName: models.Some("Alice Banda"), Active: models.Some(false)})
		require.NoError(t, err)
		assert.Equal(t, "Alice Banda", updated.FullName)
		assert.False(t, updated.Active)
		assert.Equal(t, "alice", updated.Username)
		assert.Equal(t, u.Email, updated.Email)
	})

	t.Run("vendor delete leaves dependents", func(t *testing.T) {
		s := newStore(t)
		v, err := s.CreateVendor(ctx, testVendor("Mazhandu"))
		require.NoError(t, err)
		r, err := s.CreateRoute(ctx, testRoute(v.ID))
		require.NoError(t, err)
		tk, err := s.CreateTicket(ctx, testTicket("TIY-1", r.ID, v.ID, domain.TicketPaid, 350))
		require.NoError(t, err)

		deleted, err := s.DeleteVendor(ctx, v.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = s.GetVendor(ctx, v.ID)
		assert.True(t, domain.IsNotFound(err))
		gotRoute, err := s.GetRoute(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, v.ID, gotRoute.VendorID)
		_, err = s.GetTicket(ctx, tk.ID)
		assert.NoError(t, err)
	})

	t.Run("route patch keeps absent keys and clears null ones", func(t *testing.T) {
		s := newStore(t)
		v, err := s.CreateVendor(ctx, testVendor("Shalom"))
		require.NoError(t, err)
		r, err := s.CreateRoute(ctx, testRoute(v.ID))
		require.NoError(t, err)

		updated, err := s.UpdateRoute(ctx, r.ID, models.RoutePatch{
			Fare:             models.Some(400),
			EstimatedArrival: models.Some[*string](nil),
			DaysOfWeek:       models.Some([]string{"Sunday"}),
		})
		require.NoError(t, err)
		assert.Equal(t, 400, updated.Fare)
		assert.Nil(t, updated.EstimatedArrival)
		assert.Equal(t, []string{"Sunday"}, updated.DaysOfWeek)
		assert.Equal(t, "Lusaka", updated.Departure)

		reloaded, err := s.GetRoute(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, updated.DaysOfWeek, reloaded.DaysOfWeek)
		assert.Nil(t, reloaded.EstimatedArrival)
	})

	t.Run("routes and tickets filter by foreign key", func(t *testing.T) {
		s := newStore(t)
		v1, _ := s.CreateVendor(ctx, testVendor("A"))
		v2, _ := s.CreateVendor(ctx, testVendor("B"))
		r1, _ := s.CreateRoute(ctx, testRoute(v1.ID))
		r2, _ := s.CreateRoute(ctx, testRoute(v2.ID))
		_, err := s.CreateTicket(ctx, testTicket("TIY-1", r1.ID, v1.ID, domain.TicketPaid, 100))
		require.NoError(t, err)
		_, err = s.CreateTicket(ctx, testTicket("TIY-2", r2.ID, v2.ID, domain.TicketPending, 200))
		require.NoError(t, err)

		routes, err := s.ListRoutesByVendor(ctx, v2.ID)
		require.NoError(t, err)
		require.Len(t, routes, 1)
		assert.Equal(t, r2.ID, routes[0].ID)

		byRoute, err := s.ListTicketsByRoute(ctx, r1.ID)
		require.NoError(t, err)
		require.Len(t, byRoute, 1)
		assert.Equal(t, "TIY-1", byRoute[0].BookingReference)

		byVendor, err := s.ListTicketsByVendor(ctx, v2.ID)
		require.NoError(t, err)
		require.Len(t, byVendor, 1)
		assert.Equal(t, "TIY-2", byVendor[0].BookingReference)

		none, err := s.ListTicketsByVendor(ctx, 999)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("booking reference is unique and searchable", func(t *testing.T) {
		s := newStore(t)
		v, _ := s.CreateVendor(ctx, testVendor("A"))
		r, _ := s.CreateRoute(ctx, testRoute(v.ID))
		created, err := s.CreateTicket(ctx, testTicket("TIY-9", r.ID, v.ID, domain.TicketPending, 100))
		require.NoError(t, err)
		assert.False(t, created.BookingDate.IsZero())

		_, err = s.CreateTicket(ctx, testTicket("TIY-9", r.ID, v.ID, domain.TicketPending, 100))
		assert.True(t, domain.IsConflict(err), "got %v", err)

		found, err := s.GetTicketByReference(ctx, "TIY-9")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)

		updated, err := s.UpdateTicket(ctx, created.ID, models.TicketPatch{Status: models.Some(domain.TicketPaid)})
		require.NoError(t, err)
		assert.Equal(t, domain.TicketPaid, updated.Status)
		assert.Equal(t, 100, updated.Amount)
	})

	t.Run("settings upsert by name", func(t *testing.T) {
		s := newStore(t)
		first, err := s.UpsertSetting(ctx, "system_name", "Tiyende")
		require.NoError(t, err)
		assert.Equal(t, "", first.Description)

		second, err := s.UpsertSetting(ctx, "system_name", "Tiyende Bus Reservation")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Tiyende Bus Reservation", second.Value)

		all, err := s.ListSettings(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		_, err = s.GetSetting(ctx, "missing")
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("activities list newest first with limit", func(t *testing.T) {
		s := newStore(t)
		base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		for i := 0; i < 25; i++ {
			_, err := s.CreateActivity(ctx, models.Activity{
				Action:    "Vendor created",
				Details:   models.Details{"n": i},
				Timestamp: base.Add(time.Duration(i) * time.Minute),
			})
			require.NoError(t, err)
		}
		tied, err := s.CreateActivity(ctx, models.Activity{Action: "tie", Timestamp: base.Add(24 * time.Minute)})
		require.NoError(t, err)
		assert.NotNil(t, tied.Details)

		list, err := s.ListActivities(ctx, 0)
		require.NoError(t, err)
		require.Len(t, list, domain.DefaultActivityLimit)
		assert.Equal(t, tied.ID, list[0].ID)
		for i := 1; i < len(list); i++ {
			assert.False(t, list[i].Timestamp.After(list[i-1].Timestamp))
		}

		five, err := s.ListActivities(ctx, 5)
		require.NoError(t, err)
		assert.Len(t, five, 5)
	})

	t.Run("seed loads catalogue once", func(t *testing.T) {
		s := newStore(t)
		seeded, err := Seed(ctx, s, "hash")
		require.NoError(t, err)
		assert.True(t, seeded)

		vendors, err := s.ListVendors(ctx)
		require.NoError(t, err)
		require.Len(t, vendors, 8)
		assert.Equal(t, "Mazhandu Family Bus Services", vendors[0].Name)

		routes, err := s.ListRoutes(ctx)
		require.NoError(t, err)
		assert.Len(t, routes, 15)
		tickets, err := s.ListTickets(ctx)
		require.NoError(t, err)
		assert.Len(t, tickets, 10)
		settings, err := s.ListSettings(ctx)
		require.NoError(t, err)
		assert.Len(t, settings, 3)
		activities, err := s.ListActivities(ctx, 20)
		require.NoError(t, err)
		require.Len(t, activities, 5)
		assert.Equal(t, "System setting updated", activities[0].Action)

		admin, err := s.GetUserByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, admin.Role)

		seeded, err = Seed(ctx, s, "hash")
		require.NoError(t, err)
		assert.False(t, seeded)
	})
}

func testUser(username string) models.User {
	return models.User{
		Username: username,
		Password: "hash",
		Email:    username + "@tiyende.com",
		FullName: username,
		Role:     domain.RoleStaff,
		Active:   true,
	}
}

func testVendor(name string) models.Vendor {
	return models.Vendor{
		Name:          name,
		ContactPerson: "Contact",
		Email:         "info@example.com",
		Phone:         "+260 97 0000000",
		Status:        domain.VendorActive,
	}
}

func testRoute(vendorID int64) models.Route {
	arrival := "15:00"
	return models.Route{
		VendorID:         vendorID,
		Departure:        "Lusaka",
		Destination:      "Livingstone",
		DepartureTime:    "08:00",
		EstimatedArrival: &arrival,
		Fare:             350,
		Capacity:         domain.DefaultRouteCapacity,
		Status:           domain.RouteActive,
		DaysOfWeek:       []string{"Monday", "Friday"},
	}
}

func testTicket(ref string, routeID, vendorID int64, status string, amount int) models.Ticket {
	return models.Ticket{
		BookingReference: ref,
		RouteID:          routeID,
		VendorID:         vendorID,
		CustomerName:     "John Doe",
		CustomerPhone:    "+260 97 1234567",
		SeatNumber:       12,
		Status:           status,
		Amount:           amount,
		TravelDate:       time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
	}
}
