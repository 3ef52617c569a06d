package services

import (
	"context"
	"sort"

	"tiyende/internal/domain"
	"tiyende/internal/domain/models"
	"tiyende/internal/repositories"
)

const recentLimit = 5

type DashboardService struct {
	Store     repositories.Store
	RequestID string
}

// Stats recomputes the dashboard summary from the current store contents.
// Revenue counts only tickets whose status is exactly "paid".
func (s DashboardService) Stats(ctx context.Context) (models.DashboardStats, error) {
	tickets, err := s.Store.ListTickets(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	vendors, err := s.Store.ListVendors(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	routes, err := s.Store.ListRoutes(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	activities, err := s.Store.ListActivities(ctx, recentLimit)
	if err != nil {
		return models.DashboardStats{}, err
	}

	stats := models.DashboardStats{
		TotalBookings:    len(tickets),
		RecentActivities: activities,
	}
	for _, t := range tickets {
		if t.Status == domain.TicketPaid {
			stats.TotalRevenue += t.Amount
		}
	}
	for _, v := range vendors {
		if v.Status == domain.VendorActive {
			stats.ActiveVendors++
		}
	}
	for _, r := range routes {
		if r.Status == domain.RouteActive {
			stats.ActiveRoutes++
		}
	}

	recent := make([]models.Ticket, len(tickets))
	copy(recent, tickets)
	sort.SliceStable(recent, func(i, j int) bool {
		if recent[i].BookingDate.Equal(recent[j].BookingDate) {
			return recent[i].ID > recent[j].ID
		}
		return recent[i].BookingDate.After(recent[j].BookingDate)
	})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	stats.RecentBookings = recent
	return stats, nil
}
