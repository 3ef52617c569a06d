package services

import (
	"context"
	"fmt"

	"tiyende/internal/domain"
	"tiyende/internal/domain/models"
	"tiyende/internal/repositories"
	"tiyende/internal/utils"
)

type RouteService struct {
	Store interface {
		repositories.RouteStore
		repositories.VendorStore
	}
	Activity  ActivityService
	RequestID string
}

// List returns all routes, or those of one vendor when vendorID is non-zero.
func (s RouteService) List(ctx context.Context, vendorID int64) ([]models.Route, error) {
	if vendorID != 0 {
		return s.Store.ListRoutesByVendor(ctx, vendorID)
	}
	return s.Store.ListRoutes(ctx)
}

func (s RouteService) Get(ctx context.Context, id int64) (models.Route, error) {
	return s.Store.GetRoute(ctx, id)
}

func (s RouteService) Create(ctx context.Context, rc domain.RequestContext, r models.Route) (models.Route, error) {
	r.Departure = utils.NormalizeSpace(r.Departure)
	r.Destination = utils.NormalizeSpace(r.Destination)
	r.DaysOfWeek = utils.NormalizeWeekdays(r.DaysOfWeek)
	if r.Capacity == 0 {
		r.Capacity = domain.DefaultRouteCapacity
	}
	if r.Status == "" {
		r.Status = domain.RouteActive
	}
	if err := models.Validate(r); err != nil {
		return models.Route{}, err
	}
	vendor, err := s.vendor(ctx, r.VendorID)
	if err != nil {
		return models.Route{}, err
	}

	created, err := s.Store.CreateRoute(ctx, r)
	if err != nil {
		return models.Route{}, err
	}
	s.Activity.Record(ctx, rc.ActorID(), "Route created", models.Details{
		"route":  utils.RouteLabel(created.Departure, created.Destination),
		"vendor": vendor.Name,
	})
	utils.LogEvent(s.RequestID, "route", "create", fmt.Sprintf("id=%d vendor_id=%d", created.ID, created.VendorID))
	return created, nil
}

func (s RouteService) Update(ctx context.Context, rc domain.RequestContext, id int64, patch models.RoutePatch) (models.Route, error) {
	current, err := s.Store.GetRoute(ctx, id)
	if err != nil {
		return models.Route{}, err
	}
	if patch.Departure.Set {
		patch.Departure.Value = utils.NormalizeSpace(patch.Departure.Value)
	}
	if patch.Destination.Set {
		patch.Destination.Value = utils.NormalizeSpace(patch.Destination.Value)
	}
	if patch.DaysOfWeek.Set {
		patch.DaysOfWeek.Value = utils.NormalizeWeekdays(patch.DaysOfWeek.Value)
	}
	patch.ApplyTo(&current)
	if err := models.Validate(current); err != nil {
		return models.Route{}, err
	}
	if patch.VendorID.Set {
		if _, err := s.vendor(ctx, patch.VendorID.Value); err != nil {
			return models.Route{}, err
		}
	}

	updated, err := s.Store.UpdateRoute(ctx, id, patch)
	if err != nil {
		return models.Route{}, err
	}
	s.Activity.Record(ctx, rc.ActorID(), "Route updated", models.Details{
		"route": utils.RouteLabel(updated.Departure, updated.Destination),
	})
	utils.LogEvent(s.RequestID, "route", "update", fmt.Sprintf("id=%d", id))
	return updated, nil
}

func (s RouteService) Delete(ctx context.Context, rc domain.RequestContext, id int64) error {
	r, err := s.Store.GetRoute(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.Store.DeleteRoute(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFoundError{Resource: "Route"}
	}
	s.Activity.Record(ctx, rc.ActorID(), "Route deleted", models.Details{
		"route": utils.RouteLabel(r.Departure, r.Destination),
	})
	utils.LogEvent(s.RequestID, "route", "delete", fmt.Sprintf("id=%d", id))
	return nil
}

func (s RouteService) vendor(ctx context.Context, id int64) (models.Vendor, error) {
	v, err := s.Store.GetVendor(ctx, id)
	if domain.IsNotFound(err) {
		return models.Vendor{}, domain.ReferentialError{Resource: "Vendor", ID: id}
	}
	return v, err
}
