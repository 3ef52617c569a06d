package services

import (
	"context"
	"fmt"

	"tiyende/internal/domain"
	"tiyende/internal/domain/models"
	"tiyende/internal/repositories"
	"tiyende/internal/utils"
)

type VendorService struct {
	Store     repositories.VendorStore
	Activity  ActivityService
	RequestID string
}

func (s VendorService) List(ctx context.Context) ([]models.Vendor, error) {
	return s.Store.ListVendors(ctx)
}

func (s VendorService) Get(ctx context.Context, id int64) (models.Vendor, error) {
	return s.Store.GetVendor(ctx, id)
}

func (s VendorService) Create(ctx context.Context, rc domain.RequestContext, v models.Vendor) (models.Vendor, error) {
	v.Name = utils.NormalizeSpace(v.Name)
	if v.Status == "" {
		v.Status = domain.VendorActive
	}
	if err := models.Validate(v); err != nil {
		return models.Vendor{}, err
	}
	created, err := s.Store.CreateVendor(ctx, v)
	if err != nil {
		return models.Vendor{}, err
	}
	s.Activity.Record(ctx, rc.ActorID(), "Vendor created", models.Details{"vendorName": created.Name})
	utils.LogEvent(s.RequestID, "vendor", "create", fmt.Sprintf("id=%d", created.ID))
	return created, nil
}

func (s VendorService) Update(ctx context.Context, rc domain.RequestContext, id int64, patch models.VendorPatch) (models.Vendor, error) {
	current, err := s.Store.GetVendor(ctx, id)
	if err != nil {
		return models.Vendor{}, err
	}
	if patch.Name.Set {
		patch.Name.Value = utils.NormalizeSpace(patch.Name.Value)
	}
	patch.ApplyTo(&current)
	if err := models.Validate(current); err != nil {
		return models.Vendor{}, err
	}
	updated, err := s.Store.UpdateVendor(ctx, id, patch)
	if err != nil {
		return models.Vendor{}, err
	}
	s.Activity.Record(ctx, rc.ActorID(), "Vendor updated", models.Details{"vendorName": updated.Name})
	utils.LogEvent(s.RequestID, "vendor", "update", fmt.Sprintf("id=%d", id))
	return updated, nil
}

// Delete removes the vendor only. Its routes and tickets keep the dangling vendorId.
func (s VendorService) Delete(ctx context.Context, rc domain.RequestContext, id int64) error {
	v, err := s.Store.GetVendor(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.Store.DeleteVendor(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFoundError{Resource: "Vendor"}
	}
	s.Activity.Record(ctx, rc.ActorID(), "Vendor deleted", models.Details{"vendorName": v.Name})
	utils.LogEvent(s.RequestID, "vendor", "delete", fmt.Sprintf("id=%d", id))
	return nil
}
