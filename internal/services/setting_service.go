package services

import (
	"context"
	"strings"

	"tiyende/internal/domain"
	"tiyende/internal/domain/models"
	"tiyende/internal/repositories"
	"tiyende/internal/utils"
)

type SettingService struct {
	Store     repositories.SettingStore
	Activity  ActivityService
	RequestID string
}

func (s SettingService) List(ctx context.Context) ([]models.Setting, error) {
	return s.Store.ListSettings(ctx)
}

func (s SettingService) Get(ctx context.Context, name string) (models.Setting, error) {
	return s.Store.GetSetting(ctx, strings.TrimSpace(name))
}

// Upsert sets the value of a named setting, creating it when unknown.
func (s SettingService) Upsert(ctx context.Context, rc domain.RequestContext, name, value string) (models.Setting, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Setting{}, domain.ValidationError{Msg: "Setting name is required"}
	}
	if len(name) > 128 {
		return models.Setting{}, domain.ValidationError{Msg: "Setting name must be at most 128 characters"}
	}
	if value == "" {
		return models.Setting{}, domain.ValidationError{Msg: "Value is required"}
	}
	st, err := s.Store.UpsertSetting(ctx, name, value)
	if err != nil {
		return models.Setting{}, err
	}
	s.Activity.Record(ctx, rc.ActorID(), "Setting updated", models.Details{"setting": st.Name})
	utils.LogEvent(s.RequestID, "setting", "upsert", "name="+st.Name)
	return st, nil
}
