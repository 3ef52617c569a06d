package services

import (
	"context"
	"fmt"
	"strings"

	"tiyende/internal/domain"
	"tiyende/internal/domain/models"
	"tiyende/internal/repositories"
	"tiyende/internal/utils"
)

// ActivityPublisher receives every activity after it is stored.
type ActivityPublisher interface {
	Publish(a models.Activity)
}

// ActivityService appends to and reads the audit log.
type ActivityService struct {
	Store     repositories.ActivityStore
	Publisher ActivityPublisher
	RequestID string
}

// ActivityInput is the body of POST /api/activities.
type ActivityInput struct {
	UserID  *int64         `json:"userId"`
	Action  string         `json:"action"`
	Details models.Details `json:"details"`
}

// Record appends an activity for a state change that already happened. A storage failure is
// logged and swallowed so the change itself is still reported as successful.
func (s ActivityService) Record(ctx context.Context, actor *int64, action string, details models.Details) {
	a, err := s.Store.CreateActivity(ctx, models.Activity{UserID: actor, Action: action, Details: details})
	if err != nil {
		utils.LogEvent(s.RequestID, "activity", "record", fmt.Sprintf("warning: %q not stored: %v", action, err))
		return
	}
	s.publish(a)
}

// Create stores a client-supplied activity. userId defaults to the caller.
func (s ActivityService) Create(ctx context.Context, rc domain.RequestContext, in ActivityInput) (models.Activity, error) {
	in.Action = strings.TrimSpace(in.Action)
	if in.UserID == nil {
		in.UserID = rc.ActorID()
	}
	a := models.Activity{UserID: in.UserID, Action: in.Action, Details: in.Details}
	if err := models.Validate(a); err != nil {
		return models.Activity{}, err
	}
	created, err := s.Store.CreateActivity(ctx, a)
	if err != nil {
		return models.Activity{}, err
	}
	utils.LogEvent(s.RequestID, "activity", "create", "action="+created.Action)
	s.publish(created)
	return created, nil
}

func (s ActivityService) List(ctx context.Context, limit int) ([]models.Activity, error) {
	return s.Store.ListActivities(ctx, limit)
}

func (s ActivityService) publish(a models.Activity) {
	if s.Publisher != nil {
		s.Publisher.Publish(a)
	}
}
