package services

import (
	"context"
	"errors"
	"time"

	"tiyende/internal/auth"
	"tiyende/internal/domain/models"
	"tiyende/internal/metrics"
	"tiyende/internal/repositories"
	"tiyende/internal/trace"
	"tiyende/internal/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = trace.Tracer("tiyende/services")

// SessionService binds signed tokens to the single token stored on each user.
// Issuing a session overwrites the stored token, so a user has at most one live session.
type SessionService struct {
	Users     repositories.UserStore
	Tokens    *auth.TokenService
	Activity  ActivityService
	Metrics   *metrics.Metrics
	RequestID string
}

// CreateSession issues a token for userID and stores it as the user's live session.
func (s SessionService) CreateSession(ctx context.Context, userID int64, ipAddress, userAgent string) (string, error) {
	span := tracer.Start(ctx, "session.create").WithAttrs(attribute.Int64("user.id", userID))
	defer span.End()
	ctx = span.Ctx

	user, err := s.Users.GetUser(ctx, userID)
	if err != nil {
		span.Fail(err)
		return "", err
	}

	sessionID := uuid.NewString()
	token, claims, err := s.Tokens.Issue(user.ID, user.Username, user.Role, sessionID)
	if err != nil {
		span.Fail(err)
		return "", err
	}
	loginAt := claims.IssuedAt.Time
	if err := s.Users.SetUserToken(ctx, user.ID, &token, &loginAt); err != nil {
		span.Fail(err)
		return "", err
	}

	s.Activity.Record(ctx, &user.ID, "Session created", models.Details{
		"sessionId": sessionID,
		"ipAddress": ipAddress,
		"userAgent": userAgent,
		"timestamp": loginAt.UTC().Format(time.RFC3339),
	})
	s.Metrics.SessionEvent("created")
	utils.LogEvent(s.RequestID, "session", "create", "user="+user.Username)
	return token, nil
}

// ValidateSession returns the claims of a live session, or nil. Expired, forged, revoked and
// orphaned tokens are indistinguishable to the caller.
func (s SessionService) ValidateSession(ctx context.Context, token string) *auth.Claims {
	span := tracer.Start(ctx, "session.validate")
	defer span.End()

	claims, _, err := s.check(span.Ctx, token)
	if err != nil {
		s.reject("validate", err)
		return nil
	}
	return claims
}

// RefreshSession swaps a live token for a new one with the same session id.
// The old token stops validating. It returns false when token is not live.
func (s SessionService) RefreshSession(ctx context.Context, token string) (string, bool) {
	span := tracer.Start(ctx, "session.refresh")
	defer span.End()
	ctx = span.Ctx

	claims, user, err := s.check(ctx, token)
	if err != nil {
		s.reject("refresh", err)
		return "", false
	}
	next, _, err := s.Tokens.Issue(user.ID, user.Username, user.Role, claims.SessionID)
	if err != nil {
		span.Fail(err)
		return "", false
	}
	if err := s.Users.SetUserToken(ctx, user.ID, &next, nil); err != nil {
		span.Fail(err)
		return "", false
	}
	s.Metrics.SessionEvent("refreshed")
	utils.LogEvent(s.RequestID, "session", "refresh", "user="+user.Username)
	return next, true
}

// EndSession clears the stored token of the token's owner. It only requires a valid signature,
// so a token that was already superseded can still log its user out.
func (s SessionService) EndSession(ctx context.Context, token string) bool {
	span := tracer.Start(ctx, "session.end")
	defer span.End()
	ctx = span.Ctx

	claims, err := s.Tokens.Parse(token)
	if err != nil {
		s.reject("end", err)
		return false
	}
	if err := s.Users.SetUserToken(ctx, claims.UserID, nil, nil); err != nil {
		s.reject("end", err)
		return false
	}
	s.Activity.Record(ctx, &claims.UserID, "Session ended", models.Details{
		"sessionId": claims.SessionID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	s.Metrics.SessionEvent("ended")
	utils.LogEvent(s.RequestID, "session", "end", "user="+claims.Username)
	return true
}

var errTokenMismatch = errors.New("token is not the live session")

func (s SessionService) check(ctx context.Context, token string) (*auth.Claims, models.User, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, models.User{}, err
	}
	user, err := s.Users.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, models.User{}, err
	}
	if user.Token == nil || *user.Token != token {
		return nil, models.User{}, errTokenMismatch
	}
	// role and username follow the stored account, not what was signed at login
	claims.Role = user.Role
	claims.Username = user.Username
	return claims, user, nil
}

func (s SessionService) reject(op string, err error) {
	s.Metrics.SessionEvent("rejected")
	utils.Logger().Debug("session rejected",
		zap.String("op", op),
		zap.String("reason", err.Error()),
		zap.String("request_id", s.RequestID),
	)
}
