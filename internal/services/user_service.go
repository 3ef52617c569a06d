package services

import (
	"context"
	"fmt"
	"strings"

	"tiyende/internal/auth"
	"tiyende/internal/domain"
	"tiyende/internal/domain/models"
	"tiyende/internal/metrics"
	"tiyende/internal/repositories"
	"tiyende/internal/utils"

	"go.opentelemetry.io/otel/attribute"
)

var errBadCredentials = domain.UnauthorizedError{Msg: "Invalid username or password"}

// UserService manages admin panel accounts and the login flow.
type UserService struct {
	Store     repositories.UserStore
	Sessions  SessionService
	Activity  ActivityService
	Metrics   *metrics.Metrics
	RequestID string
}

// UserInput is the body of POST /api/users. Password is plaintext and hashed before storage.
type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Active   *bool  `json:"active"`
}

// Authenticate checks credentials. Unknown users and wrong passwords fail the same way.
func (s UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, domain.ValidationError{Msg: "Username and password are required"}
	}
	user, err := s.Store.GetUserByUsername(ctx, username)
	if err != nil {
		if domain.IsNotFound(err) {
			s.Metrics.LoginAttempt("invalid")
			return models.User{}, errBadCredentials
		}
		return models.User{}, err
	}
	if !auth.CheckPassword(user.Password, password) {
		s.Metrics.LoginAttempt("invalid")
		return models.User{}, errBadCredentials
	}
	if !user.Active {
		s.Metrics.LoginAttempt("inactive")
		return models.User{}, domain.ForbiddenError{Msg: "Account is disabled"}
	}
	return user, nil
}

// Login authenticates and opens a session, returning the refreshed user and its token.
func (s UserService) Login(ctx context.Context, username, password, ipAddress, userAgent string) (models.User, string, error) {
	span := tracer.Start(ctx, "user.login").WithAttrs(attribute.String("user.name", username))
	defer span.End()
	ctx = span.Ctx

	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		span.Fail(err)
		return models.User{}, "", err
	}
	token, err := s.sessions().CreateSession(ctx, user.ID, ipAddress, userAgent)
	if err != nil {
		span.Fail(err)
		return models.User{}, "", err
	}
	if fresh, err := s.Store.GetUser(ctx, user.ID); err == nil {
		user = fresh
	}
	s.Metrics.LoginAttempt("success")
	return user, token, nil
}

func (s UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Store.ListUsers(ctx)
}

func (s UserService) Get(ctx context.Context, id int64) (models.User, error) {
	return s.Store.GetUser(ctx, id)
}

func (s UserService) Create(ctx context.Context, rc domain.RequestContext, in UserInput) (models.User, error) {
	u := models.User{
		Username: strings.TrimSpace(in.Username),
		Password: in.Password,
		Email:    strings.TrimSpace(in.Email),
		FullName: strings.TrimSpace(in.FullName),
		Role:     in.Role,
		Active:   true,
	}
	if u.Role == "" {
		u.Role = domain.RoleStaff
	}
	if in.Active != nil {
		u.Active = *in.Active
	}
	if err := models.Validate(u); err != nil {
		return models.User{}, err
	}
	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}
	u.Password = hash

	created, err := s.Store.CreateUser(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	s.Activity.Record(ctx, rc.ActorID(), "User created", models.Details{"username": created.Username})
	utils.LogEvent(s.RequestID, "user", "create", fmt.Sprintf("id=%d", created.ID))
	return created, nil
}

// Update merges patch into the user. A new password is hashed; deactivation ends the live session.
func (s UserService) Update(ctx context.Context, rc domain.RequestContext, id int64, patch models.UserPatch) (models.User, error) {
	current, err := s.Store.GetUser(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if patch.Username.Set {
		patch.Username.Value = strings.TrimSpace(patch.Username.Value)
	}
	merged := current
	patch.ApplyTo(&merged)
	if err := models.Validate(merged); err != nil {
		return models.User{}, err
	}
	if patch.Password.Set {
		hash, err := auth.HashPassword(patch.Password.Value)
		if err != nil {
			return models.User{}, domain.InternalError{Msg: "failed to hash password", Err: err}
		}
		patch.Password.Value = hash
	}

	updated, err := s.Store.UpdateUser(ctx, id, patch)
	if err != nil {
		return models.User{}, err
	}
	if patch.Active.Set && !patch.Active.Value && current.Token != nil {
		if err := s.Store.SetUserToken(ctx, id, nil, nil); err != nil {
			return models.User{}, err
		}
		updated.Token = nil
	}
	s.Activity.Record(ctx, rc.ActorID(), "User updated", models.Details{"username": updated.Username})
	utils.LogEvent(s.RequestID, "user", "update", fmt.Sprintf("id=%d", id))
	return updated, nil
}

func (s UserService) Delete(ctx context.Context, rc domain.RequestContext, id int64) error {
	user, err := s.Store.GetUser(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.Store.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFoundError{Resource: "User"}
	}
	s.Activity.Record(ctx, rc.ActorID(), "User deleted", models.Details{"username": user.Username})
	utils.LogEvent(s.RequestID, "user", "delete", fmt.Sprintf("id=%d", id))
	return nil
}

func (s UserService) sessions() SessionService {
	sess := s.Sessions
	if sess.Users == nil {
		sess.Users = s.Store
	}
	sess.RequestID = s.RequestID
	return sess
}
