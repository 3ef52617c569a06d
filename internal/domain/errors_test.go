package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorHelpersSeeThroughWrapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		is   func(error) bool
		msg  string
	}{
		{"not found", NotFoundError{Resource: "Vendor"}, IsNotFound, "Vendor not found"},
		{"validation", ValidationError{Field: "name", Msg: "is required"}, IsValidation, "name: is required"},
		{"referential", ReferentialError{Resource: "Route", ID: 9}, IsReferential, "Route not found"},
		{"conflict", ConflictError{Msg: "Username already exists"}, IsConflict, "Username already exists"},
		{"unauthorized", UnauthorizedError{}, IsUnauthorized, "Authentication required"},
		{"forbidden", ForbiddenError{Msg: "Admin privileges required"}, IsForbidden, "Admin privileges required"},
		{"internal", InternalError{Err: errors.New("boom")}, IsInternal, "internal error"},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("outer: %w", tc.err)
		if !tc.is(wrapped) {
			t.Fatalf("%s: helper did not match wrapped error", tc.name)
		}
		if tc.err.Error() != tc.msg {
			t.Fatalf("%s: got %q want %q", tc.name, tc.err.Error(), tc.msg)
		}
	}
	if IsNotFound(ValidationError{}) {
		t.Fatalf("validation error must not be reported as not found")
	}
}

func TestActorID(t *testing.T) {
	if (RequestContext{}).ActorID() != nil {
		t.Fatalf("anonymous actor should map to nil")
	}
	if id := (RequestContext{UserID: 3}).ActorID(); id == nil || *id != 3 {
		t.Fatalf("unexpected actor id %v", id)
	}
}
