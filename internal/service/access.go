package service

import (
	"context"
	"fmt"

	"github.com/sainam-co/jobtrack-api/internal/auth"
	"github.com/sainam-co/jobtrack-api/internal/policy"
)

// requireActor extracts the authenticated user from the context
func requireActor(ctx context.Context) (*auth.UserContext, error) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	return actor, nil
}

// checkPolicy verifies the acting user may perform the action on the
// entity kind. Every mutating service call goes through here; the
// policy table is the single source of truth.
func checkPolicy(ctx context.Context, action policy.Action, entity policy.EntityKind) (*auth.UserContext, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if !policy.Can(actor.Role, action, entity) {
		return nil, fmt.Errorf("%w: %s may not %s %s", ErrPermissionDenied, actor.Role, action, entity)
	}
	return actor, nil
}
