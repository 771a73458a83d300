package service

import (
	"context"
	"errors"
	"fmt"
	"go-blog-api/model"
	"go-blog-api/repository"
)

// Action names the kind of mutation an ownership check protects.
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionModify Action = "modify"
)

// AuthorizeRoles loads the subject's account and checks it against required.
// A missing account is Unauthorized; an empty requirement always passes;
// otherwise at least one role must be shared.
func (s *AuthService) AuthorizeRoles(ctx context.Context, subject string, required []model.Role) error {
	user, err := s.users.GetUserByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return unauthorized("account not found")
		}
		return infra("load user for role check", err)
	}
	if len(required) == 0 || user.HasAnyRole(required) {
		return nil
	}
	return forbidden(fmt.Sprintf("requires one of roles %v", required))
}

// AuthorizeOwner fails with Forbidden unless subject owns the resource.
func AuthorizeOwner(subject, ownerID string, action Action, resource string) error {
	if subject != "" && subject == ownerID {
		return nil
	}
	return forbidden(fmt.Sprintf("You are only allowed to %s your own %s", action, resource))
}
