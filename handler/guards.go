package handler

import (
	"context"
	"go-blog-api/model"
	"go-blog-api/service"
	"net/http"
)

// Guard decides whether an authenticated request may proceed. A nil return
// lets the request through.
type Guard func(r *http.Request, claims *model.TokenClaims) error

// RoleAuthorizer checks a subject's stored roles.
type RoleAuthorizer interface {
	AuthorizeRoles(ctx context.Context, subject string, required []model.Role) error
}

// RoleGuard passes when the caller holds at least one of roles. With no roles
// it only requires the caller's account to exist.
func RoleGuard(authz RoleAuthorizer, roles ...model.Role) Guard {
	return func(r *http.Request, claims *model.TokenClaims) error {
		return authz.AuthorizeRoles(r.Context(), claims.Subject, roles)
	}
}

// OwnerLoader returns the id of the user who owns the request's target.
type OwnerLoader func(r *http.Request) (string, error)

// OwnershipGuard passes only when the caller owns the target resource.
func OwnershipGuard(resource string, loader OwnerLoader) Guard {
	return func(r *http.Request, claims *model.TokenClaims) error {
		ownerID, err := loader(r)
		if err != nil {
			return err
		}
		return service.AuthorizeOwner(claims.Subject, ownerID, ActionFor(r.Method), resource)
	}
}

// PathOwner treats the named path value as the owner id, for routes where the
// target is the user itself.
func PathOwner(name string) OwnerLoader {
	return func(r *http.Request) (string, error) {
		return r.PathValue(name), nil
	}
}

// ActionFor maps an HTTP method to the action named in ownership errors.
func ActionFor(method string) service.Action {
	switch method {
	case http.MethodPut, http.MethodPatch:
		return service.ActionUpdate
	case http.MethodDelete:
		return service.ActionDelete
	default:
		return service.ActionModify
	}
}
