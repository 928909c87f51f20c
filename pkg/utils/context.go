package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey     contextKey = "user_id"
	RolesKey      contextKey = "roles"
	ProviderIDKey contextKey = "provider_id"
)

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userIDVal := ctx.Value(UserIDKey)
	if userIDVal == nil {
		return uuid.Nil, false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func GetRolesFromContext(ctx context.Context) ([]string, bool) {
	rolesVal := ctx.Value(RolesKey)
	if rolesVal == nil {
		return nil, false
	}

	roles, ok := rolesVal.([]string)
	return roles, ok
}

func HasRole(ctx context.Context, role string) bool {
	roles, ok := GetRolesFromContext(ctx)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// GetProviderIDFromContext returns the provider a principal acts for, if any.
func GetProviderIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	providerVal := ctx.Value(ProviderIDKey)
	if providerVal == nil {
		return uuid.Nil, false
	}

	providerStr, ok := providerVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	providerID, err := uuid.Parse(providerStr)
	if err != nil {
		return uuid.Nil, false
	}

	return providerID, true
}

func SetUserContext(ctx context.Context, userID uuid.UUID, roles []string, providerID *uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID.String())
	ctx = context.WithValue(ctx, RolesKey, roles)
	if providerID != nil {
		ctx = context.WithValue(ctx, ProviderIDKey, providerID.String())
	}
	return ctx
}
