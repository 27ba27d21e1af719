package oauthmodel

import "github.com/jrsteele09/go-keycloak-pkce/internal/utils"

// User is the profile returned by the identity provider's user info endpoint.
type User struct {
	// ID is the stable subject identifier ("sub" claim).
	ID string `json:"id"`

	// Name is the display name ("name" claim).
	Name string `json:"name,omitempty"`

	// Email is the user's email address when the "email" scope was granted.
	Email string `json:"email,omitempty"`

	// Username is Keycloak's "preferred_username" claim.
	Username string `json:"username,omitempty"`

	// Roles are Keycloak's realm roles ("realm_access.roles"), when the
	// client's mappers include them in the user info response.
	Roles []string `json:"roles,omitempty"`

	// Claims holds every claim the provider returned, including the ones above.
	Claims map[string]any `json:"claims,omitempty"`
}

// UserFromClaims maps a user info response onto a User. The subject is read
// from "sub", falling back to "id" for providers that do not use OIDC names.
func UserFromClaims(claims map[string]any) User {
	u := User{
		ID:       stringClaim(claims, "sub"),
		Name:     stringClaim(claims, "name"),
		Email:    stringClaim(claims, "email"),
		Username: stringClaim(claims, "preferred_username"),
		Roles:    realmRoles(claims),
		Claims:   claims,
	}
	if u.ID == "" {
		u.ID = stringClaim(claims, "id")
	}
	return u
}

// DisplayName returns the best available human readable name.
func (u User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	default:
		return u.ID
	}
}

func stringClaim(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

func realmRoles(claims map[string]any) []string {
	access, ok := claims["realm_access"].(map[string]any)
	if !ok {
		return nil
	}
	return utils.StringSlice(access["roles"])
}
