// internal/testutil/http.go
package testutil

import (
	"net/http"

	"github.com/bordhub/bordhub/internal/app/system/auth"
	"github.com/bordhub/bordhub/internal/domain/models"
)

// WithUser injects the given user into the request context, bypassing the
// session middleware.
func WithUser(r *http.Request, u models.User) *http.Request {
	su := &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}
	if u.OrganizationID != nil {
		su.OrganizationID = u.OrganizationID.Hex()
	}
	return auth.WithTestUser(r, su)
}
