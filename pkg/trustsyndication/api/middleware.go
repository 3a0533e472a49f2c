package api

import (
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
)

// Permission names carried in the token's "permissions" claim.
const (
	PermissionManage = "manage trust metadata"
	PermissionView   = "view trust metadata"
)

// RequirePermission gates a route group on a permission claim. A nil token
// auth (development mode, no JWT secret configured) disables the check.
func RequirePermission(tokenAuth *jwtauth.JWTAuth, permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tokenAuth == nil {
			return next
		}

		check := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				renderAccessDenied(w, r)
				return
			}
			if !hasPermission(claims, permission) {
				renderAccessDenied(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})

		return jwtauth.Verifier(tokenAuth)(check)
	}
}

func hasPermission(claims map[string]interface{}, permission string) bool {
	granted, ok := claims["permissions"].([]interface{})
	if !ok {
		return false
	}
	for _, p := range granted {
		if s, ok := p.(string); ok && s == permission {
			return true
		}
	}
	return false
}

func renderAccessDenied(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusForbidden)
	render.JSON(w, r, map[string]interface{}{
		"success": false,
		"message": "Access denied.",
	})
}
