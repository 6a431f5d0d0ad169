package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lunapay/internal/domain/entities"
	"lunapay/pkg"
)

// Identity headers injected by the edge gateway. This service trusts them;
// it performs no token validation of its own.
const (
	HeaderUserID      = "X-User-Id"
	HeaderTenantID    = "X-Tenant-Id"
	HeaderUserRole    = "X-User-Role"
	HeaderUserModules = "X-User-Modules"

	principalKey = "principal"
)

// Principal extracts the caller identity from the edge headers and aborts
// with 401 when user or tenant is missing.
func Principal() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		tenantID := strings.TrimSpace(c.GetHeader(HeaderTenantID))
		if userID == "" || tenantID == "" {
			appErr := pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing identity headers", http.StatusUnauthorized)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}

		c.Set(principalKey, entities.Principal{
			UserID:   userID,
			TenantID: tenantID,
			Role:     strings.TrimSpace(c.GetHeader(HeaderUserRole)),
			Modules:  splitModules(c.GetHeader(HeaderUserModules)),
		})
		c.Next()
	}
}

// RequireModule aborts with 403 when the caller's module grants do not
// include the named module.
func RequireModule(module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok || !principal.HasModule(module) {
			appErr := pkg.NewDomainErrorSimple("FORBIDDEN", "Module not enabled for this user", http.StatusForbidden)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		c.Next()
	}
}

func PrincipalFrom(c *gin.Context) (entities.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return entities.Principal{}, false
	}
	principal, ok := v.(entities.Principal)
	return principal, ok
}

func splitModules(raw string) []string {
	parts := strings.Split(raw, ",")
	modules := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			modules = append(modules, v)
		}
	}
	return modules
}
