package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/internal/domain/repository"
	infraRepo "github.com/rkstores/billing-api/internal/infrastructure/repository"
	"github.com/rkstores/billing-api/internal/presentation/http/dto/response"
)

// TenantIDHeader carries an explicit tenant id, taking precedence over the
// subdomain
const TenantIDHeader = "X-Tenant-ID"

// ExtractTenantFromHost extracts the tenant slug from the subdomain,
// e.g. "acme.billing.example.com" -> "acme"
func ExtractTenantFromHost(host string) (string, error) {
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return "", errors.New("invalid subdomain")
	}
	return parts[0], nil
}

// TenantMiddleware resolves the tenant from the X-Tenant-ID header or the
// subdomain and adds it to both the gin and request contexts. Every
// repository query downstream is scoped to this tenant.
func TenantMiddleware(tenantRepo repository.TenantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, err := resolveTenant(c, tenantRepo)
		if err != nil || tenant == nil {
			response.NotFound(c, "Tenant not found")
			c.Abort()
			return
		}

		c.Set("tenant_id", tenant.ID)
		c.Set("tenant", tenant)

		ctx := infraRepo.WithTenant(c.Request.Context(), tenant.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func resolveTenant(c *gin.Context, tenantRepo repository.TenantRepository) (*entity.Tenant, error) {
	if header := c.GetHeader(TenantIDHeader); header != "" {
		id, err := uuid.Parse(header)
		if err != nil {
			return nil, err
		}
		return tenantRepo.GetByID(c.Request.Context(), id)
	}

	slug, err := ExtractTenantFromHost(c.Request.Host)
	if err != nil {
		return nil, err
	}
	return tenantRepo.GetBySlug(c.Request.Context(), slug)
}

// GetTenantID retrieves the tenant ID from gin context
func GetTenantID(c *gin.Context) uuid.UUID {
	tenantID, exists := c.Get("tenant_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := tenantID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// GetTenant retrieves the resolved tenant from gin context
func GetTenant(c *gin.Context) *entity.Tenant {
	val, exists := c.Get("tenant")
	if !exists {
		return nil
	}
	tenant, ok := val.(*entity.Tenant)
	if !ok {
		return nil
	}
	return tenant
}
