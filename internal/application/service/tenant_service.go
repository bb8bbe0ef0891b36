package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/internal/domain/repository"
	"github.com/rkstores/billing-api/pkg/apperror"
)

// TenantService manages store tenants and their settings
type TenantService struct {
	tenants repository.TenantRepository
}

// NewTenantService creates a new tenant service
func NewTenantService(tenants repository.TenantRepository) *TenantService {
	return &TenantService{tenants: tenants}
}

func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("tenant not found")
	}
	return tenant, nil
}

func (s *TenantService) GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	tenant, err := s.tenants.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("tenant not found")
	}
	return tenant, nil
}

func (s *TenantService) UpdateSettings(ctx context.Context, id uuid.UUID, settings entity.TenantConfig) (*entity.Tenant, error) {
	if err := s.tenants.UpdateSettings(ctx, id, settings); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}
