package vendors

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
)

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	FindBrand(ctx context.Context, vendorID uuid.UUID) (*models.Brand, error)
	UpsertBrand(ctx context.Context, vendorID uuid.UUID, name string, imageURL *string) error
	ListSummaries(ctx context.Context) ([]VendorSummary, error)
}

// Service exposes vendor self-service and console operations.
type Service interface {
	Get(ctx context.Context, vendorID uuid.UUID) (*VendorDTO, error)
	Update(ctx context.Context, vendorID uuid.UUID, input UpdateVendorInput) (*VendorDTO, error)
	ListSummaries(ctx context.Context) ([]VendorSummary, error)
	SetSuspended(ctx context.Context, vendorID uuid.UUID, suspended bool) (*VendorDTO, error)
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("vendor repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, vendorID uuid.UUID) (*VendorDTO, error) {
	vendor, err := s.repo.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	dto := FromModel(vendor)
	brand, err := s.repo.FindBrand(ctx, vendorID)
	switch {
	case err == nil:
		dto.Brand = BrandFromModel(brand)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load brand")
	}
	return dto, nil
}

func (s *service) Update(ctx context.Context, vendorID uuid.UUID, input UpdateVendorInput) (*VendorDTO, error) {
	updates := input.updates()
	if len(updates) == 0 && input.Brand == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if input.Brand == nil {
		return s.apply(ctx, vendorID, updates)
	}

	name := strings.TrimSpace(input.Brand.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand name required")
	}
	if len(updates) > 0 {
		if _, err := s.apply(ctx, vendorID, updates); err != nil {
			return nil, err
		}
	} else if _, err := s.Get(ctx, vendorID); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertBrand(ctx, vendorID, name, input.Brand.ImageURL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save brand")
	}
	return s.Get(ctx, vendorID)
}

func (s *service) ListSummaries(ctx context.Context) ([]VendorSummary, error) {
	rows, err := s.repo.ListSummaries(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	return rows, nil
}

func (s *service) SetSuspended(ctx context.Context, vendorID uuid.UUID, suspended bool) (*VendorDTO, error) {
	return s.apply(ctx, vendorID, map[string]any{"suspended": suspended})
}

func (s *service) apply(ctx context.Context, vendorID uuid.UUID, updates map[string]any) (*VendorDTO, error) {
	affected, err := s.repo.Update(ctx, vendorID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}
	return s.Get(ctx, vendorID)
}
