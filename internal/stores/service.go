package stores

import (
	"context"

	"github.com/google/uuid"

	dbmodels "github.com/velomart/velomart-backend/pkg/db/models"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

// Service defines store and catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateStoreInput) (*StoreDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
	List(ctx context.Context, filter ListFilter) ([]StoreDTO, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateStoreInput) (*StoreDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateItem(ctx context.Context, input CreateItemInput) (*StoreItemDTO, error)
	GetItem(ctx context.Context, id uuid.UUID) (*StoreItemDTO, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]StoreItemDTO, pagination.Meta, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*StoreItemDTO, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires store dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stores repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateStoreInput) (*StoreDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name required")
	}
	if !input.Vertical.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid store vertical %q", input.Vertical)
	}

	store := &dbmodels.Store{
		Vertical:    input.Vertical,
		Name:        input.Name,
		Description: input.Description,
		Phone:       input.Phone,
		Address:     input.Address,
		OpenHours:   input.OpenHours,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "store_id", store.ID.String()), "store created")
	}
	return FromModel(store), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	store, err := s.findStore(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(store), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]StoreDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	return FromModels(rows), pagination.MetaFor(filter.Page, total), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateStoreInput) (*StoreDTO, error) {
	store, err := s.findStore(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name cannot be empty")
		}
		store.Name = *input.Name
	}
	if input.Description != nil {
		store.Description = input.Description
	}
	if input.Phone != nil {
		store.Phone = input.Phone
	}
	if input.Address != nil {
		store.Address = *input.Address
	}
	if input.OpenHours != nil {
		store.OpenHours = input.OpenHours
	}
	if input.IsActive != nil {
		store.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return FromModel(store), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*StoreItemDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
	}
	store, err := s.findStore(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}

	inStock := true
	if input.InStock != nil {
		inStock = *input.InStock
	}
	item := &dbmodels.StoreItem{
		StoreID:    store.ID,
		Name:       input.Name,
		Category:   input.Category,
		PriceCents: input.PriceCents,
		InStock:    inStock,
		Attributes: input.Attributes,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store item")
	}
	return ItemFromModel(item), nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*StoreItemDTO, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return ItemFromModel(item), nil
}

func (s *service) ListItems(ctx context.Context, filter ItemFilter) ([]StoreItemDTO, pagination.Meta, error) {
	rows, total, err := s.repo.ListItems(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store items")
	}
	return ItemsFromModels(rows), pagination.MetaFor(filter.Page, total), nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*StoreItemDTO, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		item.Name = *input.Name
	}
	if input.Category != nil {
		item.Category = input.Category
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
		}
		item.PriceCents = *input.PriceCents
	}
	if input.InStock != nil {
		item.InStock = *input.InStock
	}
	if input.Attributes != nil {
		item.Attributes = input.Attributes
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store item")
	}
	return ItemFromModel(item), nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteItem(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store item")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "store item not found")
	}
	return nil
}

func (s *service) findStore(ctx context.Context, id uuid.UUID) (*dbmodels.Store, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	store, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find store")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return store, nil
}

func (s *service) findItem(ctx context.Context, id uuid.UUID) (*dbmodels.StoreItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find store item")
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store item not found")
	}
	return item, nil
}
