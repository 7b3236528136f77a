package favorites

import (
	"context"

	"github.com/google/uuid"

	dbmodels "github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

// Toggle action values returned in ToggleResult.
const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

// Service defines favorite bookmarking operations.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, target TargetInput) (*FavoriteDTO, error)
	Toggle(ctx context.Context, userID uuid.UUID, target TargetInput) (*ToggleResult, error)
	IsFavorite(ctx context.Context, userID uuid.UUID, target TargetInput) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (*FavoriteDTO, error)
	List(ctx context.Context, filter ListFilter) ([]FavoriteDTO, pagination.Meta, error)
	Remove(ctx context.Context, id, userID uuid.UUID) error
}

type service struct {
	repo   Repository
	stores StoreLookup
	logg   *logger.Logger
}

// NewService wires favorite dependencies.
func NewService(repo Repository, stores StoreLookup, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "favorites repository required")
	}
	if stores == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "store lookup required")
	}
	return &service{repo: repo, stores: stores, logg: logg}, nil
}

// resolveTarget validates the target and returns the vertical it belongs to.
func (s *service) resolveTarget(ctx context.Context, target TargetInput) (enums.StoreVertical, error) {
	switch target.Kind {
	case enums.FavoriteKindStore:
		if target.StoreID == nil {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "store id required for store favorites")
		}
		if target.ItemID != nil {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "item id not allowed for store favorites")
		}
		store, err := s.stores.Find(ctx, *target.StoreID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find store")
		}
		if store == nil {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return store.Vertical, nil
	case enums.FavoriteKindItem:
		if target.ItemID == nil {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "item id required for item favorites")
		}
		if target.StoreID != nil {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "store id not allowed for item favorites")
		}
		item, err := s.stores.FindItem(ctx, *target.ItemID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find store item")
		}
		if item == nil {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "store item not found")
		}
		store, err := s.stores.Find(ctx, item.StoreID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find item store")
		}
		if store == nil {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return store.Vertical, nil
	default:
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "invalid favorite kind %q", target.Kind)
	}
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, target TargetInput) (*FavoriteDTO, error) {
	vertical, err := s.resolveTarget(ctx, target)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindTarget(ctx, userID, target.StoreID, target.ItemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find favorite")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "already in favorites")
	}

	favorite := &dbmodels.Favorite{
		UserID:   userID,
		Kind:     target.Kind,
		Vertical: vertical,
		StoreID:  target.StoreID,
		ItemID:   target.ItemID,
	}
	if err := s.repo.Create(ctx, favorite); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create favorite")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "favorite_id", favorite.ID.String()), "favorite added")
	}
	return FromModel(favorite), nil
}

func (s *service) Toggle(ctx context.Context, userID uuid.UUID, target TargetInput) (*ToggleResult, error) {
	vertical, err := s.resolveTarget(ctx, target)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindTarget(ctx, userID, target.StoreID, target.ItemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find favorite")
	}
	if existing != nil {
		if _, err := s.repo.Delete(ctx, existing.ID, userID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete favorite")
		}
		return &ToggleResult{Action: ActionRemoved, Favorite: FromModel(existing)}, nil
	}

	favorite := &dbmodels.Favorite{
		UserID:   userID,
		Kind:     target.Kind,
		Vertical: vertical,
		StoreID:  target.StoreID,
		ItemID:   target.ItemID,
	}
	if err := s.repo.Create(ctx, favorite); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create favorite")
	}
	return &ToggleResult{Action: ActionAdded, Favorite: FromModel(favorite)}, nil
}

func (s *service) IsFavorite(ctx context.Context, userID uuid.UUID, target TargetInput) (bool, error) {
	if _, err := s.resolveTarget(ctx, target); err != nil {
		return false, err
	}
	existing, err := s.repo.FindTarget(ctx, userID, target.StoreID, target.ItemID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find favorite")
	}
	return existing != nil, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*FavoriteDTO, error) {
	favorite, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find favorite")
	}
	if favorite == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "favorite not found")
	}
	return FromModel(favorite), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]FavoriteDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	return FromModels(rows), pagination.MetaFor(filter.Page, total), nil
}

func (s *service) Remove(ctx context.Context, id, userID uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete favorite")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "favorite not found")
	}
	return nil
}
