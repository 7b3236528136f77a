package favorites

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
)

type stubFavoriteRepo struct {
	favorites map[uuid.UUID]*models.Favorite
}

func newStubFavoriteRepo() *stubFavoriteRepo {
	return &stubFavoriteRepo{favorites: map[uuid.UUID]*models.Favorite{}}
}

func (s *stubFavoriteRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubFavoriteRepo) Create(ctx context.Context, favorite *models.Favorite) error {
	if favorite.ID == uuid.Nil {
		favorite.ID = uuid.New()
	}
	copied := *favorite
	s.favorites[favorite.ID] = &copied
	return nil
}

func (s *stubFavoriteRepo) Find(ctx context.Context, id uuid.UUID) (*models.Favorite, error) {
	favorite, ok := s.favorites[id]
	if !ok {
		return nil, nil
	}
	copied := *favorite
	return &copied, nil
}

func (s *stubFavoriteRepo) FindTarget(ctx context.Context, userID uuid.UUID, storeID, itemID *uuid.UUID) (*models.Favorite, error) {
	for _, favorite := range s.favorites {
		if favorite.UserID != userID {
			continue
		}
		if storeID != nil && favorite.StoreID != nil && *favorite.StoreID == *storeID {
			copied := *favorite
			return &copied, nil
		}
		if itemID != nil && favorite.ItemID != nil && *favorite.ItemID == *itemID {
			copied := *favorite
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *stubFavoriteRepo) List(ctx context.Context, params ListFilter) ([]models.Favorite, int64, error) {
	var rows []models.Favorite
	for _, favorite := range s.favorites {
		if favorite.UserID != params.UserID {
			continue
		}
		if params.Kind != nil && favorite.Kind != *params.Kind {
			continue
		}
		if params.Vertical != nil && favorite.Vertical != *params.Vertical {
			continue
		}
		rows = append(rows, *favorite)
	}
	return rows, int64(len(rows)), nil
}

func (s *stubFavoriteRepo) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	favorite, ok := s.favorites[id]
	if !ok || favorite.UserID != userID {
		return false, nil
	}
	delete(s.favorites, id)
	return true, nil
}

type stubStoreLookup struct {
	stores map[uuid.UUID]*models.Store
	items  map[uuid.UUID]*models.StoreItem
}

func newStubStoreLookup() *stubStoreLookup {
	return &stubStoreLookup{
		stores: map[uuid.UUID]*models.Store{},
		items:  map[uuid.UUID]*models.StoreItem{},
	}
}

func (s *stubStoreLookup) Find(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	return s.stores[id], nil
}

func (s *stubStoreLookup) FindItem(ctx context.Context, id uuid.UUID) (*models.StoreItem, error) {
	return s.items[id], nil
}

func (s *stubStoreLookup) addStore(vertical enums.StoreVertical) *models.Store {
	store := &models.Store{ID: uuid.New(), Vertical: vertical, Name: "Store", IsActive: true}
	s.stores[store.ID] = store
	return store
}

func (s *stubStoreLookup) addItem(storeID uuid.UUID) *models.StoreItem {
	item := &models.StoreItem{ID: uuid.New(), StoreID: storeID, Name: "Item", PriceCents: 100, InStock: true}
	s.items[item.ID] = item
	return item
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected application error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func newFavoriteService(t *testing.T) (Service, *stubFavoriteRepo, *stubStoreLookup) {
	t.Helper()
	repo := newStubFavoriteRepo()
	lookup := newStubStoreLookup()
	svc, err := NewService(repo, lookup, nil)
	require.NoError(t, err)
	return svc, repo, lookup
}

func TestAddStoreFavorite(t *testing.T) {
	svc, _, lookup := newFavoriteService(t)
	store := lookup.addStore(enums.StoreVerticalGrocery)
	userID := uuid.New()

	dto, err := svc.Add(context.Background(), userID, TargetInput{Kind: enums.FavoriteKindStore, StoreID: &store.ID})
	require.NoError(t, err)
	assert.Equal(t, enums.FavoriteKindStore, dto.Kind)
	assert.Equal(t, enums.StoreVerticalGrocery, dto.Vertical)
	require.NotNil(t, dto.StoreID)
	assert.Equal(t, store.ID, *dto.StoreID)
}

func TestAddItemFavoriteInheritsVertical(t *testing.T) {
	svc, _, lookup := newFavoriteService(t)
	store := lookup.addStore(enums.StoreVerticalPharmacy)
	item := lookup.addItem(store.ID)

	dto, err := svc.Add(context.Background(), uuid.New(), TargetInput{Kind: enums.FavoriteKindItem, ItemID: &item.ID})
	require.NoError(t, err)
	assert.Equal(t, enums.StoreVerticalPharmacy, dto.Vertical)
}

func TestAddFavoriteRejectsDuplicate(t *testing.T) {
	svc, _, lookup := newFavoriteService(t)
	store := lookup.addStore(enums.StoreVerticalGrocery)
	userID := uuid.New()
	target := TargetInput{Kind: enums.FavoriteKindStore, StoreID: &store.ID}

	_, err := svc.Add(context.Background(), userID, target)
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), userID, target)
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestAddFavoriteValidatesTarget(t *testing.T) {
	svc, _, lookup := newFavoriteService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Add(ctx, userID, TargetInput{Kind: enums.FavoriteKind("wishlist")})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Add(ctx, userID, TargetInput{Kind: enums.FavoriteKindStore})
	expectCode(t, err, pkgerrors.CodeValidation)

	missing := uuid.New()
	_, err = svc.Add(ctx, userID, TargetInput{Kind: enums.FavoriteKindStore, StoreID: &missing})
	expectCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Add(ctx, userID, TargetInput{Kind: enums.FavoriteKindItem, ItemID: &missing})
	expectCode(t, err, pkgerrors.CodeNotFound)

	store := lookup.addStore(enums.StoreVerticalGrocery)
	item := lookup.addItem(store.ID)
	_, err = svc.Add(ctx, userID, TargetInput{Kind: enums.FavoriteKindStore, StoreID: &store.ID, ItemID: &item.ID})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestToggleFavoriteAddsThenRemoves(t *testing.T) {
	svc, repo, lookup := newFavoriteService(t)
	store := lookup.addStore(enums.StoreVerticalClothing)
	userID := uuid.New()
	target := TargetInput{Kind: enums.FavoriteKindStore, StoreID: &store.ID}

	result, err := svc.Toggle(context.Background(), userID, target)
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, result.Action)
	require.NotNil(t, result.Favorite)
	assert.Len(t, repo.favorites, 1)

	result, err = svc.Toggle(context.Background(), userID, target)
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, result.Action)
	assert.Empty(t, repo.favorites)
}

func TestIsFavorite(t *testing.T) {
	svc, _, lookup := newFavoriteService(t)
	store := lookup.addStore(enums.StoreVerticalGrocery)
	userID := uuid.New()
	target := TargetInput{Kind: enums.FavoriteKindStore, StoreID: &store.ID}

	found, err := svc.IsFavorite(context.Background(), userID, target)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = svc.Add(context.Background(), userID, target)
	require.NoError(t, err)

	found, err = svc.IsFavorite(context.Background(), userID, target)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestRemoveFavoriteNotFound(t *testing.T) {
	svc, _, _ := newFavoriteService(t)
	err := svc.Remove(context.Background(), uuid.New(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}
