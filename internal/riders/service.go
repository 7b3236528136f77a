package riders

import (
	"context"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/config"
	"github.com/velomart/velomart-backend/pkg/db"
	dbmodels "github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/pagination"
	"github.com/velomart/velomart-backend/pkg/security"
	"github.com/velomart/velomart-backend/pkg/types"
)

// Service defines rider directory operations.
type Service interface {
	Create(ctx context.Context, input CreateRiderInput) (*RiderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*RiderDTO, error)
	List(ctx context.Context, filter ListFilter) ([]RiderDTO, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateRiderInput) (*RiderDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status enums.RiderStatus) (*RiderDTO, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, loc types.Location) error
}

type service struct {
	repo        Repository
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewService wires rider directory dependencies.
func NewService(repo Repository, passwordCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "riders repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateRiderInput) (*RiderDTO, error) {
	if input.Name == "" || input.Phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and phone are required")
	}
	if !input.VehicleType.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid vehicle type %q", input.VehicleType)
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hashing password")
	}

	rider := &dbmodels.Rider{
		Name:          input.Name,
		Phone:         input.Phone,
		Email:         input.Email,
		PasswordHash:  hash,
		VehicleType:   input.VehicleType,
		VehicleNumber: input.VehicleNumber,
		Status:        enums.RiderStatusOffline,
	}
	if err := s.repo.Create(ctx, rider); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "rider with this phone already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rider")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithRiderID(ctx, rider.ID.String()), "rider registered")
	}
	return FromModel(rider), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RiderDTO, error) {
	rider, err := s.findRider(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(rider), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]RiderDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list riders")
	}
	return FromModels(rows), pagination.MetaFor(filter.Page, total), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateRiderInput) (*RiderDTO, error) {
	rider, err := s.findRider(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		rider.Name = *input.Name
	}
	if input.Email != nil {
		rider.Email = input.Email
	}
	if input.VehicleType != nil {
		if !input.VehicleType.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid vehicle type %q", *input.VehicleType)
		}
		rider.VehicleType = *input.VehicleType
	}
	if input.VehicleNumber != nil {
		rider.VehicleNumber = input.VehicleNumber
	}

	if err := s.repo.Update(ctx, rider); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rider")
	}
	return FromModel(rider), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete rider")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
	}
	return nil
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.RiderStatus) (*RiderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid rider status %q", status)
	}
	rider, err := s.findRider(ctx, id)
	if err != nil {
		return nil, err
	}

	available := status == enums.RiderStatusAvailable
	if err := s.repo.SetStatus(ctx, id, status, available); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set rider status")
	}
	rider.Status = status
	rider.IsAvailable = available
	return FromModel(rider), nil
}

func (s *service) UpdateLocation(ctx context.Context, id uuid.UUID, loc types.Location) error {
	if _, err := s.findRider(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateLocation(ctx, id, loc); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rider location")
	}
	return nil
}

func (s *service) findRider(ctx context.Context, id uuid.UUID) (*dbmodels.Rider, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rider id required")
	}
	rider, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find rider")
	}
	if rider == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
	}
	return rider, nil
}
