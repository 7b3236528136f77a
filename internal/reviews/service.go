package reviews

import (
	"context"

	"github.com/google/uuid"

	dbmodels "github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

// Service defines review operations.
type Service interface {
	Create(ctx context.Context, input CreateReviewInput) (*ReviewDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ReviewDTO, error)
	ListForTarget(ctx context.Context, targetType enums.ReviewTarget, targetID uuid.UUID, page pagination.Params) ([]ReviewDTO, pagination.Meta, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context, targetType enums.ReviewTarget, targetID uuid.UUID) (*TargetSummary, error)
}

type service struct {
	repo         Repository
	storeRatings RatingUpdater
	riderRatings RatingUpdater
	logg         *logger.Logger
}

// NewService wires review dependencies. The rating updaters receive the
// recomputed aggregate whenever a store or rider review changes.
func NewService(repo Repository, storeRatings, riderRatings RatingUpdater, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reviews repository required")
	}
	return &service{
		repo:         repo,
		storeRatings: storeRatings,
		riderRatings: riderRatings,
		logg:         logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateReviewInput) (*ReviewDTO, error) {
	if !input.TargetType.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid review target %q", input.TargetType)
	}
	if input.TargetID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review target id required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review user id required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	review := &dbmodels.Review{
		UserID:     input.UserID,
		TargetType: input.TargetType,
		TargetID:   input.TargetID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}

	s.refreshTarget(ctx, review.TargetType, review.TargetID)

	if s.logg != nil {
		lctx := s.logg.WithFields(ctx, map[string]any{
			"review_id":   review.ID.String(),
			"target_type": string(review.TargetType),
			"target_id":   review.TargetID.String(),
		})
		s.logg.Info(lctx, "review created")
	}
	return FromModel(review), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ReviewDTO, error) {
	review, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(review), nil
}

func (s *service) ListForTarget(ctx context.Context, targetType enums.ReviewTarget, targetID uuid.UUID, page pagination.Params) ([]ReviewDTO, pagination.Meta, error) {
	if !targetType.IsValid() {
		return nil, pagination.Meta{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid review target %q", targetType)
	}
	rows, total, err := s.repo.ListByTarget(ctx, targetType, targetID, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return FromModels(rows), pagination.MetaFor(page, total), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	review, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}

	s.refreshTarget(ctx, review.TargetType, review.TargetID)
	return nil
}

func (s *service) Summary(ctx context.Context, targetType enums.ReviewTarget, targetID uuid.UUID) (*TargetSummary, error) {
	if !targetType.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid review target %q", targetType)
	}
	avg, count, err := s.repo.AggregateForTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate reviews")
	}
	return &TargetSummary{
		TargetType:  targetType,
		TargetID:    targetID,
		Rating:      avg,
		ReviewCount: count,
	}, nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*dbmodels.Review, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review id required")
	}
	review, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find review")
	}
	if review == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	return review, nil
}

// refreshTarget pushes the recomputed aggregate onto the reviewed entity.
// Failures are logged and do not fail the review write.
func (s *service) refreshTarget(ctx context.Context, targetType enums.ReviewTarget, targetID uuid.UUID) {
	var sink RatingUpdater
	switch targetType {
	case enums.ReviewTargetStore:
		sink = s.storeRatings
	case enums.ReviewTargetRider:
		sink = s.riderRatings
	}
	if sink == nil {
		return
	}

	avg, count, err := s.repo.AggregateForTarget(ctx, targetType, targetID)
	if err == nil {
		err = sink.UpdateRating(ctx, targetID, avg, count)
	}
	if err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithField(ctx, "target_id", targetID.String()), "refresh target rating", err)
	}
}
