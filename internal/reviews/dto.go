package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
)

// ReviewDTO is the API representation of a review.
type ReviewDTO struct {
	ID         uuid.UUID          `json:"id"`
	UserID     uuid.UUID          `json:"userId"`
	TargetType enums.ReviewTarget `json:"targetType"`
	TargetID   uuid.UUID          `json:"targetId"`
	Rating     int                `json:"rating"`
	Comment    *string            `json:"comment,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// CreateReviewInput is the payload for leaving a review.
type CreateReviewInput struct {
	UserID     uuid.UUID          `json:"userId" validate:"required"`
	TargetType enums.ReviewTarget `json:"targetType" validate:"required"`
	TargetID   uuid.UUID          `json:"targetId" validate:"required"`
	Rating     int                `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string            `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// TargetSummary reports the aggregate rating for a single target.
type TargetSummary struct {
	TargetType  enums.ReviewTarget `json:"targetType"`
	TargetID    uuid.UUID          `json:"targetId"`
	Rating      float64            `json:"rating"`
	ReviewCount int                `json:"reviewCount"`
}

// FromModel converts a database review into its DTO.
func FromModel(m *models.Review) *ReviewDTO {
	return &ReviewDTO{
		ID:         m.ID,
		UserID:     m.UserID,
		TargetType: m.TargetType,
		TargetID:   m.TargetID,
		Rating:     m.Rating,
		Comment:    m.Comment,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// FromModels converts a slice of database reviews into DTOs.
func FromModels(rows []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
