package repository

import (
	"context"

	"github.com/alexanderramin/autofin/internal/domain"
)

type InteractionRepo interface {
	Create(ctx context.Context, in *domain.Interaction) error
	GetByID(ctx context.Context, id string) (*domain.Interaction, error)
	ListBySession(ctx context.Context, sessionID string) ([]*domain.Interaction, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Interaction, error)
}

// ClaimRepo has the same method set as records.ClaimStore.
type ClaimRepo interface {
	List(ctx context.Context) ([]domain.ClaimRecord, error)
	Append(ctx context.Context, c domain.ClaimRecord) error
}
