package crmlog

import (
	"context"
	"fmt"

	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/repository"
	"github.com/google/uuid"
)

// DBSink stores interactions in the interactions table.
type DBSink struct {
	repo repository.InteractionRepo
}

func NewDBSink(repo repository.InteractionRepo) *DBSink {
	return &DBSink{repo: repo}
}

func (s *DBSink) Record(ctx context.Context, in domain.Interaction) error {
	if in.ID == "" {
		in.ID = uuid.New().String()
	}
	if err := s.repo.Create(ctx, &in); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCollaborator, err)
	}
	return nil
}
