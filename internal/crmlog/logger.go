// Package crmlog records every conversational turn for later review.
package crmlog

import (
	"context"
	"errors"
	"sync"

	"github.com/alexanderramin/autofin/internal/domain"
)

// Logger records one interaction. Callers treat failures as non-fatal.
type Logger interface {
	Record(ctx context.Context, in domain.Interaction) error
}

// Nop discards interactions.
type Nop struct{}

func (Nop) Record(context.Context, domain.Interaction) error { return nil }

// Multi fans an interaction out to every sink and joins their errors.
type Multi []Logger

func (m Multi) Record(ctx context.Context, in domain.Interaction) error {
	var errs []error
	for _, l := range m {
		if l == nil {
			continue
		}
		if err := l.Record(ctx, in); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MemorySink keeps interactions in memory.
type MemorySink struct {
	mu    sync.Mutex
	items []domain.Interaction
}

func (s *MemorySink) Record(_ context.Context, in domain.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, in)
	return nil
}

// Interactions returns a copy of everything recorded so far.
func (s *MemorySink) Interactions() []domain.Interaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Interaction, len(s.items))
	copy(out, s.items)
	return out
}
