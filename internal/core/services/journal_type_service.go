package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/google/uuid"
)

type journalTypeService struct {
	BaseService
	typeRepo portsrepo.JournalTypeRepositoryFacade
}

// NewJournalTypeService creates the journal type service.
func NewJournalTypeService(typeRepo portsrepo.JournalTypeRepositoryFacade, opts ...ServiceOption) portssvc.JournalTypeSvc {
	return &journalTypeService{BaseService: newBase(opts), typeRepo: typeRepo}
}

var _ portssvc.JournalTypeSvc = (*journalTypeService)(nil)

func (s *journalTypeService) ListJournalTypes(ctx context.Context, actor domain.Actor) ([]domain.JournalType, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalRead); err != nil {
		return nil, err
	}
	types, err := s.typeRepo.ListJournalTypes(ctx, actor.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal types: %w", err)
	}
	return types, nil
}

// ApplyJournalTypes upserts each definition by code, keeping ids of existing types.
func (s *journalTypeService) ApplyJournalTypes(ctx context.Context, actor domain.Actor, types []domain.JournalType) ([]domain.JournalType, error) {
	if err := s.Authorize(ctx, actor, domain.PermTypeManage); err != nil {
		return nil, err
	}

	now := s.Now()
	applied := make([]domain.JournalType, 0, len(types))
	for _, t := range types {
		t.Code = strings.ToUpper(strings.TrimSpace(t.Code))
		if t.Code == "" {
			return nil, fmt.Errorf("%w: journal type code is required", apperrors.ErrValidation)
		}
		if !t.Kind.Valid() {
			return nil, fmt.Errorf("%w: journal type %s has unknown kind %q", apperrors.ErrValidation, t.Code, t.Kind)
		}
		t.OrganizationID = actor.OrganizationID

		existing, err := s.typeRepo.FindJournalTypeByCode(ctx, actor.OrganizationID, t.Code)
		switch {
		case err == nil:
			t.JournalTypeID = existing.JournalTypeID
			t.CreatedAt = existing.CreatedAt
			t.CreatedBy = existing.CreatedBy
		case errors.Is(err, apperrors.ErrNotFound):
			t.JournalTypeID = uuid.NewString()
			t.CreatedAt = now
			t.CreatedBy = actor.UserID
		default:
			return nil, fmt.Errorf("failed to look up journal type %s: %w", t.Code, err)
		}
		t.LastUpdatedAt = now
		t.LastUpdatedBy = actor.UserID

		if err := s.typeRepo.UpsertJournalType(ctx, t); err != nil {
			s.LogError(ctx, err, "Failed to save journal type", slog.String("code", t.Code))
			return nil, fmt.Errorf("failed to save journal type %s: %w", t.Code, err)
		}
		applied = append(applied, t)
	}
	s.LogInfo(ctx, "Journal types applied", slog.Int("count", len(applied)))
	return applied, nil
}
