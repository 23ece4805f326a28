package dto

import (
	"fmt"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// JournalTypeDefinition declares one voucher type. It is read from JSON bodies and YAML files alike.
type JournalTypeDefinition struct {
	Code     string             `json:"code" yaml:"code" binding:"required,max=10"`
	Name     string             `json:"name" yaml:"name" binding:"required,max=100"`
	Kind     domain.JournalKind `json:"kind" yaml:"kind" binding:"required"`
	Rules    []domain.RuleSpec  `json:"rules" yaml:"rules"`
	IsActive *bool              `json:"isActive,omitempty" yaml:"active,omitempty"`
}

// ApplyJournalTypesRequest upserts a set of definitions by code.
type ApplyJournalTypesRequest struct {
	Types []JournalTypeDefinition `json:"types" yaml:"types" binding:"required,min=1,dive"`
}

// ToDomain parses the rule specs; an unknown rule kind is a validation failure.
func (d JournalTypeDefinition) ToDomain() (domain.JournalType, error) {
	rules, err := domain.ParseRules(d.Rules)
	if err != nil {
		return domain.JournalType{}, fmt.Errorf("%w: journal type %s: %v", apperrors.ErrValidation, d.Code, err)
	}
	active := true
	if d.IsActive != nil {
		active = *d.IsActive
	}
	return domain.JournalType{
		Code:     d.Code,
		Name:     d.Name,
		Kind:     d.Kind,
		Rules:    rules,
		IsActive: active,
	}, nil
}

// ToDomain converts every definition, stopping at the first invalid one.
func (r ApplyJournalTypesRequest) ToDomain() ([]domain.JournalType, error) {
	types := make([]domain.JournalType, 0, len(r.Types))
	for _, d := range r.Types {
		t, err := d.ToDomain()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// JournalTypeResponse defines the data returned for a journal type.
type JournalTypeResponse struct {
	JournalTypeID string             `json:"journalTypeID"`
	Code          string             `json:"code"`
	Name          string             `json:"name"`
	Kind          domain.JournalKind `json:"kind"`
	Rules         []domain.RuleSpec  `json:"rules"`
	IsActive      bool               `json:"isActive"`
}

func ToJournalTypeResponses(types []domain.JournalType) []JournalTypeResponse {
	out := make([]JournalTypeResponse, len(types))
	for i, t := range types {
		out[i] = JournalTypeResponse{
			JournalTypeID: t.JournalTypeID,
			Code:          t.Code,
			Name:          t.Name,
			Kind:          t.Kind,
			Rules:         t.Rules.Specs(),
			IsActive:      t.IsActive,
		}
	}
	return out
}
