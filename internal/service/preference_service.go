package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/repository"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

// PreferenceService reads the display preference on first use and writes it on every change.
type PreferenceService struct {
	repo   repository.PreferenceRepository
	logger *zap.Logger

	mu     sync.Mutex
	loaded map[string]domain.DisplayPreference
}

// PreferenceUpdate carries the fields an operator may change. Nil leaves a field as is.
type PreferenceUpdate struct {
	Theme  *string
	Locale *string
}

// NewPreferenceService creates the service.
func NewPreferenceService(repo repository.PreferenceRepository, logger *zap.Logger) *PreferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceService{repo: repo, logger: logger, loaded: make(map[string]domain.DisplayPreference)}
}

// Get returns the operator's preference, or the default when none is stored.
func (p *PreferenceService) Get(ctx context.Context, operatorID string) (domain.DisplayPreference, error) {
	p.mu.Lock()
	if pref, ok := p.loaded[operatorID]; ok {
		p.mu.Unlock()
		return pref, nil
	}
	p.mu.Unlock()

	stored, err := p.repo.Get(ctx, operatorID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		pref := domain.DefaultDisplayPreference()
		p.remember(operatorID, pref)
		return pref, nil
	case err != nil:
		return domain.DisplayPreference{}, apperrors.NewInternalError(err)
	}
	p.remember(operatorID, *stored)
	return *stored, nil
}

// Update applies and persists a change.
func (p *PreferenceService) Update(ctx context.Context, operatorID string, in PreferenceUpdate) (domain.DisplayPreference, error) {
	pref, err := p.Get(ctx, operatorID)
	if err != nil {
		return domain.DisplayPreference{}, err
	}
	if in.Theme != nil {
		theme := domain.Theme(strings.ToLower(strings.TrimSpace(*in.Theme)))
		if theme != domain.ThemeLight && theme != domain.ThemeDark {
			return domain.DisplayPreference{}, apperrors.NewValidationError("Tema inválido", map[string]any{"theme": *in.Theme})
		}
		pref.Theme = theme
	}
	if in.Locale != nil {
		locale := strings.TrimSpace(*in.Locale)
		if locale == "" {
			return domain.DisplayPreference{}, apperrors.NewValidationError("Idioma inválido", map[string]any{"locale": *in.Locale})
		}
		pref.Locale = locale
	}

	if err := p.repo.Save(ctx, operatorID, &pref); err != nil {
		return domain.DisplayPreference{}, apperrors.NewInternalError(err)
	}
	p.remember(operatorID, pref)
	p.logger.Info("display preference updated", zap.String("operator", operatorID), zap.String("theme", string(pref.Theme)))
	return pref, nil
}

func (p *PreferenceService) remember(operatorID string, pref domain.DisplayPreference) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded[operatorID] = pref
}
