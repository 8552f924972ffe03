package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/repository"
	"github.com/user/perf-insights/internal/suggestion"
)

var (
	// ErrInvalidInput marks a request the caller has to fix.
	ErrInvalidInput = errors.New("invalid input")
)

// SettingsSource is the read side of SettingsManager.
type SettingsSource interface {
	Get(ctx context.Context) (entity.Settings, error)
}

// SettingsManager reads and updates the analyzer settings.
type SettingsManager interface {
	SettingsSource
	Update(ctx context.Context, patch entity.SettingsPatch) (entity.Settings, error)
	Reset(ctx context.Context) (entity.Settings, error)
}

type settingsUseCase struct {
	repo repository.SettingsRepository
}

// NewSettingsManager creates a SettingsManager backed by repo.
func NewSettingsManager(repo repository.SettingsRepository) SettingsManager {
	return &settingsUseCase{repo: repo}
}

func (uc *settingsUseCase) Get(ctx context.Context) (entity.Settings, error) {
	stored, err := uc.repo.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return entity.DefaultSettings(), nil
	}
	if err != nil {
		return entity.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return *stored, nil
}

func (uc *settingsUseCase) Update(ctx context.Context, patch entity.SettingsPatch) (entity.Settings, error) {
	current, err := uc.Get(ctx)
	if err != nil {
		return entity.Settings{}, err
	}

	next := current.Apply(patch)
	level := suggestion.ParseLevel(next.SuggestionLevel)
	if !level.Known() {
		return entity.Settings{}, fmt.Errorf("%w: unknown suggestion level %q", ErrInvalidInput, next.SuggestionLevel)
	}
	next.SuggestionLevel = string(level)
	if next.NetworkThrottling == "" {
		next.NetworkThrottling = entity.ThrottleNone
	}
	if !entity.ValidThrottling(next.NetworkThrottling) {
		return entity.Settings{}, fmt.Errorf("%w: unknown network throttling %q", ErrInvalidInput, next.NetworkThrottling)
	}

	if err := uc.repo.Save(ctx, &next); err != nil {
		return entity.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return next, nil
}

func (uc *settingsUseCase) Reset(ctx context.Context) (entity.Settings, error) {
	if err := uc.repo.Delete(ctx); err != nil {
		return entity.Settings{}, fmt.Errorf("failed to reset settings: %w", err)
	}
	return entity.DefaultSettings(), nil
}

// FixedSettings returns a SettingsSource that always yields s.
func FixedSettings(s entity.Settings) SettingsSource {
	return fixedSettings(s)
}

type fixedSettings entity.Settings

func (f fixedSettings) Get(context.Context) (entity.Settings, error) {
	return entity.Settings(f), nil
}
