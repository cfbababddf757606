package services

import (
	"context"

	"github.com/abrezinsky/bracketview/internal/logger"
	"github.com/abrezinsky/bracketview/internal/repository"
)

// Setting keys
const (
	SettingStreamName    = "stream_name"
	SettingBaseURL       = "base_url"
	SettingLastActiveSet = "last_active_set"
)

// SettingsServicer defines the interface for runtime settings
type SettingsServicer interface {
	GetStreamName(ctx context.Context) (string, error)
	SetStreamName(ctx context.Context, name string) error
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	GetLastActiveSet(ctx context.Context) (string, error)
	SetLastActiveSet(ctx context.Context, id string) error
	AllSettings(ctx context.Context) (map[string]interface{}, error)
	UpdateSettings(ctx context.Context, settings Settings) error
}

// SettingsService stores operator overrides that survive restarts. Values
// left unset fall back to the configured defaults.
type SettingsService struct {
	log      logger.Logger
	repo     repository.SettingsRepository
	defaults Settings
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository, defaults Settings) *SettingsService {
	return &SettingsService{log: log, repo: repo, defaults: defaults}
}

// get returns the stored value of key, or fallback when none is stored
func (s *SettingsService) get(ctx context.Context, key, fallback string) (string, error) {
	value, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		if err == repository.ErrNotFound {
			return fallback, nil
		}
		return "", err // Propagate database errors
	}
	if value == "" {
		return fallback, nil
	}
	return value, nil
}

// GetStreamName returns the stream whose queue drives the overlay
func (s *SettingsService) GetStreamName(ctx context.Context) (string, error) {
	return s.get(ctx, SettingStreamName, s.defaults.StreamName)
}

// SetStreamName overrides the configured stream name
func (s *SettingsService) SetStreamName(ctx context.Context, name string) error {
	return s.repo.SetSetting(ctx, SettingStreamName, name)
}

// GetBaseURL returns the public base URL encoded into QR codes
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	return s.get(ctx, SettingBaseURL, s.defaults.BaseURL)
}

// SetBaseURL overrides the configured public base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, SettingBaseURL, url)
}

// GetLastActiveSet returns the last set seen on stream, "" when none
func (s *SettingsService) GetLastActiveSet(ctx context.Context) (string, error) {
	return s.get(ctx, SettingLastActiveSet, "")
}

// SetLastActiveSet persists the last set seen on stream
func (s *SettingsService) SetLastActiveSet(ctx context.Context, id string) error {
	return s.repo.SetSetting(ctx, SettingLastActiveSet, id)
}

// AllSettings returns the effective settings as a map
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	settings := make(map[string]interface{})

	stream, err := s.GetStreamName(ctx)
	if err != nil {
		return nil, err
	}
	settings[SettingStreamName] = stream

	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	settings[SettingBaseURL] = baseURL

	last, err := s.GetLastActiveSet(ctx)
	if err != nil {
		return nil, err
	}
	settings[SettingLastActiveSet] = last

	return settings, nil
}

// Settings represents application settings for update operations
type Settings struct {
	StreamName string `json:"stream_name"`
	BaseURL    string `json:"base_url"`
}

// UpdateSettings stores every non-empty field
func (s *SettingsService) UpdateSettings(ctx context.Context, settings Settings) error {
	if settings.StreamName != "" {
		if err := s.SetStreamName(ctx, settings.StreamName); err != nil {
			return err
		}
		s.log.Info("Stream name changed", "stream", settings.StreamName)
	}
	if settings.BaseURL != "" {
		if err := s.SetBaseURL(ctx, settings.BaseURL); err != nil {
			return err
		}
	}
	return nil
}

var _ SettingsServicer = (*SettingsService)(nil)
