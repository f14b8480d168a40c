package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ScheduleReloader is notified when the schedule time changes. Implemented by
// the scheduler feature; declared here to avoid a dependency cycle.
type ScheduleReloader interface {
	Reconfigure(scheduleTime string) error
}

type SettingsService interface {
	GetConfig(ctx context.Context) (*AppConfig, error)
	UpdateConfig(ctx context.Context, config AppConfig) error
	SetScheduleReloader(reloader ScheduleReloader)
}

type SettingsServiceImpl struct {
	Repo     SettingsRepository
	Logger   *zap.Logger
	reloader ScheduleReloader
}

func NewSettingsService(repo SettingsRepository, logger *zap.Logger) SettingsService {
	return &SettingsServiceImpl{
		Repo:   repo,
		Logger: logger,
	}
}

// SetScheduleReloader wires the scheduler in after construction
func (s *SettingsServiceImpl) SetScheduleReloader(reloader ScheduleReloader) {
	s.reloader = reloader
}

// GetConfig returns the stored configuration, falling back to defaults when
// nothing has been saved yet
func (s *SettingsServiceImpl) GetConfig(ctx context.Context) (*AppConfig, error) {
	config, err := s.Repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if config == nil {
		defaults := DefaultConfig()
		return &defaults, nil
	}
	return config, nil
}

func (s *SettingsServiceImpl) UpdateConfig(ctx context.Context, config AppConfig) error {
	if !IsScheduleTime(config.ScheduleTime) {
		return fmt.Errorf("invalid schedule_time %q: expected HH:MM (24h)", config.ScheduleTime)
	}
	if err := config.TemplateStyle.Validate(); err != nil {
		return err
	}
	if config.EmailLayout.HeaderTitle == "" {
		return errors.New("header_title is required")
	}

	old, _ := s.GetConfig(ctx)

	config.UpdatedAt = time.Now()
	if err := s.Repo.Upsert(ctx, &config); err != nil {
		return err
	}

	if s.reloader != nil && (old == nil || old.ScheduleTime != config.ScheduleTime) {
		if err := s.reloader.Reconfigure(config.ScheduleTime); err != nil {
			s.Logger.Error("Failed to reconfigure scheduler", zap.Error(err))
		}
	}

	s.Logger.Info("App config updated", zap.String("schedule_time", config.ScheduleTime))
	return nil
}
