package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go-briefing/internal/features/newsletter"
	"go-briefing/internal/features/settings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SchedulerService fires the pipeline once per configured time-of-day.
// Missed or overlapping triggers are skipped, never queued.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop() error
	Reconfigure(scheduleTime string) error
}

type SchedulerServiceImpl struct {
	SettingsService   settings.SettingsService
	NewsletterService newsletter.NewsletterService
	Logger            *zap.Logger

	scheduler *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
}

func NewSchedulerService(
	settingsService settings.SettingsService,
	newsletterService newsletter.NewsletterService,
	logger *zap.Logger,
) SchedulerService {
	return &SchedulerServiceImpl{
		SettingsService:   settingsService,
		NewsletterService: newsletterService,
		Logger:            logger,
	}
}

// Start registers the configured schedule time and starts the cron runner
func (s *SchedulerServiceImpl) Start(ctx context.Context) error {
	s.mu.Lock()
	s.scheduler = cron.New()
	s.mu.Unlock()

	config, err := s.SettingsService.GetConfig(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := s.Reconfigure(config.ScheduleTime); err != nil {
		return err
	}

	s.scheduler.Start()
	s.Logger.Info("Scheduler started", zap.String("schedule_time", config.ScheduleTime))
	return nil
}

func (s *SchedulerServiceImpl) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}

// Reconfigure cancels the pending fire and registers the new schedule time,
// so a stale time never fires
func (s *SchedulerServiceImpl) Reconfigure(scheduleTime string) error {
	spec, err := CronSpec(scheduleTime)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler == nil {
		return fmt.Errorf("scheduler not initialized")
	}

	if s.entryID != 0 {
		s.scheduler.Remove(s.entryID)
	}

	entryID, err := s.scheduler.AddFunc(spec, func() {
		s.NewsletterService.RunScheduled(context.Background())
	})
	if err != nil {
		return fmt.Errorf("registering schedule: %w", err)
	}

	s.entryID = entryID
	s.Logger.Info("Schedule registered", zap.String("schedule_time", scheduleTime))
	return nil
}

// CronSpec converts an HH:MM time-of-day into a standard daily cron spec
func CronSpec(scheduleTime string) (string, error) {
	if !settings.IsScheduleTime(scheduleTime) {
		return "", fmt.Errorf("invalid schedule time %q: expected HH:MM (24h)", scheduleTime)
	}
	parts := strings.SplitN(scheduleTime, ":", 2)
	hour := strings.TrimPrefix(parts[0], "0")
	minute := strings.TrimPrefix(parts[1], "0")
	if hour == "" {
		hour = "0"
	}
	if minute == "" {
		minute = "0"
	}
	return fmt.Sprintf("%s %s * * *", minute, hour), nil
}
