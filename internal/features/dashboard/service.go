package dashboard

import (
	"context"
	"time"

	"go-briefing/internal/features/newsletter"
	"go-briefing/internal/features/scheduler"
	"go-briefing/internal/features/settings"
)

// Stats summarizes the newsletter collection for the dashboard screen
type Stats struct {
	Total      int                       `json:"total"`
	ByStatus   map[newsletter.Status]int `json:"by_status"`
	LastSentAt *time.Time                `json:"last_sent_at,omitempty"`
	NextRunAt  *time.Time                `json:"next_run_at,omitempty"`
}

type DashboardService interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type DashboardServiceImpl struct {
	Repo            newsletter.NewsletterRepository
	SettingsService settings.SettingsService
}

func NewDashboardService(repo newsletter.NewsletterRepository, settingsService settings.SettingsService) DashboardService {
	return &DashboardServiceImpl{
		Repo:            repo,
		SettingsService: settingsService,
	}
}

func (s *DashboardServiceImpl) GetStats(ctx context.Context) (*Stats, error) {
	newsletters, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Total:    len(newsletters),
		ByStatus: make(map[newsletter.Status]int),
	}

	for _, n := range newsletters {
		stats.ByStatus[n.Status]++
		if n.SentAt != nil && (stats.LastSentAt == nil || n.SentAt.After(*stats.LastSentAt)) {
			stats.LastSentAt = n.SentAt
		}
	}

	if config, err := s.SettingsService.GetConfig(ctx); err == nil {
		if next, err := scheduler.NextFire(config.ScheduleTime, time.Now()); err == nil {
			stats.NextRunAt = &next
		}
	}

	return stats, nil
}
