package newsletter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	common_models "go-briefing/internal/common/models"
	"go-briefing/internal/features/dispatch"
	"go-briefing/internal/features/generation"
	"go-briefing/internal/features/settings"
	"go-briefing/internal/features/system"
	"go-briefing/internal/features/template"

	"go.uber.org/zap"
)

// ErrRunInProgress is returned when a pipeline trigger finds another run
// already active. Triggers are skipped, never queued.
var ErrRunInProgress = errors.New("a pipeline run is already in progress")

// ErrNoChannels is returned when a send is attempted with no delivery
// channel configured
var ErrNoChannels = errors.New("no delivery channels are configured")

type NewsletterService interface {
	RunPipeline(ctx context.Context, articles []common_models.SourceArticle) (*Newsletter, error)
	RunScheduled(ctx context.Context)
	EditNewsletter(ctx context.Context, id string, content *common_models.GeneratedContent) (*Newsletter, error)
	SendNewsletter(ctx context.Context, id string) (*Newsletter, error)
	GetNewsletter(ctx context.Context, id string) (*Newsletter, error)
	ListNewsletters(ctx context.Context) ([]Newsletter, error)
	StageArticles(ctx context.Context, articles []common_models.SourceArticle) error
	ListStagedArticles(ctx context.Context) ([]common_models.SourceArticle, error)
}

type NewsletterServiceImpl struct {
	Repo            NewsletterRepository
	ArticleRepo     ArticleRepository
	SettingsService settings.SettingsService
	Generator       generation.Generator
	Dispatcher      dispatch.Dispatcher
	Hub             *system.EventHub
	Logger          *zap.Logger

	runMu sync.Mutex
}

func NewNewsletterService(
	repo NewsletterRepository,
	articleRepo ArticleRepository,
	settingsService settings.SettingsService,
	generator generation.Generator,
	dispatcher dispatch.Dispatcher,
	hub *system.EventHub,
	logger *zap.Logger,
) NewsletterService {
	return &NewsletterServiceImpl{
		Repo:            repo,
		ArticleRepo:     articleRepo,
		SettingsService: settingsService,
		Generator:       generator,
		Dispatcher:      dispatcher,
		Hub:             hub,
		Logger:          logger,
	}
}

// RunPipeline executes one generation run: snapshot config, generate, render,
// save. At most one run is active at a time; a second trigger gets
// ErrRunInProgress.
func (s *NewsletterServiceImpl) RunPipeline(ctx context.Context, articles []common_models.SourceArticle) (*Newsletter, error) {
	if !s.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.Hub.Publish(system.Event{Type: system.EventRunStarted})
	s.Logger.Info("Pipeline run started", zap.Int("articles", len(articles)))

	content, err := s.Generator.Generate(ctx, snap.SystemInstruction, articles)
	if err != nil {
		s.Hub.Publish(system.Event{Type: system.EventFailed, Detail: err.Error()})
		s.Logger.Error("Generation failed", zap.Error(err))
		return nil, fmt.Errorf("generation: %w", err)
	}

	n := NewNewsletter()
	n.SourceArticles = articles
	if err := n.ApplyGeneration(content); err != nil {
		return nil, err
	}

	html, err := template.Render(content, snap.TemplateStyle, snap.EmailLayout)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	n.RenderedHtml = html

	if err := s.Repo.Save(ctx, n); err != nil {
		return nil, fmt.Errorf("saving newsletter: %w", err)
	}

	s.Hub.Publish(system.Event{Type: system.EventGenerated, NewsletterID: n.ID.Hex()})
	s.Logger.Info("Newsletter generated",
		zap.String("newsletterId", n.ID.Hex()),
		zap.Int("sections", len(content.Sections)))

	return n, nil
}

// RunScheduled is the scheduler entry point: it consumes the staged article
// set and runs the pipeline. A run already in progress means this trigger is
// skipped and logged.
func (s *NewsletterServiceImpl) RunScheduled(ctx context.Context) {
	articles, err := s.ArticleRepo.ListStaged(ctx)
	if err != nil {
		s.Logger.Error("Failed to load staged articles", zap.Error(err))
		return
	}
	if len(articles) == 0 {
		s.Logger.Info("Scheduled run skipped: no staged articles")
		return
	}

	if _, err := s.RunPipeline(ctx, articles); err != nil {
		if errors.Is(err, ErrRunInProgress) {
			s.Logger.Warn("Scheduled run skipped: run in progress")
			return
		}
		s.Logger.Error("Scheduled run failed", zap.Error(err))
		return
	}

	if err := s.ArticleRepo.Clear(ctx); err != nil {
		s.Logger.Error("Failed to clear staged articles", zap.Error(err))
	}
}

func (s *NewsletterServiceImpl) EditNewsletter(ctx context.Context, id string, content *common_models.GeneratedContent) (*Newsletter, error) {
	n, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := n.ApplyEdit(content); err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	html, err := template.Render(content, snap.TemplateStyle, snap.EmailLayout)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	n.RenderedHtml = html

	if err := s.Repo.Update(ctx, n); err != nil {
		return nil, err
	}

	s.Hub.Publish(system.Event{Type: system.EventEdited, NewsletterID: n.ID.Hex()})
	return n, nil
}

// SendNewsletter dispatches a finalized newsletter through all active
// channels and records the per-channel outcomes
func (s *NewsletterServiceImpl) SendNewsletter(ctx context.Context, id string) (*Newsletter, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	n, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status != StatusGenerated && n.Status != StatusEdited {
		return nil, &InvalidTransitionError{From: n.Status, Op: "send"}
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if len(s.Dispatcher.ActiveChannels(snap)) == 0 {
		return nil, ErrNoChannels
	}

	// Re-render with the send-time snapshot so the dispatched document
	// reflects the current style and layout
	html, err := template.Render(n.Content, snap.TemplateStyle, snap.EmailLayout)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	n.RenderedHtml = html

	sentAt := time.Now()
	doc := &dispatch.Document{
		NewsletterID: n.ID.Hex(),
		Title:        n.Title(),
		Html:         html,
		Status:       string(StatusSent),
		SentAt:       sentAt,
	}

	outcomes := s.Dispatcher.Dispatch(ctx, doc, snap)

	results := make(map[string]DeliveryResult, len(outcomes))
	for name, o := range outcomes {
		results[name] = DeliveryResult{Success: o.Success, Error: o.Error, Timestamp: o.Timestamp}
	}

	if err := n.MarkSent(results); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, n); err != nil {
		return nil, err
	}

	if n.Status == StatusSent {
		s.Hub.Publish(system.Event{Type: system.EventSent, NewsletterID: n.ID.Hex()})
		s.Logger.Info("Newsletter sent",
			zap.String("newsletterId", n.ID.Hex()),
			zap.Int("channels", len(results)))
	} else {
		s.Hub.Publish(system.Event{Type: system.EventFailed, NewsletterID: n.ID.Hex()})
		s.Logger.Error("All delivery channels failed",
			zap.String("newsletterId", n.ID.Hex()))
	}

	return n, nil
}

func (s *NewsletterServiceImpl) GetNewsletter(ctx context.Context, id string) (*Newsletter, error) {
	return s.Repo.Get(ctx, id)
}

func (s *NewsletterServiceImpl) ListNewsletters(ctx context.Context) ([]Newsletter, error) {
	return s.Repo.List(ctx)
}

func (s *NewsletterServiceImpl) StageArticles(ctx context.Context, articles []common_models.SourceArticle) error {
	if len(articles) == 0 {
		return errors.New("no articles supplied")
	}
	return s.ArticleRepo.Stage(ctx, articles)
}

func (s *NewsletterServiceImpl) ListStagedArticles(ctx context.Context) ([]common_models.SourceArticle, error) {
	return s.ArticleRepo.ListStaged(ctx)
}

// snapshot captures an immutable copy of the app config for one run
func (s *NewsletterServiceImpl) snapshot(ctx context.Context) (settings.Snapshot, error) {
	config, err := s.SettingsService.GetConfig(ctx)
	if err != nil {
		return settings.Snapshot{}, fmt.Errorf("loading config: %w", err)
	}
	return config.Snapshot(), nil
}
