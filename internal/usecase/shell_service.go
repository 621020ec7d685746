package usecase

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"chartgo/internal/domain"
	"chartgo/internal/engine"
	"chartgo/pkg/logger"
	"chartgo/pkg/metrics"
)

// ShellService owns the campaign shell session: building shells from
// reviewed rows, editing their layers and creatives, and exporting them.
type ShellService struct {
	repo         domain.ShellRepository
	exportClient domain.ExportClient
	logger       *logger.Logger
	metrics      *metrics.Metrics

	// serializes read-modify-write edits against the repository
	mu sync.Mutex
}

func NewShellService(
	repo domain.ShellRepository,
	exportClient domain.ExportClient,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *ShellService {
	return &ShellService{
		repo:         repo,
		exportClient: exportClient,
		logger:       logger,
		metrics:      metrics,
	}
}

// BuildShells replaces the session with one shell per selected row.
func (s *ShellService) BuildShells(ctx context.Context, rows []domain.NormalizedRow) ([]domain.CampaignShell, error) {
	log := s.logger.WithContext(ctx)

	shells := engine.BuildShells(rows)
	if len(shells) == 0 {
		log.WithField("rows", len(rows)).Warn("No rows selected for shell building")
		return nil, domain.ErrNothingSelected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.ReplaceAll(ctx, shells); err != nil {
		log.WithError(err).Error("Failed to store campaign shells")
		return nil, fmt.Errorf("failed to store campaign shells: %w", err)
	}

	s.metrics.RecordShellsBuilt(len(shells))
	s.metrics.SetShellsStored(len(shells))

	log.WithFields(map[string]any{
		"rows":   len(rows),
		"shells": len(shells),
	}).Info("Built campaign shells")

	return shells, nil
}

func (s *ShellService) List(ctx context.Context, filter domain.ShellFilter) (*domain.ShellsResponse, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, fmt.Errorf("%q: %w", filter.Category, domain.ErrInvalidCategory)
	}

	response, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to list campaign shells")
		return nil, fmt.Errorf("failed to list campaign shells: %w", err)
	}

	return response, nil
}

func (s *ShellService) Get(ctx context.Context, id string) (*domain.CampaignShell, error) {
	return s.repo.Get(ctx, id)
}

func (s *ShellService) UpdateShell(ctx context.Context, id string, update domain.ShellUpdate) (*domain.CampaignShell, error) {
	if update.Category != nil && !update.Category.Valid() {
		return nil, fmt.Errorf("%q: %w", *update.Category, domain.ErrInvalidCategory)
	}

	return s.mutate(ctx, id, "update_shell", func(shell *domain.CampaignShell) error {
		setString(&shell.Name, update.Name)
		setString(&shell.AccuticsCampaignName, update.AccuticsCampaignName)
		setString(&shell.StartDate, update.StartDate)
		setString(&shell.EndDate, update.EndDate)
		if update.Category != nil {
			shell.Category = *update.Category
		}
		return nil
	})
}

func (s *ShellService) AddTargetingLayer(ctx context.Context, shellID, audience string) (*domain.TargetingLayer, error) {
	layer := engine.NewTargetingLayer(audience)

	if _, err := s.mutate(ctx, shellID, "add_layer", func(shell *domain.CampaignShell) error {
		shell.TargetingLayers = append(shell.TargetingLayers, layer)
		return nil
	}); err != nil {
		return nil, err
	}

	return &layer, nil
}

// DuplicateTargetingLayer copies a layer with all its creatives under new
// IDs and inserts it right after the source. A non-empty audience renames it.
func (s *ShellService) DuplicateTargetingLayer(ctx context.Context, shellID, layerID string, audience *string) (*domain.TargetingLayer, error) {
	var clone domain.TargetingLayer

	if _, err := s.mutate(ctx, shellID, "duplicate_layer", func(shell *domain.CampaignShell) error {
		idx := layerIndex(shell, layerID)
		if idx < 0 {
			return fmt.Errorf("layer %s: %w", layerID, domain.ErrLayerNotFound)
		}
		clone = engine.CloneTargetingLayer(shell.TargetingLayers[idx])
		setNonEmpty(&clone.AudienceName, audience)
		shell.TargetingLayers = slices.Insert(shell.TargetingLayers, idx+1, clone)
		return nil
	}); err != nil {
		return nil, err
	}

	return &clone, nil
}

func (s *ShellService) UpdateTargetingLayer(ctx context.Context, shellID, layerID string, update domain.LayerUpdate) (*domain.TargetingLayer, error) {
	var updated domain.TargetingLayer

	if _, err := s.mutate(ctx, shellID, "update_layer", func(shell *domain.CampaignShell) error {
		layer := shell.Layer(layerID)
		if layer == nil {
			return fmt.Errorf("layer %s: %w", layerID, domain.ErrLayerNotFound)
		}
		setString(&layer.AudienceName, update.AudienceName)
		setString(&layer.AccuticsLineItem, update.AccuticsLineItem)
		updated = *layer
		return nil
	}); err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *ShellService) DeleteTargetingLayer(ctx context.Context, shellID, layerID string) error {
	_, err := s.mutate(ctx, shellID, "delete_layer", func(shell *domain.CampaignShell) error {
		idx := layerIndex(shell, layerID)
		if idx < 0 {
			return fmt.Errorf("layer %s: %w", layerID, domain.ErrLayerNotFound)
		}
		shell.TargetingLayers = slices.Delete(shell.TargetingLayers, idx, idx+1)
		return nil
	})
	return err
}

func (s *ShellService) AddCreative(ctx context.Context, shellID, layerID, name string) (*domain.CreativeShell, error) {
	creative := engine.NewCreativeShell(name)

	if _, err := s.mutate(ctx, shellID, "add_creative", func(shell *domain.CampaignShell) error {
		layer := shell.Layer(layerID)
		if layer == nil {
			return fmt.Errorf("layer %s: %w", layerID, domain.ErrLayerNotFound)
		}
		layer.Creatives = append(layer.Creatives, creative)
		return nil
	}); err != nil {
		return nil, err
	}

	return &creative, nil
}

// DuplicateCreative copies a creative under a new ID right after the source.
// A non-empty name renames the copy.
func (s *ShellService) DuplicateCreative(ctx context.Context, shellID, layerID, creativeID string, name *string) (*domain.CreativeShell, error) {
	var clone domain.CreativeShell

	if _, err := s.mutate(ctx, shellID, "duplicate_creative", func(shell *domain.CampaignShell) error {
		layer := shell.Layer(layerID)
		if layer == nil {
			return fmt.Errorf("layer %s: %w", layerID, domain.ErrLayerNotFound)
		}
		idx := creativeIndex(layer, creativeID)
		if idx < 0 {
			return fmt.Errorf("creative %s: %w", creativeID, domain.ErrCreativeNotFound)
		}
		clone = engine.CloneCreativeShell(layer.Creatives[idx])
		setNonEmpty(&clone.Name, name)
		layer.Creatives = slices.Insert(layer.Creatives, idx+1, clone)
		return nil
	}); err != nil {
		return nil, err
	}

	return &clone, nil
}

// UpdateCreative applies an edit. Changing the landing page or the UTM term
// re-derives the tracked URL; setting the tracked URL directly never does.
func (s *ShellService) UpdateCreative(ctx context.Context, shellID, layerID, creativeID string, update domain.CreativeUpdate) (*domain.CreativeShell, error) {
	var updated domain.CreativeShell

	if _, err := s.mutate(ctx, shellID, "update_creative", func(shell *domain.CampaignShell) error {
		layer := shell.Layer(layerID)
		if layer == nil {
			return fmt.Errorf("layer %s: %w", layerID, domain.ErrLayerNotFound)
		}
		creative := layer.Creative(creativeID)
		if creative == nil {
			return fmt.Errorf("creative %s: %w", creativeID, domain.ErrCreativeNotFound)
		}

		setString(&creative.Name, update.Name)
		setString(&creative.AccuticsTaxonomyName, update.AccuticsTaxonomyName)
		setString(&creative.AssetLink, update.AssetLink)
		setString(&creative.YouTubeURL, update.YouTubeURL)
		setString(&creative.UTMParameters.Term, update.UTMTerm)

		switch {
		case update.LandingPageWithUTM != nil:
			setString(&creative.LandingPage, update.LandingPage)
			creative.SetLandingPageWithUTM(*update.LandingPageWithUTM)
		case update.LandingPage != nil:
			creative.SetLandingPage(*update.LandingPage)
		case update.UTMTerm != nil:
			creative.SetLandingPage(creative.LandingPage)
		}

		updated = *creative
		return nil
	}); err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *ShellService) DeleteCreative(ctx context.Context, shellID, layerID, creativeID string) error {
	_, err := s.mutate(ctx, shellID, "delete_creative", func(shell *domain.CampaignShell) error {
		layer := shell.Layer(layerID)
		if layer == nil {
			return fmt.Errorf("layer %s: %w", layerID, domain.ErrLayerNotFound)
		}
		idx := creativeIndex(layer, creativeID)
		if idx < 0 {
			return fmt.Errorf("creative %s: %w", creativeID, domain.ErrCreativeNotFound)
		}
		layer.Creatives = slices.Delete(layer.Creatives, idx, idx+1)
		return nil
	})
	return err
}

// Reset discards every shell in the session.
func (s *ShellService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	s.metrics.SetShellsStored(0)
	return nil
}

// Summary returns counts and the total working budget of the session.
func (s *ShellService) Summary(ctx context.Context) (*domain.ShellSummary, error) {
	log := s.logger.WithContext(ctx)

	shells, err := s.repo.GetAll(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to get shell summary")
		return nil, fmt.Errorf("failed to get shell summary: %w", err)
	}

	summary := &domain.ShellSummary{
		Shells:     len(shells),
		ByCategory: make(map[domain.Category]int, len(domain.Categories)),
		Channels:   []string{},
	}
	for _, c := range domain.Categories {
		summary.ByCategory[c] = 0
	}

	channels := make(map[string]bool)
	for _, shell := range shells {
		summary.ByCategory[shell.Category]++
		summary.TargetingLayers += len(shell.TargetingLayers)
		for _, layer := range shell.TargetingLayers {
			summary.Creatives += len(layer.Creatives)
		}
		if amount, ok := engine.ParseAmount(shell.WorkingMediaBudget); ok {
			summary.TotalBudget += amount
		}
		if shell.Channel != "" && !channels[shell.Channel] {
			channels[shell.Channel] = true
			summary.Channels = append(summary.Channels, shell.Channel)
		}
	}
	sort.Strings(summary.Channels)

	return summary, nil
}

// mutate loads a shell, applies fn and saves the result. The stored shell is
// untouched when fn fails.
func (s *ShellService) mutate(ctx context.Context, id, operation string, fn func(*domain.CampaignShell) error) (*domain.CampaignShell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"shell_id":  id,
		"operation": operation,
	})

	shell, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(shell); err != nil {
		log.WithError(err).Debug("Shell edit rejected")
		return nil, err
	}

	if err := s.repo.Save(ctx, *shell); err != nil {
		log.WithError(err).Error("Failed to save campaign shell")
		return nil, fmt.Errorf("failed to save campaign shell: %w", err)
	}

	s.metrics.RecordShellEdit(operation)
	log.Debug("Applied shell edit")

	return shell, nil
}

func layerIndex(shell *domain.CampaignShell, id string) int {
	for i := range shell.TargetingLayers {
		if shell.TargetingLayers[i].ID == id {
			return i
		}
	}
	return -1
}

func creativeIndex(layer *domain.TargetingLayer, id string) int {
	for i := range layer.Creatives {
		if layer.Creatives[i].ID == id {
			return i
		}
	}
	return -1
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// setNonEmpty is setString that ignores blank overrides.
func setNonEmpty(dst *string, src *string) {
	if src != nil && *src != "" {
		*dst = *src
	}
}
