package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"chartgo/internal/domain"
	"chartgo/pkg/logger"
)

const defaultPageLimit = 100

// implements domain.ShellRepository interface
//
// Shells are kept in insertion order. Every read and write copies the
// layer and creative slices so callers never share state with the store.
type ShellRepository struct {
	shells map[string]domain.CampaignShell
	order  []string
	mutex  sync.RWMutex
	logger *logger.Logger
}

// creates a new in-memory shell session store
func NewShellRepository(logger *logger.Logger) *ShellRepository {
	return &ShellRepository{
		shells: make(map[string]domain.CampaignShell),
		logger: logger,
	}
}

func (r *ShellRepository) ReplaceAll(ctx context.Context, shells []domain.CampaignShell) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.shells = make(map[string]domain.CampaignShell, len(shells))
	r.order = make([]string, 0, len(shells))

	for _, shell := range shells {
		if shell.ID == "" {
			return fmt.Errorf("shell %q has no id", shell.Name)
		}
		if _, exists := r.shells[shell.ID]; !exists {
			r.order = append(r.order, shell.ID)
		}
		r.shells[shell.ID] = copyShell(shell)
	}

	r.logger.WithContext(ctx).WithField("count", len(r.order)).Info("Replaced campaign shells in memory")
	return nil
}

func (r *ShellRepository) Save(ctx context.Context, shell domain.CampaignShell) error {
	if shell.ID == "" {
		return fmt.Errorf("shell %q has no id", shell.Name)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.shells[shell.ID]; !exists {
		r.order = append(r.order, shell.ID)
	}
	r.shells[shell.ID] = copyShell(shell)

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"shell_id": shell.ID,
		"layers":   len(shell.TargetingLayers),
	}).Debug("Stored campaign shell")

	return nil
}

func (r *ShellRepository) Get(ctx context.Context, id string) (*domain.CampaignShell, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	shell, exists := r.shells[id]
	if !exists {
		return nil, fmt.Errorf("shell %s: %w", id, domain.ErrShellNotFound)
	}

	out := copyShell(shell)
	return &out, nil
}

func (r *ShellRepository) GetAll(ctx context.Context) ([]domain.CampaignShell, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]domain.CampaignShell, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, copyShell(r.shells[id]))
	}

	return out, nil
}

func (r *ShellRepository) GetByFilter(ctx context.Context, filter domain.ShellFilter) (*domain.ShellsResponse, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	log := r.logger.WithContext(ctx)

	var filtered []domain.CampaignShell
	for _, id := range r.order {
		shell := r.shells[id]
		if r.matchesFilter(shell, filter) {
			filtered = append(filtered, shell)
		}
	}

	limit := defaultPageLimit
	offset := 0

	if filter.Limit > 0 {
		limit = filter.Limit
	}
	if filter.Offset > 0 {
		offset = filter.Offset
	}

	total := len(filtered)
	start := min(offset, total)
	end := total
	if limit < total-start {
		end = start + limit
	}

	page := make([]domain.CampaignShell, 0, end-start)
	for _, shell := range filtered[start:end] {
		page = append(page, copyShell(shell))
	}

	hasMore := end < total

	log.WithFields(map[string]any{
		"category": filter.Category,
		"channel":  filter.Channel,
		"returned": len(page),
		"total":    total,
		"has_more": hasMore,
	}).Debug("Returning campaign shells")

	return &domain.ShellsResponse{
		Data:    page,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: hasMore,
	}, nil
}

func (r *ShellRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.shells[id]; !exists {
		return fmt.Errorf("shell %s: %w", id, domain.ErrShellNotFound)
	}

	delete(r.shells, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

func (r *ShellRepository) Clear(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.shells = make(map[string]domain.CampaignShell)
	r.order = nil

	r.logger.WithContext(ctx).Info("Cleared campaign shell session")
	return nil
}

// matchesFilter checks if a shell matches the given filter
func (r *ShellRepository) matchesFilter(shell domain.CampaignShell, filter domain.ShellFilter) bool {
	if filter.Category != "" && shell.Category != filter.Category {
		return false
	}
	if filter.Channel != "" && !strings.EqualFold(shell.Channel, filter.Channel) {
		return false
	}

	return true
}

func copyShell(s domain.CampaignShell) domain.CampaignShell {
	out := s
	out.TargetingLayers = make([]domain.TargetingLayer, len(s.TargetingLayers))
	for i, layer := range s.TargetingLayers {
		out.TargetingLayers[i] = layer
		out.TargetingLayers[i].Creatives = append([]domain.CreativeShell{}, layer.Creatives...)
	}
	return out
}
