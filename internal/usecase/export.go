package usecase

import (
	"context"
	"fmt"

	"chartgo/internal/domain"
)

// Flatten fans the shell tree out into export rows: one per creative, one
// per layer that has no creatives, and one per shell that has no layers.
func Flatten(shells []domain.CampaignShell) []domain.ExportRow {
	rows := make([]domain.ExportRow, 0, len(shells))

	for _, shell := range shells {
		base := domain.ExportRow{
			CampaignID:           shell.ID,
			CampaignName:         shell.Name,
			AccuticsCampaignName: shell.AccuticsCampaignName,
			Category:             shell.Category,
			Channel:              shell.Channel,
			Platform:             shell.Platform,
			Objective:            shell.Objective,
			Placements:           shell.Placements,
			Impressions:          shell.Impressions,
			WorkingMediaBudget:   shell.WorkingMediaBudget,
			StartDate:            shell.StartDate,
			EndDate:              shell.EndDate,
		}

		if len(shell.TargetingLayers) == 0 {
			rows = append(rows, base)
			continue
		}

		for _, layer := range shell.TargetingLayers {
			layerRow := base
			layerRow.AudienceName = layer.AudienceName
			layerRow.AccuticsLineItem = layer.AccuticsLineItem

			if len(layer.Creatives) == 0 {
				rows = append(rows, layerRow)
				continue
			}

			for _, creative := range layer.Creatives {
				row := layerRow
				row.CreativeName = creative.Name
				row.AccuticsTaxonomyName = creative.AccuticsTaxonomyName
				row.AssetLink = creative.AssetLink
				row.YouTubeURL = creative.YouTubeURL
				row.LandingPage = creative.LandingPage
				row.LandingPageWithUTM = creative.LandingPageWithUTM
				rows = append(rows, row)
			}
		}
	}

	return rows
}

// ExportRows returns the flattened session.
func (s *ShellService) ExportRows(ctx context.Context) ([]domain.ExportRow, error) {
	shells, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to get shells for export")
		return nil, fmt.Errorf("failed to get shells for export: %w", err)
	}
	return Flatten(shells), nil
}

// ExportRun sends the flattened session to the export sink and returns the
// number of rows sent.
func (s *ShellService) ExportRun(ctx context.Context) (int, error) {
	log := s.logger.WithContext(ctx)
	log.Info("Starting shell export")

	rows, err := s.ExportRows(ctx)
	if err != nil {
		return 0, err
	}

	if len(rows) == 0 {
		log.Warn("No campaign shells to export")
		return 0, domain.ErrNothingSelected
	}

	if err := s.exportClient.Export(ctx, rows); err != nil {
		log.WithError(err).Error("Failed to export campaign shells")
		return 0, fmt.Errorf("failed to export campaign shells: %w", err)
	}

	log.WithField("rows", len(rows)).Info("Shell export completed successfully")
	return len(rows), nil
}
