package domain

import (
	"context"
)

// interface for the campaign shell session store
type ShellRepository interface {
	ReplaceAll(ctx context.Context, shells []CampaignShell) error
	Save(ctx context.Context, shell CampaignShell) error
	Get(ctx context.Context, id string) (*CampaignShell, error)
	GetAll(ctx context.Context) ([]CampaignShell, error)
	GetByFilter(ctx context.Context, filter ShellFilter) (*ShellsResponse, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// interface for spreadsheet and CSV intake
type SheetReader interface {
	ListSheets(fileName string, data []byte) (*SheetList, error)
	ReadSheet(fileName string, data []byte, sheet string) (rows [][]string, sheetName string, err error)
}

// interface for pushing flattened shells downstream
type ExportClient interface {
	Export(ctx context.Context, rows []ExportRow) error
}
