package domain

import "errors"

var (
	ErrNoValidRows       = errors.New("no valid rows found")
	ErrUnsupportedFile   = errors.New("unsupported file type")
	ErrEmptyFile         = errors.New("file is empty")
	ErrSheetNotFound     = errors.New("sheet not found")
	ErrShellNotFound     = errors.New("campaign shell not found")
	ErrLayerNotFound     = errors.New("targeting layer not found")
	ErrCreativeNotFound  = errors.New("creative not found")
	ErrNothingSelected   = errors.New("no rows selected")
	ErrSinkNotConfigured = errors.New("sink URL not configured")
	ErrInvalidCategory   = errors.New("invalid category")
)
