package delivery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"chartgo/internal/domain"
	"chartgo/internal/usecase"
	"chartgo/pkg/logger"
)

// handles HTTP requests
type HTTPHandlers struct {
	importService *usecase.ImportService
	shellService  *usecase.ShellService
	logger        *logger.Logger
}

// creates new HTTP handlers
func NewHTTPHandlers(
	importService *usecase.ImportService,
	shellService *usecase.ShellService,
	logger *logger.Logger,
) *HTTPHandlers {
	return &HTTPHandlers{
		importService: importService,
		shellService:  shellService,
		logger:        logger,
	}
}

type importTextRequest struct {
	Text string `json:"text"`
}

// ImportText parses pasted chart text. The body is either JSON
// {"text": "..."} or the raw text itself.
func (h *HTTPHandlers) ImportText(c *gin.Context) {
	ctx := c.Request.Context()

	var text string
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req importTextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.fail(c, "Invalid request body", bodyError(err))
			return
		}
		text = req.Text
	} else {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			h.fail(c, "Invalid request body", bodyError(err))
			return
		}
		text = string(body)
	}

	if strings.TrimSpace(text) == "" {
		h.fail(c, "Missing required parameter", fmt.Errorf("text: %w", domain.ErrEmptyFile))
		return
	}

	result, err := h.importService.ImportText(ctx, text)
	h.respondImport(c, result, err)
}

// ImportFile parses one uploaded file. The optional "sheet" form field
// selects a workbook sheet.
func (h *HTTPHandlers) ImportFile(c *gin.Context) {
	ctx := c.Request.Context()

	header, err := c.FormFile("file")
	if err != nil {
		h.fail(c, "Missing required parameter", bodyError(err))
		return
	}

	upload, err := readUpload(header)
	if err != nil {
		h.fail(c, "Invalid upload", bodyError(err))
		return
	}

	result, err := h.importService.ImportFile(ctx, upload, c.PostForm("sheet"))
	h.respondImport(c, result, err)
}

// ImportFiles parses every file of a multipart "files" field.
func (h *HTTPHandlers) ImportFiles(c *gin.Context) {
	ctx := c.Request.Context()

	form, err := c.MultipartForm()
	if err != nil {
		h.fail(c, "Invalid upload", bodyError(err))
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		h.fail(c, "Missing required parameter", fmt.Errorf("files: %w", domain.ErrEmptyFile))
		return
	}

	uploads := make([]domain.Upload, 0, len(headers))
	for _, header := range headers {
		upload, err := readUpload(header)
		if err != nil {
			h.fail(c, "Invalid upload", bodyError(err))
			return
		}
		uploads = append(uploads, upload)
	}

	results, err := h.importService.ImportFiles(ctx, uploads)
	if err != nil {
		h.fail(c, "Import failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       results,
		"total":      len(results),
		"request_id": c.GetString("request_id"),
	})
}

// ListSheets returns the sheets of an uploaded workbook and the one the
// importer would pick.
func (h *HTTPHandlers) ListSheets(c *gin.Context) {
	ctx := c.Request.Context()

	header, err := c.FormFile("file")
	if err != nil {
		h.fail(c, "Missing required parameter", bodyError(err))
		return
	}

	upload, err := readUpload(header)
	if err != nil {
		h.fail(c, "Invalid upload", bodyError(err))
		return
	}

	list, err := h.importService.ListSheets(ctx, upload)
	if err != nil {
		h.fail(c, "Failed to list sheets", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file_name":  list.FileName,
		"sheets":     list.Sheets,
		"best":       list.Best,
		"request_id": c.GetString("request_id"),
	})
}

// GetAPIInfo returns API v1 information and available endpoints
func (h *HTTPHandlers) GetAPIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"api_version": "v1",
		"service":     "chartgo",
		"version":     "1.0.0",
		"description": "Imports media blocking charts and turns them into editable campaign shells",
		"endpoints": gin.H{
			"import": gin.H{
				"text":   "POST /api/v1/import/text",
				"file":   "POST /api/v1/import/file (multipart: file, sheet)",
				"files":  "POST /api/v1/import/files (multipart: files)",
				"sheets": "POST /api/v1/import/sheets (multipart: file)",
			},
			"shells": gin.H{
				"build":     "POST /api/v1/shells",
				"list":      "GET /api/v1/shells?category=&channel=&limit=&offset=",
				"summary":   "GET /api/v1/shells/summary",
				"get":       "GET /api/v1/shells/:id",
				"update":    "PATCH /api/v1/shells/:id",
				"reset":     "DELETE /api/v1/shells",
				"layers":    "POST|PATCH|DELETE /api/v1/shells/:id/layers[/:layerId[/duplicate]]",
				"creatives": "POST|PATCH|DELETE /api/v1/shells/:id/layers/:layerId/creatives[/:creativeId[/duplicate]]",
			},
			"export": gin.H{
				"rows": "GET /api/v1/export/rows",
				"run":  "POST /api/v1/export/run",
			},
		},
		"categories": domain.Categories,
		"request_id": c.GetString("request_id"),
	})
}

// HealthCheck returns the health status of the service
func (h *HTTPHandlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"service":    "chartgo",
		"version":    "1.0.0",
		"request_id": c.GetString("request_id"),
	})
}

func (h *HTTPHandlers) respondImport(c *gin.Context, result *domain.ImportResult, err error) {
	requestID := c.GetString("request_id")

	if errors.Is(err, domain.ErrNoValidRows) && result != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "No valid rows found",
			"message":    err.Error(),
			"result":     result,
			"request_id": requestID,
		})
		return
	}
	if err != nil {
		h.fail(c, "Import failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":     result,
		"request_id": requestID,
	})
}

// fail writes the standard error body with a status derived from err.
func (h *HTTPHandlers) fail(c *gin.Context, title string, err error) {
	status := statusFor(err)
	requestID := c.GetString("request_id")

	log := h.logger.WithContext(c.Request.Context()).WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		log.Error(title)
	} else {
		log.Debug(title)
	}

	_ = c.Error(err)
	c.JSON(status, gin.H{
		"error":      title,
		"message":    err.Error(),
		"request_id": requestID,
	})
}

type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

// bodyError marks a malformed request so it maps to 400 unless it is a
// size-limit failure.
func bodyError(err error) error {
	return badRequestError{err: err}
}

func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	var badRequest badRequestError

	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrShellNotFound),
		errors.Is(err, domain.ErrLayerNotFound),
		errors.Is(err, domain.ErrCreativeNotFound),
		errors.Is(err, domain.ErrSheetNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedFile),
		errors.Is(err, domain.ErrEmptyFile),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoValidRows),
		errors.Is(err, domain.ErrNothingSelected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSinkNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func readUpload(header *multipart.FileHeader) (domain.Upload, error) {
	file, err := header.Open()
	if err != nil {
		return domain.Upload{}, fmt.Errorf("failed to open %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("failed to read %s: %w", header.Filename, err)
	}

	return domain.Upload{FileName: header.Filename, Data: data}, nil
}

// parseShellFilter parses the list query parameters
func parseShellFilter(c *gin.Context) (domain.ShellFilter, error) {
	filter := domain.ShellFilter{
		Category: domain.Category(c.Query("category")),
		Channel:  c.Query("channel"),
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			return filter, fmt.Errorf("invalid limit %q", limitStr)
		}
		filter.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return filter, fmt.Errorf("invalid offset %q", offsetStr)
		}
		filter.Offset = offset
	}

	return filter, nil
}
