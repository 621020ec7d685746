package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chartgo/internal/domain"
)

type buildShellsRequest struct {
	Rows []domain.NormalizedRow `json:"rows"`
}

type layerRequest struct {
	AudienceName *string `json:"audience_name"`
}

type creativeRequest struct {
	Name *string `json:"name"`
}

// BuildShells replaces the session with shells built from the selected rows.
func (h *HTTPHandlers) BuildShells(c *gin.Context) {
	var req buildShellsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "Invalid request body", bodyError(err))
		return
	}

	shells, err := h.shellService.BuildShells(c.Request.Context(), req.Rows)
	if err != nil {
		h.fail(c, "Failed to build shells", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":       shells,
		"total":      len(shells),
		"request_id": c.GetString("request_id"),
	})
}

func (h *HTTPHandlers) ListShells(c *gin.Context) {
	filter, err := parseShellFilter(c)
	if err != nil {
		h.fail(c, "Invalid parameters", bodyError(err))
		return
	}

	response, err := h.shellService.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "Failed to retrieve shells", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       response.Data,
		"total":      response.Total,
		"limit":      response.Limit,
		"offset":     response.Offset,
		"has_more":   response.HasMore,
		"request_id": c.GetString("request_id"),
	})
}

func (h *HTTPHandlers) GetShell(c *gin.Context) {
	shell, err := h.shellService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to retrieve shell", err)
		return
	}
	c.JSON(http.StatusOK, shell)
}

func (h *HTTPHandlers) UpdateShell(c *gin.Context) {
	var update domain.ShellUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.fail(c, "Invalid request body", bodyError(err))
		return
	}

	shell, err := h.shellService.UpdateShell(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		h.fail(c, "Failed to update shell", err)
		return
	}
	c.JSON(http.StatusOK, shell)
}

// ResetShells discards the whole session.
func (h *HTTPHandlers) ResetShells(c *gin.Context) {
	if err := h.shellService.Reset(c.Request.Context()); err != nil {
		h.fail(c, "Failed to reset shells", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Session cleared",
		"request_id": c.GetString("request_id"),
	})
}

func (h *HTTPHandlers) GetShellSummary(c *gin.Context) {
	summary, err := h.shellService.Summary(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to retrieve summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *HTTPHandlers) AddTargetingLayer(c *gin.Context) {
	var req layerRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.fail(c, "Invalid request body", bodyError(err))
		return
	}

	audience := ""
	if req.AudienceName != nil {
		audience = *req.AudienceName
	}

	layer, err := h.shellService.AddTargetingLayer(c.Request.Context(), c.Param("id"), audience)
	if err != nil {
		h.fail(c, "Failed to add targeting layer", err)
		return
	}
	c.JSON(http.StatusCreated, layer)
}

func (h *HTTPHandlers) DuplicateTargetingLayer(c *gin.Context) {
	var req layerRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.fail(c, "Invalid request body", bodyError(err))
		return
	}

	layer, err := h.shellService.DuplicateTargetingLayer(c.Request.Context(), c.Param("id"), c.Param("layerId"), req.AudienceName)
	if err != nil {
		h.fail(c, "Failed to duplicate targeting layer", err)
		return
	}
	c.JSON(http.StatusCreated, layer)
}

func (h *HTTPHandlers) UpdateTargetingLayer(c *gin.Context) {
	var update domain.LayerUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.fail(c, "Invalid request body", bodyError(err))
		return
	}

	layer, err := h.shellService.UpdateTargetingLayer(c.Request.Context(), c.Param("id"), c.Param("layerId"), update)
	if err != nil {
		h.fail(c, "Failed to update targeting layer", err)
		return
	}
	c.JSON(http.StatusOK, layer)
}

func (h *HTTPHandlers) DeleteTargetingLayer(c *gin.Context) {
	if err := h.shellService.DeleteTargetingLayer(c.Request.Context(), c.Param("id"), c.Param("layerId")); err != nil {
		h.fail(c, "Failed to delete targeting layer", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandlers) AddCreative(c *gin.Context) {
	var req creativeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.fail(c, "Invalid request body", bodyError(err))
		return
	}

	name := ""
	if req.Name != nil {
		name = *req.Name
	}

	creative, err := h.shellService.AddCreative(c.Request.Context(), c.Param("id"), c.Param("layerId"), name)
	if err != nil {
		h.fail(c, "Failed to add creative", err)
		return
	}
	c.JSON(http.StatusCreated, creative)
}

func (h *HTTPHandlers) DuplicateCreative(c *gin.Context) {
	var req creativeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.fail(c, "Invalid request body", bodyError(err))
		return
	}

	creative, err := h.shellService.DuplicateCreative(c.Request.Context(), c.Param("id"), c.Param("layerId"), c.Param("creativeId"), req.Name)
	if err != nil {
		h.fail(c, "Failed to duplicate creative", err)
		return
	}
	c.JSON(http.StatusCreated, creative)
}

func (h *HTTPHandlers) UpdateCreative(c *gin.Context) {
	var update domain.CreativeUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.fail(c, "Invalid request body", bodyError(err))
		return
	}

	creative, err := h.shellService.UpdateCreative(c.Request.Context(), c.Param("id"), c.Param("layerId"), c.Param("creativeId"), update)
	if err != nil {
		h.fail(c, "Failed to update creative", err)
		return
	}
	c.JSON(http.StatusOK, creative)
}

func (h *HTTPHandlers) DeleteCreative(c *gin.Context) {
	if err := h.shellService.DeleteCreative(c.Request.Context(), c.Param("id"), c.Param("layerId"), c.Param("creativeId")); err != nil {
		h.fail(c, "Failed to delete creative", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportRows returns the flattened session without sending it anywhere.
func (h *HTTPHandlers) ExportRows(c *gin.Context) {
	rows, err := h.shellService.ExportRows(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to export rows", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       rows,
		"total":      len(rows),
		"request_id": c.GetString("request_id"),
	})
}

// ExportRun sends the flattened session to the configured sink.
func (h *HTTPHandlers) ExportRun(c *gin.Context) {
	count, err := h.shellService.ExportRun(c.Request.Context())
	if err != nil {
		h.fail(c, "Export failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Export completed successfully",
		"rows":       count,
		"request_id": c.GetString("request_id"),
	})
}

// bindOptionalJSON binds a JSON body when one was sent. An empty body leaves
// dst untouched.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dst)
}
