package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"labels-service/internal/models"
	"labels-service/internal/repository"
	"labels-service/internal/services"
	"labels-service/internal/sessions"
)

type AssemblyHandler struct {
	assembly *services.AssemblyService
	sessions *sessions.Store
	audit    *repository.AuditRepository
}

func NewAssemblyHandler(assembly *services.AssemblyService, store *sessions.Store, audit *repository.AuditRepository) *AssemblyHandler {
	return &AssemblyHandler{assembly: assembly, sessions: store, audit: audit}
}

// AssembleLabels runs one assembly from an uploaded workbook
// POST /api/v1/labels/assemble
func (h *AssemblyHandler) AssembleLabels(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "FILE_REQUIRED", Message: "Please upload an Item Summary workbook"},
		})
		return
	}
	defer file.Close()

	items, err := services.LoadLineItems(file)
	if err != nil {
		var sheetErr *services.SheetNotFoundError
		var colsErr *services.MissingColumnsError
		switch {
		case errors.As(err, &sheetErr):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "SHEET_NOT_FOUND", Message: sheetErr.Error()},
			})
		case errors.As(err, &colsErr):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "MISSING_COLUMNS", Message: colsErr.Error()},
			})
		default:
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "PARSE_ERROR", Message: err.Error()},
			})
		}
		return
	}

	run := h.sessions.NewRun(header.Filename)
	if err := h.assembly.Assemble(run, items); err != nil {
		if errors.Is(err, services.ErrLabelStoreMissing) {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "LABEL_STORE_MISSING", Message: err.Error()},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "ASSEMBLY_FAILED", Message: err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    runResponse(run),
	})
}

// GetRun reports run progress and, once complete, the result
// GET /api/v1/labels/runs/:id
func (h *AssemblyHandler) GetRun(c *gin.Context) {
	run, ok := h.lookupRun(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    runResponse(run),
	})
}

// DownloadDocument serves the assembled PDF
// GET /api/v1/labels/runs/:id/document
func (h *AssemblyHandler) DownloadDocument(c *gin.Context) {
	run, ok := h.lookupRun(c)
	if !ok {
		return
	}

	document := run.Document()
	result := run.Result()
	if len(document) == 0 || result == nil || result.TotalPages == 0 {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "NO_DOCUMENT", Message: "No labels were assembled; there is nothing to download"},
		})
		return
	}

	name := documentName(run.FileName)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, "application/pdf", document)
}

// GetHistory returns the most recent audited assembly runs
// GET /api/v1/labels/history
func (h *AssemblyHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	records, err := h.audit.ListAssemblyRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "DATABASE_ERROR", Message: "Failed to load run history"},
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    records,
	})
}

// GetStoreReport returns the advisory label store scan
// GET /api/v1/labels/store
func (h *AssemblyHandler) GetStoreReport(c *gin.Context) {
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    h.assembly.StoreReport(),
	})
}

func (h *AssemblyHandler) lookupRun(c *gin.Context) (*sessions.AssemblyRun, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "VALIDATION_ERROR", Message: "Invalid run ID"},
		})
		return nil, false
	}

	run, ok := h.sessions.GetRun(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "RUN_NOT_FOUND", Message: "Assembly run not found"},
		})
		return nil, false
	}
	return run, true
}

func runResponse(run *sessions.AssemblyRun) models.RunResponse {
	result := run.Result()
	resp := models.RunResponse{
		ID:       run.ID.String(),
		FileName: run.FileName,
		Status:   run.Status(),
		Progress: run.Progress(),
		Result:   result,
	}
	if result != nil && result.TotalPages > 0 {
		resp.DocumentAvailable = true
		resp.DocumentName = documentName(run.FileName)
	}
	return resp
}

// documentName builds mrp_labels_{originalFileNameWithoutExtension}.pdf.
func documentName(uploadName string) string {
	base := filepath.Base(uploadName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("mrp_labels_%s.pdf", base)
}
