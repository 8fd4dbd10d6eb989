package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"labels-service/internal/clients/woocommerce"
	"labels-service/internal/models"
	"labels-service/internal/services"
	"labels-service/internal/sessions"
)

type CatalogHandler struct {
	catalog  *services.CatalogService
	sessions *sessions.Store

	// validateID rejects non-integer product ids before any remote call.
	validateID bool
}

func NewCatalogHandler(catalog *services.CatalogService, store *sessions.Store, validateID bool) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, sessions: store, validateID: validateID}
}

// FetchProduct reads a product and its variations into a fresh session
// POST /api/v1/catalog/products/:id/fetch
func (h *CatalogHandler) FetchProduct(c *gin.Context) {
	raw := c.Param("id")
	productID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if h.validateID {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "VALIDATION_ERROR", Message: "Product ID must be an integer"},
			})
			return
		}
		// Permissive mode still needs a numeric id for the remote path;
		// a float like "7413.0" is truncated the way grid input is.
		truncated, ok := services.ParseOptionalInt(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "VALIDATION_ERROR", Message: "Product ID must be numeric"},
			})
			return
		}
		productID = truncated
	}

	grid, err := h.catalog.FetchProduct(c.Request.Context(), productID)
	if err != nil {
		status := http.StatusBadGateway
		code := "REMOTE_FAILURE"
		var apiErr *woocommerce.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
			code = "PRODUCT_NOT_FOUND"
		}
		c.JSON(status, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: code, Message: err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    grid,
	})
}

// GetSession returns the grid held by a catalog session
// GET /api/v1/catalog/sessions/:id
func (h *CatalogHandler) GetSession(c *gin.Context) {
	session, ok := h.lookupSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    session.Grid,
	})
}

// SubmitEdits pushes staged stock/price edits to the remote catalog
// POST /api/v1/catalog/sessions/:id/submit
func (h *CatalogHandler) SubmitEdits(c *gin.Context) {
	session, ok := h.lookupSession(c)
	if !ok {
		return
	}

	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "VALIDATION_ERROR", Message: err.Error()},
		})
		return
	}

	result := h.catalog.Submit(c.Request.Context(), session, req.Rows)

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    result,
	})
}

// DeleteSession clears a session (the explicit "refresh" step)
// DELETE /api/v1/catalog/sessions/:id
func (h *CatalogHandler) DeleteSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || !h.sessions.DeleteCatalogSession(id) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "SESSION_NOT_FOUND", Message: "Catalog session not found"},
		})
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

func (h *CatalogHandler) lookupSession(c *gin.Context) (*sessions.CatalogSession, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "VALIDATION_ERROR", Message: "Invalid session ID"},
		})
		return nil, false
	}

	session, ok := h.sessions.GetCatalogSession(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "SESSION_NOT_FOUND", Message: "Catalog session not found"},
		})
		return nil, false
	}
	return session, true
}
