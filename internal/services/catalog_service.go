package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"labels-service/internal/clients/woocommerce"
	"labels-service/internal/models"
	"labels-service/internal/repository"
	"labels-service/internal/sessions"
)

// CatalogClient is the remote catalog boundary. *woocommerce.Client is the
// production implementation.
type CatalogClient interface {
	GetProduct(ctx context.Context, productID int64) (*woocommerce.Product, error)
	ListVariations(ctx context.Context, productID int64, page int) ([]woocommerce.Product, error)
	UpdateProduct(ctx context.Context, productID int64, update woocommerce.ProductUpdate) error
	UpdateVariation(ctx context.Context, parentID, variationID int64, update woocommerce.ProductUpdate) error
}

var _ CatalogClient = (*woocommerce.Client)(nil)

// SyncOptions are the behavioral toggles that collapse the editor variants
// into one module.
type SyncOptions struct {
	// EnforceManageStock refuses a stock change on a product whose
	// stock-management flag is off, recording it and enabling the flag as
	// part of the same update instead of silently writing stock.
	EnforceManageStock bool

	// RequireRowSelection submits only rows with the selection flag set;
	// otherwise any row with a staged value counts as changed.
	RequireRowSelection bool
}

// CatalogService runs the fetch-then-edit-then-push loop against the
// remote catalog. It is independent of the label pipeline.
type CatalogService struct {
	client   CatalogClient
	sessions *sessions.Store
	opts     SyncOptions
	audit    *repository.AuditRepository
	logger   *logrus.Logger
}

func NewCatalogService(client CatalogClient, store *sessions.Store, opts SyncOptions, audit *repository.AuditRepository, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		client:   client,
		sessions: store,
		opts:     opts,
		audit:    audit,
		logger:   logger,
	}
}

// FetchProduct reads the base product and, for variable products, all of
// its variations page by page until a page comes back empty. The fetched
// grid is held in a new catalog session for a later submit.
func (s *CatalogService) FetchProduct(ctx context.Context, productID int64) (*models.CatalogGrid, error) {
	product, err := s.client.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	grid := &models.CatalogGrid{
		ProductID: productID,
		Rows:      []models.CatalogProductRow{productRow(product, nil)},
	}

	if product.Type == "variable" {
		for page := 1; ; page++ {
			variations, err := s.client.ListVariations(ctx, productID, page)
			if err != nil {
				// Keep the rows already fetched; surface the page failure
				// as a warning rather than discarding the grid.
				warning := fmt.Sprintf("error fetching variations for product %d: %v", productID, err)
				grid.Warnings = append(grid.Warnings, warning)
				s.logger.WithField("productId", productID).WithError(err).Warn("Variation fetch stopped early")
				break
			}
			if len(variations) == 0 {
				break
			}
			for i := range variations {
				v := &variations[i]
				row := productRow(v, &product.ID)
				if row.Name == "" {
					row.Name = product.Name
				}
				if row.Type == "" {
					row.Type = "variation"
				}
				grid.Rows = append(grid.Rows, row)
			}
		}
	}

	s.sessions.NewCatalogSession(productID, grid)
	return grid, nil
}

// Submit pushes staged edits back row by row. Every row's outcome is
// recorded independently; a failing update never aborts the rest of the
// batch and nothing is retried.
func (s *CatalogService) Submit(ctx context.Context, session *sessions.CatalogSession, rows []models.CatalogProductRow) *models.SubmitResult {
	result := &models.SubmitResult{
		Failed:          make([]models.UpdateFailure, 0),
		StockNotManaged: make([]int64, 0),
	}

	for _, row := range rows {
		if s.opts.RequireRowSelection && !row.Selected {
			result.SkippedCount++
			continue
		}

		update, hasStock, hasPrice := s.buildUpdate(row, result)
		if !hasStock && !hasPrice {
			result.SkippedCount++
			continue
		}

		var err error
		if row.ParentID != nil {
			err = s.client.UpdateVariation(ctx, *row.ParentID, row.ID, update)
		} else {
			err = s.client.UpdateProduct(ctx, row.ID, update)
		}

		if err != nil {
			failure := models.UpdateFailure{ID: row.ID, Message: err.Error()}
			var apiErr *woocommerce.APIError
			if errors.As(err, &apiErr) {
				failure.Status = apiErr.StatusCode
				failure.Message = apiErr.Body
			}
			result.Failed = append(result.Failed, failure)
			continue
		}
		result.UpdatedCount++
	}

	if err := s.audit.RecordCatalogPush(&models.CatalogPushRecord{
		ProductID:    session.ProductID,
		UpdatedCount: result.UpdatedCount,
		FailedCount:  len(result.Failed),
		SkippedCount: result.SkippedCount,
	}); err != nil {
		s.logger.WithError(err).Warn("Failed to record catalog push audit entry")
	}

	s.logger.WithFields(logrus.Fields{
		"productId": session.ProductID,
		"updated":   result.UpdatedCount,
		"failed":    len(result.Failed),
		"skipped":   result.SkippedCount,
	}).Info("Catalog push completed")

	return result
}

// buildUpdate coerces the staged text fields into a partial update. Blank
// and "nan" staging values mean "no change"; in particular a blank sale
// price never clears the remote price.
func (s *CatalogService) buildUpdate(row models.CatalogProductRow, result *models.SubmitResult) (update woocommerce.ProductUpdate, hasStock, hasPrice bool) {
	if v, ok := ParseOptionalNumber(row.NewStock); ok {
		stock := int(math.Trunc(v))
		update.StockQuantity = &stock
		hasStock = true

		if s.opts.EnforceManageStock && !row.ManageStock {
			// Stock management is off for this product: record it, and
			// enable the flag in the same update since a stock value is
			// being supplied anyway.
			result.StockNotManaged = append(result.StockNotManaged, row.ID)
			enabled := true
			update.ManageStock = &enabled
		}
	}

	if price := ParseOptionalText(row.NewSalePrice); price != "" {
		update.SalePrice = &price
		hasPrice = true
	}

	return update, hasStock, hasPrice
}

func productRow(p *woocommerce.Product, parentID *int64) models.CatalogProductRow {
	stock := 0
	if p.StockQuantity != nil {
		stock = *p.StockQuantity
	}
	return models.CatalogProductRow{
		ID:           p.ID,
		ParentID:     parentID,
		Name:         p.Name,
		CurrentStock: stock,
		SalePrice:    p.SalePrice,
		RegularPrice: p.RegularPrice,
		Type:         p.Type,
		ManageStock:  p.ManageStock,
	}
}
