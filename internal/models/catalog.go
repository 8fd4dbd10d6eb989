package models

// CatalogProductRow is one remote product or variation rendered into the
// editable grid. NewStock and NewSalePrice are staging fields: blank means
// "no change requested for this field" and nothing is sent until submit.
type CatalogProductRow struct {
	ID           int64  `json:"id"`
	ParentID     *int64 `json:"parentId,omitempty"`
	Name         string `json:"name"`
	CurrentStock int    `json:"currentStock"`
	SalePrice    string `json:"salePrice"`
	RegularPrice string `json:"regularPrice"`
	Type         string `json:"type"`
	ManageStock  bool   `json:"manageStock"`

	Selected     bool   `json:"selected"`
	NewStock     string `json:"newStock"`
	NewSalePrice string `json:"newSalePrice"`
}

// CatalogGrid is the fetched state held in a catalog session between the
// fetch step and a later submit.
type CatalogGrid struct {
	SessionID string              `json:"sessionId"`
	ProductID int64               `json:"productId"`
	Rows      []CatalogProductRow `json:"rows"`
	Warnings  []string            `json:"warnings,omitempty"`
}

// UpdateFailure records one remote update that came back non-2xx.
type UpdateFailure struct {
	ID      int64  `json:"id"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// SubmitResult is the per-batch outcome of pushing staged edits. Partial
// failure is expected; failures never abort the remaining rows.
type SubmitResult struct {
	UpdatedCount    int             `json:"updatedCount"`
	SkippedCount    int             `json:"skippedCount"`
	Failed          []UpdateFailure `json:"failed"`
	StockNotManaged []int64         `json:"stockNotManaged"`
}

// SubmitRequest carries the edited grid rows back from the operator.
type SubmitRequest struct {
	Rows []CatalogProductRow `json:"rows" binding:"required"`
}
