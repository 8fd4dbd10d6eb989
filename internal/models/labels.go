package models

// LineItem is one row of the "Item Summary" sheet after normalization.
// Raw cell text is kept alongside the parsed values so that downstream
// row errors can report what the operator actually typed.
type LineItem struct {
	// RowNumber is the 1-based spreadsheet row (header row is 1).
	RowNumber int `json:"rowNumber"`

	ItemID        int64  `json:"itemId"`
	ItemIDPresent bool   `json:"itemIdPresent"`
	ItemIDText    string `json:"itemIdText"`

	// VariationID is 0 when the row has no variation.
	VariationID int64 `json:"variationId"`

	Quantity        float64 `json:"quantity"`
	QuantityPresent bool    `json:"quantityPresent"`

	ItemName    string `json:"itemName,omitempty"`
	DisplayName string `json:"displayName"`
}

// EffectiveID resolves the identifier used for label lookup: the variation
// id when present and non-zero, otherwise the item id. The same rule feeds
// display-name derivation in the loader.
func (li LineItem) EffectiveID() (int64, bool) {
	if li.VariationID != 0 {
		return li.VariationID, true
	}
	if li.ItemIDPresent {
		return li.ItemID, true
	}
	return 0, false
}

// ManifestEntry records one successfully processed row, in row order.
type ManifestEntry struct {
	DisplayName string `json:"displayName"`
	EffectiveID int64  `json:"effectiveId"`
	Quantity    int    `json:"quantity"`
}

// RowError is a non-fatal per-row failure.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// AssemblyResult is the accumulated outcome of one assembly run. It is
// mutated only by the assembler during the run and is immutable once the
// run completes.
type AssemblyResult struct {
	ProcessedCount     int             `json:"processedCount"`
	TotalPages         int             `json:"totalPages"`
	MissingIdentifiers []int64         `json:"missingIdentifiers"`
	Errors             []RowError      `json:"errors"`
	Manifest           []ManifestEntry `json:"manifest"`
}

// NewAssemblyResult returns an empty result with allocated slices so the
// JSON rendering always shows arrays, never null.
func NewAssemblyResult() *AssemblyResult {
	return &AssemblyResult{
		MissingIdentifiers: make([]int64, 0),
		Errors:             make([]RowError, 0),
		Manifest:           make([]ManifestEntry, 0),
	}
}

// LabelStoreReport is the advisory presence/count scan of the label store.
type LabelStoreReport struct {
	Root      string `json:"root"`
	Available bool   `json:"available"`
	FileCount int    `json:"fileCount"`
}

// RunStatus tracks an assembly run through its lifecycle.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// RunResponse is the API view of an assembly run.
type RunResponse struct {
	ID                string          `json:"id"`
	FileName          string          `json:"fileName"`
	Status            RunStatus       `json:"status"`
	Progress          float64         `json:"progress"`
	DocumentName      string          `json:"documentName,omitempty"`
	DocumentAvailable bool            `json:"documentAvailable"`
	Result            *AssemblyResult `json:"result,omitempty"`
}
