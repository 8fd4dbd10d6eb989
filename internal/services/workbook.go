package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"labels-service/internal/models"
)

// SheetName is the sheet the loader reads, matched literally.
const SheetName = "Item Summary"

// Canonical column names. Headers are matched against these ignoring case
// and whitespace; the item-name column is detected by substring.
const (
	ColumnItemID      = "Item ID"
	ColumnVariationID = "Variation ID"
	ColumnQuantity    = "Quantity"
	ColumnItemName    = "Item Name"
)

// SheetNotFoundError is returned when the workbook has no "Item Summary"
// sheet. Available lists the sheet names that were present.
type SheetNotFoundError struct {
	Sheet     string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found; available sheets: %s", e.Sheet, strings.Join(e.Available, ", "))
}

// MissingColumnsError names every required column the header row lacks,
// not just the first.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// normalizeHeader lowercases and strips all whitespace so "item id",
// "Item  ID " and "ITEM ID" all match.
func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), ""))
}

// LoadLineItems parses the workbook's "Item Summary" sheet into line items.
// Rows where all three required cells are empty are dropped; rows with only
// some cells empty are retained and may produce row errors downstream.
func LoadLineItems(r io.Reader) ([]models.LineItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	idx, _ := f.GetSheetIndex(SheetName)
	if idx < 0 {
		return nil, &SheetNotFoundError{Sheet: SheetName, Available: sheets}
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", SheetName, err)
	}
	if len(rows) == 0 {
		return nil, &MissingColumnsError{Columns: []string{ColumnItemID, ColumnVariationID, ColumnQuantity}}
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	items := make([]models.LineItem, 0, len(rows)-1)
	for i, row := range rows[1:] {
		itemText := cellAt(row, cols.itemID)
		variationText := cellAt(row, cols.variationID)
		quantityText := cellAt(row, cols.quantity)

		// Drop fully-empty rows; keep partially-empty ones.
		if ParseOptionalText(itemText) == "" &&
			ParseOptionalText(variationText) == "" &&
			ParseOptionalText(quantityText) == "" {
			continue
		}

		li := models.LineItem{
			RowNumber:  i + 2, // 1-based, offset by the header row
			ItemIDText: ParseOptionalText(itemText),
		}
		li.ItemID, li.ItemIDPresent = ParseOptionalInt(itemText)
		// A non-numeric variation cell means "no variation", never an error.
		li.VariationID, _ = ParseOptionalInt(variationText)
		li.Quantity, li.QuantityPresent = ParseOptionalNumber(quantityText)

		if cols.itemName >= 0 {
			li.ItemName = ParseOptionalText(cellAt(row, cols.itemName))
			li.DisplayName = displayName(li)
		} else {
			// No name column at all: synthesize a label from the item id.
			li.DisplayName = "Item " + li.ItemIDText
		}

		items = append(items, li)
	}

	return items, nil
}

type columnMap struct {
	itemID      int
	variationID int
	quantity    int
	itemName    int // -1 when no name column exists
}

func mapColumns(header []string) (*columnMap, error) {
	cols := &columnMap{itemID: -1, variationID: -1, quantity: -1, itemName: -1}

	for i, h := range header {
		switch normalizeHeader(h) {
		case normalizeHeader(ColumnItemID):
			cols.itemID = i
		case normalizeHeader(ColumnVariationID):
			cols.variationID = i
		case normalizeHeader(ColumnQuantity):
			cols.quantity = i
		}
		if cols.itemName < 0 && strings.Contains(normalizeHeader(h), normalizeHeader(ColumnItemName)) {
			cols.itemName = i
		}
	}

	var missing []string
	if cols.itemID < 0 {
		missing = append(missing, ColumnItemID)
	}
	if cols.variationID < 0 {
		missing = append(missing, ColumnVariationID)
	}
	if cols.quantity < 0 {
		missing = append(missing, ColumnQuantity)
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	return cols, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// displayName derives the human-readable label for a row. It is a pure
// function of the other fields and is never mutated independently.
func displayName(li models.LineItem) string {
	if li.VariationID != 0 {
		if parent, variation, found := strings.Cut(li.ItemName, " - "); found {
			return fmt.Sprintf("%s + %s (%s + %d)", parent, variation, li.ItemIDText, li.VariationID)
		}
		return fmt.Sprintf("%s (%s + %d)", li.ItemName, li.ItemIDText, li.VariationID)
	}
	return fmt.Sprintf("%s (%s)", li.ItemName, li.ItemIDText)
}
