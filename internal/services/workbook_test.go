package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheet)

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestLoadLineItemsSheetNotFound(t *testing.T) {
	wb := buildWorkbook(t, "Orders", [][]interface{}{
		{"Item ID", "Variation ID", "Quantity"},
	})

	_, err := LoadLineItems(wb)
	var sheetErr *SheetNotFoundError
	require.ErrorAs(t, err, &sheetErr)
	assert.Equal(t, SheetName, sheetErr.Sheet)
	assert.Contains(t, sheetErr.Available, "Orders")
}

func TestLoadLineItemsMissingColumnsNamesAll(t *testing.T) {
	wb := buildWorkbook(t, SheetName, [][]interface{}{
		{"Item ID", "Something Else"},
	})

	_, err := LoadLineItems(wb)
	var colsErr *MissingColumnsError
	require.ErrorAs(t, err, &colsErr)
	assert.Equal(t, []string{ColumnVariationID, ColumnQuantity}, colsErr.Columns)
}

func TestLoadLineItemsMissingQuantityOnly(t *testing.T) {
	wb := buildWorkbook(t, SheetName, [][]interface{}{
		{"Item ID", "Variation ID", "Item Name"},
		{7413, 0, "Tea"},
	})

	items, err := LoadLineItems(wb)
	var colsErr *MissingColumnsError
	require.ErrorAs(t, err, &colsErr)
	assert.Equal(t, []string{ColumnQuantity}, colsErr.Columns)
	assert.Nil(t, items)
}

func TestLoadLineItemsHeadersMatchedLoosely(t *testing.T) {
	wb := buildWorkbook(t, SheetName, [][]interface{}{
		{"  item id ", "VARIATION ID", "quantity", "Product Item Name"},
		{7413, 0, 3, "Green Tea"},
	})

	items, err := LoadLineItems(wb)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(7413), items[0].ItemID)
	assert.Equal(t, 3.0, items[0].Quantity)
	assert.Equal(t, "Green Tea", items[0].ItemName)
}

func TestLoadLineItemsDropsFullyEmptyRows(t *testing.T) {
	wb := buildWorkbook(t, SheetName, [][]interface{}{
		{"Item ID", "Variation ID", "Quantity", "Item Name"},
		{7413, "", 2, "Green Tea"},
		{"", "", "", "Name without any required fields"},
		{"", "", ""},
		{9000, "", "", "Kept despite empty quantity"},
	})

	items, err := LoadLineItems(wb)
	require.NoError(t, err)
	// A name alone does not keep a row; all three required cells are empty.
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].RowNumber)
	assert.Equal(t, 5, items[1].RowNumber)
	assert.False(t, items[1].QuantityPresent)
}

func TestDisplayNameWithVariationAndSeparator(t *testing.T) {
	wb := buildWorkbook(t, SheetName, [][]interface{}{
		{"Item ID", "Variation ID", "Quantity", "Item Name"},
		{7413, 201, 1, "Green Tea - 250g"},
	})

	items, err := LoadLineItems(wb)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Green Tea + 250g (7413 + 201)", items[0].DisplayName)
}

func TestDisplayNameWithVariationNoSeparator(t *testing.T) {
	wb := buildWorkbook(t, SheetName, [][]interface{}{
		{"Item ID", "Variation ID", "Quantity", "Item Name"},
		{7413, 201, 1, "Green Tea 250g"},
	})

	items, err := LoadLineItems(wb)
	require.NoError(t, err)
	assert.Equal(t, "Green Tea 250g (7413 + 201)", items[0].DisplayName)
}

func TestDisplayNameWithoutVariation(t *testing.T) {
	wb := buildWorkbook(t, SheetName, [][]interface{}{
		{"Item ID", "Variation ID", "Quantity", "Item Name"},
		{7413, 0, 1, "Green Tea"},
	})

	items, err := LoadLineItems(wb)
	require.NoError(t, err)
	assert.Equal(t, "Green Tea (7413)", items[0].DisplayName)
}

func TestDisplayNameSynthesizedWithoutNameColumn(t *testing.T) {
	wb := buildWorkbook(t, SheetName, [][]interface{}{
		{"Item ID", "Variation ID", "Quantity"},
		{7413, 0, 1},
	})

	items, err := LoadLineItems(wb)
	require.NoError(t, err)
	assert.Equal(t, "Item 7413", items[0].DisplayName)
}

func TestLoadLineItemsNonNumericVariationMeansNoVariation(t *testing.T) {
	wb := buildWorkbook(t, SheetName, [][]interface{}{
		{"Item ID", "Variation ID", "Quantity", "Item Name"},
		{7413, "nan", 1, "Green Tea"},
	})

	items, err := LoadLineItems(wb)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(0), items[0].VariationID)
	id, ok := items[0].EffectiveID()
	assert.True(t, ok)
	assert.Equal(t, int64(7413), id)
}
