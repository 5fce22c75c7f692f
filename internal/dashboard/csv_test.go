package dashboard

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExportCSV(t *testing.T) {
	expenses := []Expense{
		{Description: "Lunch", Amount: decimal.NewFromInt(250), Type: "Food"},
		{Description: "Bus", Amount: decimal.RequireFromString("2.50"), Type: "Transport"},
	}

	assert.Equal(t, "Description,Amount,Category\nLunch,250,Food\nBus,2.5,Transport", ExportCSV(expenses))
}

func TestExportCSV_Empty(t *testing.T) {
	assert.Equal(t, "Description,Amount,Category\n", ExportCSV(nil))
}

func TestExportCSV_NoQuoting(t *testing.T) {
	expenses := []Expense{{Description: "Tea, milk", Amount: decimal.NewFromInt(3), Type: "Food"}}

	assert.Equal(t, "Description,Amount,Category\nTea, milk,3,Food", ExportCSV(expenses))
}
