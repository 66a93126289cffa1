package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "gross revenue", NormalizeHeader("  Gross  Revenue "))
	assert.Equal(t, "periode data", NormalizeHeader("Periode\tData"))
}

func TestCellText(t *testing.T) {
	assert.Equal(t, "", CellText(nil))
	assert.Equal(t, "1500", CellText(1500.0))
	assert.Equal(t, "0.15", CellText(0.15))
	assert.Equal(t, "7", CellText(7))
	assert.Equal(t, "2024-05-01 10:00:00", CellText(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty(0.0))
	assert.False(t, IsEmpty("x"))
}
