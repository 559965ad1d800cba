package googleDriveApi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMimeTypeOf(t *testing.T) {
	assert.Equal(t, xlsxMimeType, mimeTypeOf("trades_2024-05-01_10-00.xlsx"))
	assert.Equal(t, "application/pdf", mimeTypeOf("trades.pdf"))
	assert.Empty(t, mimeTypeOf("trades"))
}
