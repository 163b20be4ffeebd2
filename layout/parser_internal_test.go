package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParserWithoutLoggerSharesDiscardLogger(t *testing.T) {
	a, b := &Parser{}, NewParser(nil)
	assert.Same(t, a.log(), b.log())
	assert.False(t, a.log().Enabled(t.Context(), -8))
}
