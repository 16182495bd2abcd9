package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAlignsColumns(t *testing.T) {
	lines := Format([][]string{
		{"gg", "first"},
		{"pgdown", "page"},
	}, nil)
	assert.Equal(t, []string{
		"gg      first",
		"pgdown  page",
	}, lines)
}

func TestFormatRightAlignment(t *testing.T) {
	lines := Format([][]string{
		{"api", "3"},
		{"web", "12"},
	}, []Alignment{AlignLeft, AlignRight})
	assert.Equal(t, []string{"api   3", "web  12"}, lines)
}

func TestColumnsUseDisplayWidth(t *testing.T) {
	cols := Columns([][]string{{"↑/↓", "x"}, {"日本", "y"}}, nil)
	assert.Equal(t, "↑/↓ ", cols[0][0])
	assert.Equal(t, "日本", cols[1][0])
}

func TestFormatEmpty(t *testing.T) {
	assert.Nil(t, Format(nil, nil))
}
