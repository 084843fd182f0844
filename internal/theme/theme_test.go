package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestProgressBarClamps(t *testing.T) {
	assert.Equal(t, 15, lipgloss.Width(ProgressBar(50, 10)))
	assert.True(t, strings.HasSuffix(ProgressBar(150, 4), "100%"))
	assert.True(t, strings.HasSuffix(ProgressBar(-3, 4), "  0%"))
}

func TestTableRendersRows(t *testing.T) {
	out := Table([]string{"ID", "Title"}, [][]string{{"t1", "Write report"}}).String()
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "Title")
}
