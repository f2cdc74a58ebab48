package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownBasics(t *testing.T) {
	html, err := Markdown("# Tour stop\n\nScan the **marker** at the entrance.")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Tour stop</h1>")
	assert.Contains(t, html, "<strong>marker</strong>")
}

func TestMarkdownTable(t *testing.T) {
	html, err := Markdown("| stop | points |\n| --- | --- |\n| lobby | 10 |")
	require.NoError(t, err)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>lobby</td>")
}

func TestMarkdownAutolink(t *testing.T) {
	html, err := Markdown("See https://example.org/tour for details.")
	require.NoError(t, err)
	assert.Contains(t, html, `<a href="https://example.org/tour">`)
}

func TestMarkdownEmptyInput(t *testing.T) {
	html, err := Markdown("")
	require.NoError(t, err)
	assert.Empty(t, html)
}
