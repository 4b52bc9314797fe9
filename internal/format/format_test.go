package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestASCII_BasicTable(t *testing.T) {
	tb := NewTable(ASCII)
	tb.Header("Site", "Launches", "Success")
	tb.Row("KSC LC 39A", 13, "76.9%")
	tb.Row("VAFB SLC 4E", 10, "40.0%")
	out := tb.String()

	assert.Contains(t, out, "SITE", "StyleLight upper-cases headers")
	assert.Contains(t, out, "KSC LC 39A")
	assert.Contains(t, out, "76.9%")
	assert.Contains(t, out, "───", "StyleLight draws box characters")
}

func TestMarkdown_WithFooter(t *testing.T) {
	tb := NewTable(Markdown)
	tb.Header("Outcome", "Count")
	tb.Row("Failure", 1)
	tb.Row("Success", 3)
	tb.Footer("Total", 4)
	out := tb.String()

	assert.Contains(t, out, "| Outcome")
	assert.Contains(t, out, "---")
	assert.Contains(t, out, "Total")
}

func TestCSV(t *testing.T) {
	tb := NewTable(CSV)
	tb.Header("FlightNumber", "PayloadMass")
	tb.Row(1, 525)
	lines := strings.Split(strings.TrimSpace(tb.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "flightnumber,payloadmass", strings.ToLower(lines[0]))
	assert.Equal(t, "1,525", lines[1])
}

func TestColumns_AlignRight(t *testing.T) {
	tb := NewTable(ASCII)
	tb.Header("Outcome", "Count")
	tb.Row("Failure", 1)
	tb.Row("Success", 1000)
	tb.Columns(ColumnConfig{Number: 2, Align: AlignRight})

	for _, line := range strings.Split(tb.String(), "\n") {
		if strings.Contains(line, "Failure") {
			assert.Contains(t, line, "    1 │")
		}
	}
}

func TestNumbers(t *testing.T) {
	assert.Equal(t, "1,234", Count(1234))
	assert.Equal(t, "56", Count(int64(56)))
	assert.Equal(t, "9,600.0 kg", Kilograms(9600))
	assert.Equal(t, "66.7%", Percent(2.0/3.0))
}
