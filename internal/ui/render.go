package ui

import (
	"bytes"
	"github.com/guptarohit/asciigraph"
	"github.com/mgutz/ansi"
	"github.com/tomlazar/table"
)

// RenderTable renders the given rows as a table with alternating row colors
func RenderTable(headers []string, rows [][]string, color bool) (string, error) {
	tab := table.Table{
		Headers: headers,
		Rows:    rows,
	}
	var buf bytes.Buffer
	err := tab.WriteTable(&buf, &table.Config{
		ShowIndex:       false,
		Color:           color,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderGraph plots the given values, an empty series results in an empty string
func RenderGraph(values []float64, caption string) string {
	if len(values) <= 0 {
		return ""
	}
	return asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
}
