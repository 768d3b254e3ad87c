package ui

import (
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// newTable builds the shared table style: green headers, blue rules, no
// outer borders. columns tints each column in order.
func newTable(w io.Writer, maxWidth int, columns ...renderer.Tint) *tablewriter.Table {
	colorCfg := renderer.ColorizedConfig{
		Header: renderer.Tint{
			FG: renderer.Colors{color.FgGreen, color.Bold},
		},
		Column: renderer.Tint{
			FG:      renderer.Colors{color.FgCyan},
			Columns: columns,
		},
		Border:    renderer.Tint{FG: renderer.Colors{color.FgBlue}},
		Separator: renderer.Tint{FG: renderer.Colors{color.FgBlue}},
	}

	borders := tw.Border{
		Left:   tw.Off,
		Right:  tw.Off,
		Top:    tw.Off,
		Bottom: tw.Off,
	}

	// Horizontal rules only
	symbols := tw.NewSymbolCustom("HorizontalOnly").
		WithRow("─").
		WithCenter("─").
		WithColumn(" ")

	return tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewColorized(colorCfg)),
		tablewriter.WithRendition(tw.Rendition{Borders: borders, Symbols: symbols}),
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row: tw.CellConfig{
				Formatting:   tw.CellFormatting{AutoWrap: tw.WrapNormal},
				Alignment:    tw.CellAlignment{Global: tw.AlignLeft},
				ColMaxWidths: tw.CellWidth{Global: maxWidth},
			},
		}),
	)
}

// NewExtensionsTable creates the table used for extension listings:
// name, OID, critical flag and decoded value.
func NewExtensionsTable(w io.Writer) *tablewriter.Table {
	return newTable(w, 48,
		renderer.Tint{FG: renderer.Colors{color.FgMagenta}}, // Extension
		renderer.Tint{FG: renderer.Colors{color.FgHiBlack}}, // OID
		renderer.Tint{FG: renderer.Colors{color.FgRed}},     // Critical
		renderer.Tint{FG: renderer.Colors{color.Reset}},     // Value
	)
}

// NewChainTable creates the table used for chain validation results.
func NewChainTable(w io.Writer) *tablewriter.Table {
	return newTable(w, 40,
		renderer.Tint{FG: renderer.Colors{color.Reset}},     // Position
		renderer.Tint{FG: renderer.Colors{color.FgMagenta}}, // Subject
		renderer.Tint{FG: renderer.Colors{color.Reset}},     // Status
	)
}
