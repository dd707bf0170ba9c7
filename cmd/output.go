package cmd

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/sadopc/pomotrend/internal/countdown"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	mutedColor  = color.New(color.Faint)
	goodColor   = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
)

var phaseColors = map[countdown.Phase]*color.Color{
	countdown.Focus:      color.New(color.FgRed, color.Bold),
	countdown.ShortBreak: color.New(color.FgGreen, color.Bold),
	countdown.LongBreak:  color.New(color.FgBlue, color.Bold),
}

func phaseColor(p countdown.Phase) *color.Color {
	if c, ok := phaseColors[p]; ok {
		return c
	}
	return color.New(color.Bold)
}

// renderTable writes rows under headers as a borderless, left aligned table.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)

	table.Header(headers)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
