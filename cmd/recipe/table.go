package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dgallion1/recipebox/internal/recipe"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func ingredientTable(engine *recipe.Engine, r recipe.Recipe) string {
	ings := r.Ingredients()
	rows := make([][]string, 0, len(ings))
	for i, ing := range ings {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			engine.AmountText(ing),
			ing.Quantity.Unit().Name,
			ing.Name,
			ing.Note,
		})
	}
	return renderTable(
		[]string{"#", "Amount", "Unit", "Ingredient", "Note"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft},
	)
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
