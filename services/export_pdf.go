package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF creates a PDF of a report using maroto/v2: the generated
// message text followed by one table per tool.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addMessage(m, data)
	for _, t := range data.Tables {
		addTable(m, t)
	}
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
		),
	)

	grey := &props.Color{Red: 80, Green: 80, Blue: 80}
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(data.Owner, props.Text{Size: 9, Align: align.Left, Color: grey}),
			),
			col.New(6).Add(
				text.New("Updated: "+data.UpdatedDate, props.Text{Size: 9, Align: align.Right, Color: grey}),
			),
		),
	)

	m.AddRows(row.New(4))
}

// addMessage prints the report text in a monospaced font. Blank lines keep
// their height so the layout matches what gets pasted into chat.
func addMessage(m core.Maroto, data ExportData) {
	mono := props.Text{
		Family: fontfamily.Courier,
		Size:   9,
		Align:  align.Left,
	}
	for _, line := range data.MessageLines() {
		if line == "" {
			m.AddRows(row.New(3))
			continue
		}
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(line, mono))))
	}
	m.AddRows(row.New(6))
}

func addTable(m core.Maroto, t ExportTable) {
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(t.Title, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Left}),
			),
		),
	)

	widths := columnWidths(len(t.Headers))

	headerCell := &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	header := row.New(7)
	for i, h := range t.Headers {
		header.Add(col.New(widths[i]).Add(text.New(h, headerText)).WithStyle(headerCell))
	}
	m.AddRows(header)

	stripe := &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
	cellText := props.Text{Size: 7, Align: align.Center}
	for i, values := range t.Rows {
		r := row.New(7)
		for c, v := range values {
			column := col.New(widths[c]).Add(text.New(v, cellText))
			if i%2 == 1 {
				column = column.WithStyle(stripe)
			}
			r.Add(column)
		}
		m.AddRows(r)
	}

	m.AddRows(row.New(6))
}

// columnWidths spreads the 12 grid columns over n table columns, giving the
// remainder to the last (notes) column.
func columnWidths(n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	base := 12 / n
	if base < 1 {
		base = 1
	}
	for i := range widths {
		widths[i] = base
	}
	if rest := 12 - base*n; rest > 0 {
		widths[n-1] += rest
	}
	return widths
}

func addFooter(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Created %s", data.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}
