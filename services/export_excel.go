package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const messageSheet = "Message"

// GenerateExcel creates a workbook for a report: a "Message" sheet holding
// the generated report text one line per row, then one sheet per tool.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, messageSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size:  10,
			Color: "#555555",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	messageStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Family: "Consolas",
			Size:   11,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create message style: %w", err)
	}

	// Column header style: bold, white text, charcoal background, centered.
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	cellStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 10,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create cell style: %w", err)
	}

	// ── Message sheet ───────────────────────────────────────────────────

	if err := f.SetColWidth(messageSheet, "A", "A", 60); err != nil {
		return nil, fmt.Errorf("set col width: %w", err)
	}
	f.SetCellValue(messageSheet, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(messageSheet, "A1", "A1", titleStyle)
	f.SetCellValue(messageSheet, "A2", sanitizeExcelCell(subtitle(data)))
	f.SetCellStyle(messageSheet, "A2", "A2", subtitleStyle)

	row := 4
	for _, line := range data.MessageLines() {
		cell := fmt.Sprintf("A%d", row)
		f.SetCellValue(messageSheet, cell, sanitizeExcelCell(line))
		f.SetCellStyle(messageSheet, cell, cell, messageStyle)
		row++
	}

	// ── Tool sheets ─────────────────────────────────────────────────────

	for _, t := range data.Tables {
		sheet := t.Title
		if len(sheet) > 31 {
			sheet = sheet[:31]
		}
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
		}

		lastCol, err := excelize.ColumnNumberToName(len(t.Headers))
		if err != nil {
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", sheet, err)
		}

		for i, h := range t.Headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}
		f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)

		for r, values := range t.Rows {
			for c, v := range values {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				f.SetCellValue(sheet, cell, sanitizeExcelCell(v))
			}
			rowStr := fmt.Sprintf("%d", r+2)
			f.SetCellStyle(sheet, "A"+rowStr, lastCol+rowStr, cellStyle)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

func subtitle(data ExportData) string {
	s := ""
	if data.Owner != "" {
		s = "By " + data.Owner
	}
	if data.UpdatedDate != "" {
		if s != "" {
			s += ", "
		}
		s += "updated " + data.UpdatedDate
	}
	return s
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
