package services

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestGenerateExcel_Report(t *testing.T) {
	result, err := GenerateExcel(BuildExportData(sampleReport()))
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateExcel() returned empty bytes")
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{"Message", "Pipe Level Check", "Laser Converter", "General Notes"}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v, want %v", sheets, want)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, sheets[i], want[i])
		}
	}

	title, _ := f.GetCellValue("Message", "A1")
	if title != "Riverside Stage 2" {
		t.Errorf("expected title 'Riverside Stage 2', got %q", title)
	}
	first, _ := f.GetCellValue("Message", "A4")
	if first != "Riverside Stage 2" {
		t.Errorf("expected message to start with the header, got %q", first)
	}
	section, _ := f.GetCellValue("Message", "A6")
	if section != "PIPE LEVEL CHECKS" {
		t.Errorf("expected PIPE LEVEL CHECKS at A6, got %q", section)
	}

	status, _ := f.GetCellValue("Pipe Level Check", "F2")
	if status != "LEVEL" {
		t.Errorf("expected status LEVEL, got %q", status)
	}
}

func TestGenerateExcel_EmptyReport(t *testing.T) {
	result, err := GenerateExcel(ExportData{Title: "Untitled"})
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 {
		t.Errorf("expected only the message sheet, got %v", sheets)
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"", ""},
		{"MH1", "MH1"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+30", "'+30"},
		{"@cmd", "'@cmd"},
	}

	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.input); got != tt.expect {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}
