package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"fieldreports/collections"
	"fieldreports/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

// exportFilename is "FieldReport_<title>_<yyyy-mm-dd>.<ext>", dated by the
// report's last update.
func exportFilename(data services.ExportData, updated string, ext string) string {
	return fmt.Sprintf("FieldReport_%s_%s.%s", sanitizeFilename(data.Title), updated, ext)
}

// HandleReportExportExcel returns a handler that generates and downloads an Excel workbook for a saved report.
func HandleReportExportExcel(store *collections.ReportStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		r, err := store.Load(e.Request.Context(), e.Request.PathValue("id"), ownerID(e))
		if err != nil {
			return RespondError(e, "export_excel", err)
		}

		data := services.BuildExportData(r)
		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := exportFilename(data, r.UpdatedAt.Format("2006-01-02"), "xlsx")

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleReportExportPDF returns a handler that generates and downloads a PDF for a saved report.
func HandleReportExportPDF(store *collections.ReportStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		r, err := store.Load(e.Request.Context(), e.Request.PathValue("id"), ownerID(e))
		if err != nil {
			return RespondError(e, "export_pdf", err)
		}

		data := services.BuildExportData(r)
		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := exportFilename(data, r.UpdatedAt.Format("2006-01-02"), "pdf")

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleReportExportJSON downloads a saved report as a JSON document.
func HandleReportExportJSON(store *collections.ReportStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		r, err := store.Load(e.Request.Context(), e.Request.PathValue("id"), ownerID(e))
		if err != nil {
			return RespondError(e, "export_json", err)
		}

		body, err := json.MarshalIndent(r.Document(), "", "  ")
		if err != nil {
			log.Printf("export_json: failed to encode: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate JSON file")
		}

		filename := exportFilename(services.BuildExportData(r), r.UpdatedAt.Format("2006-01-02"), "json")

		e.Response.Header().Set("Content-Type", "application/json")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(body)
		return nil
	}
}
