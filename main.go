package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"fieldreports/collections"
	"fieldreports/config"
	"fieldreports/handlers"
	"fieldreports/services"
)

func main() {
	app := pocketbase.New()
	config.RegisterFlags(app.RootCmd.PersistentFlags())

	var saver *services.DraftSaver

	app.RootCmd.AddCommand(&cobra.Command{
		Use:   "upgrade-reports",
		Short: "Rewrite every saved report in the current snapshot format",
		RunE: func(cmd *cobra.Command, args []string) error {
			collections.Setup(app)
			return collections.UpgradeAllReports(app)
		},
	})

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		cfg, err := config.Load(app.RootCmd.PersistentFlags())
		if err != nil {
			return err
		}

		collections.Setup(app)
		if cfg.SeedDemo {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		if err := collections.UpgradeAllReports(app); err != nil {
			log.Printf("Warning: report upgrade failed: %v", err)
		}

		drafts := collections.NewDraftStore(app)
		saver = services.NewDraftSaver(drafts, cfg.DraftDelay)
		workspaces := services.NewWorkspaces(drafts, saver, cfg.MaxHistory)
		reports := collections.NewReportStore(app)

		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.RequestIDMiddleware())

		// The session cookie is only honoured on the app pages, never on /api.
		web := se.Router.Group("")
		web.BindFunc(handlers.LoadAuthFromCookie(app))

		// ── Auth ─────────────────────────────────────────────────
		web.GET("/login", handlers.HandleLoginPage())
		web.POST("/login", handlers.HandleLogin(app))

		g := web.Group("")
		g.BindFunc(handlers.RequireLogin())

		g.POST("/logout", handlers.HandleLogout(workspaces))

		// ── Workspace ────────────────────────────────────────────
		g.GET("/{$}", handlers.HandleWorkspacePage(workspaces))
		g.POST("/project", handlers.HandleProjectUpdate(workspaces))

		// Tool readings (specific tool routes before the {tool} patterns)
		g.POST("/tools/regrade/readings/{id}/calculate", handlers.HandleCalculateRegrade(workspaces))
		g.POST("/tools/pipe-level/readings/{id}/extra", handlers.HandleAddExtraDistance(workspaces))
		g.DELETE("/tools/pipe-level/readings/{id}/extra/{extraId}", handlers.HandleRemoveExtraDistance(workspaces))
		g.POST("/tools/{tool}/readings", handlers.HandleAddReading(workspaces))
		g.POST("/tools/{tool}/readings/{id}", handlers.HandleUpdateReading(workspaces))
		g.DELETE("/tools/{tool}/readings/{id}", handlers.HandleDeleteReading(workspaces))
		g.POST("/tools/{tool}/readings/{id}/move", handlers.HandleMoveReading(workspaces))
		g.POST("/tools/{tool}/clear", handlers.HandleClearTool(workspaces))

		// ── Preview ──────────────────────────────────────────────
		g.GET("/preview", handlers.HandlePreviewText(workspaces))
		g.POST("/preview", handlers.HandlePreviewEdit(workspaces))
		g.POST("/preview/reset", handlers.HandlePreviewReset(workspaces))

		// ── Calculator ───────────────────────────────────────────
		g.POST("/calculator", handlers.HandleCalculatorKey(workspaces))
		g.POST("/calculator/history/clear", handlers.HandleCalculatorHistoryClear(workspaces))

		// ── Saved reports ────────────────────────────────────────
		g.GET("/reports", handlers.HandleReportList(reports))
		g.POST("/reports", handlers.HandleReportSave(workspaces, reports))
		g.POST("/reports/new", handlers.HandleNewReport(workspaces))
		g.GET("/reports/{id}", handlers.HandleReportView(reports))
		g.GET("/reports/{id}/message", handlers.HandleReportMessage(reports))
		g.POST("/reports/{id}/edit", handlers.HandleReportEdit(workspaces, reports))
		g.POST("/reports/{id}/save", handlers.HandleReportUpdate(workspaces, reports))
		g.DELETE("/reports/{id}", handlers.HandleReportDelete(workspaces, reports))
		g.GET("/reports/{id}/export/excel", handlers.HandleReportExportExcel(reports))
		g.GET("/reports/{id}/export/pdf", handlers.HandleReportExportPDF(reports))
		g.GET("/reports/{id}/export/json", handlers.HandleReportExportJSON(reports))

		return se.Next()
	})

	// Write pending drafts before the process exits
	app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
		if saver != nil {
			saver.Flush()
		}
		return e.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
