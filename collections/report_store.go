package collections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"fieldreports/models"
	"fieldreports/services"
)

// ReportInput is what the workspace hands over when saving a report.
type ReportInput struct {
	ProjectName string
	Stage       string
	Snapshot    models.Snapshot
}

// ReportStore keeps saved reports in the reports collection. Every operation
// is scoped to an owner: an empty owner fails with ErrUnauthenticated and a
// report owned by someone else fails with ErrForbidden.
type ReportStore struct {
	app core.App
}

func NewReportStore(app core.App) *ReportStore {
	return &ReportStore{app: app}
}

// Save creates a new report and returns its id.
func (s *ReportStore) Save(ctx context.Context, ownerID, ownerLabel string, in ReportInput) (string, error) {
	if ownerID == "" {
		return "", services.ErrUnauthenticated
	}

	col, err := s.app.FindCollectionByNameOrId(ReportsCollection)
	if err != nil {
		return "", services.Transient("find reports collection", err)
	}

	rec := core.NewRecord(col)
	rec.Set("owner", ownerID)
	rec.Set("owner_label", ownerLabel)
	rec.Set("project_name", in.ProjectName)
	rec.Set("stage", in.Stage)
	setSnapshot(rec, in.Snapshot)

	if err := s.app.SaveWithContext(ctx, rec); err != nil {
		return "", services.Transient("save report", err)
	}
	return rec.Id, nil
}

// LoadAll returns the owner's reports, most recently updated first.
func (s *ReportStore) LoadAll(ctx context.Context, ownerID string) ([]models.Report, error) {
	if ownerID == "" {
		return nil, services.ErrUnauthenticated
	}

	records := []*core.Record{}
	err := s.app.RecordQuery(ReportsCollection).
		AndWhere(dbx.NewExp("owner = {:owner}", dbx.Params{"owner": ownerID})).
		OrderBy("updated DESC", "created DESC").
		WithContext(ctx).
		All(&records)
	if err != nil {
		return nil, services.Transient("list reports", err)
	}

	reports := make([]models.Report, 0, len(records))
	for _, rec := range records {
		r, err := toReport(rec)
		if err != nil {
			return nil, fmt.Errorf("report %s: %w", rec.Id, err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Load returns one report of the owner, upgraded to the current snapshot shape.
func (s *ReportStore) Load(ctx context.Context, reportID, ownerID string) (models.Report, error) {
	rec, err := s.owned(ctx, reportID, ownerID)
	if err != nil {
		return models.Report{}, err
	}
	r, err := toReport(rec)
	if err != nil {
		return models.Report{}, fmt.Errorf("report %s: %w", reportID, err)
	}
	return r, nil
}

// Update overwrites the project details and snapshot of an existing report.
func (s *ReportStore) Update(ctx context.Context, reportID, ownerID string, in ReportInput) error {
	rec, err := s.owned(ctx, reportID, ownerID)
	if err != nil {
		return err
	}

	rec.Set("project_name", in.ProjectName)
	rec.Set("stage", in.Stage)
	setSnapshot(rec, in.Snapshot)

	if err := s.app.SaveWithContext(ctx, rec); err != nil {
		return services.Transient("update report", err)
	}
	return nil
}

func (s *ReportStore) Delete(ctx context.Context, reportID, ownerID string) error {
	rec, err := s.owned(ctx, reportID, ownerID)
	if err != nil {
		return err
	}
	if err := s.app.DeleteWithContext(ctx, rec); err != nil {
		return services.Transient("delete report", err)
	}
	return nil
}

// owned fetches a report record and checks it belongs to ownerID.
func (s *ReportStore) owned(ctx context.Context, reportID, ownerID string) (*core.Record, error) {
	if ownerID == "" {
		return nil, services.ErrUnauthenticated
	}
	if reportID == "" {
		return nil, services.ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return nil, services.Transient("load report", err)
	}

	rec, err := s.app.FindRecordById(ReportsCollection, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrNotFound
		}
		return nil, services.Transient("load report", err)
	}

	if rec.GetString("owner") != ownerID {
		s.app.Logger().Warn("report access denied",
			"report", reportID,
			"owner", rec.GetString("owner"),
			"caller", ownerID,
		)
		return nil, services.ErrForbidden
	}
	return rec, nil
}

// setSnapshot writes each tool store into its JSON field.
func setSnapshot(rec *core.Record, snap models.Snapshot) {
	rec.Set("schema_version", models.SchemaVersion)
	rec.Set("pipe_level_check", snap.PipeLevelCheck)
	rec.Set("laser", snap.Laser)
	rec.Set("regrade", snap.Regrade)
	rec.Set("grade_check", snap.GradeCheck)
	rec.Set("chainage_il", snap.ChainageIL)
	rec.Set("general_notes", snap.GeneralNotes)
}

// rawSnapshot reassembles the snapshot document from the record's JSON
// fields, exactly as stored.
func rawSnapshot(rec *core.Record) map[string]any {
	raw := map[string]any{"schemaVersion": rec.GetInt("schema_version")}
	for _, tf := range toolFields {
		var v any
		if err := rec.UnmarshalJSONField(tf.field, &v); err != nil || v == nil {
			continue
		}
		raw[tf.key] = v
	}
	return raw
}

func toReport(rec *core.Record) (models.Report, error) {
	snap, err := UpgradeSnapshot(rawSnapshot(rec))
	if err != nil {
		return models.Report{}, err
	}
	return models.Report{
		ID:          rec.Id,
		OwnerID:     rec.GetString("owner"),
		OwnerLabel:  rec.GetString("owner_label"),
		ProjectName: rec.GetString("project_name"),
		Stage:       rec.GetString("stage"),
		CreatedAt:   rec.GetDateTime("created").Time(),
		UpdatedAt:   rec.GetDateTime("updated").Time(),
		Snapshot:    snap,
	}, nil
}
