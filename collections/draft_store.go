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

// DraftStore keeps one autosaved workspace draft per user in the drafts
// collection.
type DraftStore struct {
	app core.App
}

func NewDraftStore(app core.App) *DraftStore {
	return &DraftStore{app: app}
}

var _ services.DraftStore = (*DraftStore)(nil)

type storedDraft struct {
	ProjectName string         `json:"projectName"`
	Stage       string         `json:"stage"`
	ReportID    string         `json:"reportId"`
	Snapshot    map[string]any `json:"snapshot"`
}

// LoadDraft returns the owner's draft. found is false when none was saved.
func (s *DraftStore) LoadDraft(ctx context.Context, ownerID string) (models.Draft, bool, error) {
	if ownerID == "" {
		return models.Draft{}, false, services.ErrUnauthenticated
	}

	rec, err := s.find(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Draft{}, false, nil
		}
		return models.Draft{}, false, services.Transient("load draft", err)
	}

	var stored storedDraft
	if err := rec.UnmarshalJSONField("data", &stored); err != nil {
		return models.Draft{}, false, fmt.Errorf("decode draft: %w", err)
	}
	if stored.Snapshot == nil {
		return models.Draft{}, false, nil
	}

	snap, err := UpgradeSnapshot(stored.Snapshot)
	if err != nil {
		return models.Draft{}, false, fmt.Errorf("upgrade draft: %w", err)
	}

	return models.Draft{
		ProjectName: stored.ProjectName,
		Stage:       stored.Stage,
		ReportID:    stored.ReportID,
		Snapshot:    snap,
	}, true, nil
}

// SaveDraft creates or replaces the owner's draft.
func (s *DraftStore) SaveDraft(ctx context.Context, ownerID string, d models.Draft) error {
	if ownerID == "" {
		return services.ErrUnauthenticated
	}

	rec, err := s.find(ctx, ownerID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		col, err := s.app.FindCollectionByNameOrId(DraftsCollection)
		if err != nil {
			return services.Transient("find drafts collection", err)
		}
		rec = core.NewRecord(col)
		rec.Set("owner", ownerID)
	case err != nil:
		return services.Transient("load draft", err)
	}

	rec.Set("data", d)
	if err := s.app.SaveWithContext(ctx, rec); err != nil {
		return services.Transient("save draft", err)
	}
	return nil
}

func (s *DraftStore) find(ctx context.Context, ownerID string) (*core.Record, error) {
	rec := &core.Record{}
	err := s.app.RecordQuery(DraftsCollection).
		AndWhere(dbx.HashExp{"owner": ownerID}).
		Limit(1).
		WithContext(ctx).
		One(rec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}
