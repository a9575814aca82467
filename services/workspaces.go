package services

import (
	"context"
	"log"
	"sync"

	"fieldreports/models"
)

// Workspaces hands out one Workspace per signed-in user. A user's first
// request restores their last autosaved draft.
type Workspaces struct {
	drafts     DraftStore
	saver      *DraftSaver
	maxHistory int

	mu      sync.Mutex
	byOwner map[string]*Workspace
}

// NewWorkspaces builds the registry. drafts and saver may be nil, in which
// case workspaces live in memory only.
func NewWorkspaces(drafts DraftStore, saver *DraftSaver, maxHistory int) *Workspaces {
	return &Workspaces{
		drafts:     drafts,
		saver:      saver,
		maxHistory: maxHistory,
		byOwner:    make(map[string]*Workspace),
	}
}

// Get returns the workspace of ownerID, creating it on first use. An empty
// owner is rejected with ErrUnauthenticated.
func (ws *Workspaces) Get(ctx context.Context, ownerID string) (*Workspace, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}

	ws.mu.Lock()
	w, ok := ws.byOwner[ownerID]
	ws.mu.Unlock()
	if ok {
		return w, nil
	}

	// The draft is read without holding the registry lock so a slow store
	// only delays this owner.
	w = NewWorkspace(ws.maxHistory)
	if ws.drafts != nil {
		d, found, err := ws.drafts.LoadDraft(ctx, ownerID)
		switch {
		case err != nil:
			log.Printf("workspace: could not load draft for %s: %v", ownerID, err)
		case found:
			w.RestoreDraft(d)
		}
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if existing, ok := ws.byOwner[ownerID]; ok {
		return existing, nil
	}
	if ws.saver != nil {
		saver := ws.saver
		w.OnChange(func(d models.Draft) { saver.Schedule(ownerID, d) })
	}
	ws.byOwner[ownerID] = w
	return w, nil
}

// Forget writes any pending draft of ownerID and drops the in-memory
// workspace, e.g. on logout.
func (ws *Workspaces) Forget(ownerID string) {
	if ws.saver != nil {
		ws.saver.FlushOwner(ownerID)
	}
	ws.mu.Lock()
	delete(ws.byOwner, ownerID)
	ws.mu.Unlock()
}
