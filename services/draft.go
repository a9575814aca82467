package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/bep/debounce"

	"fieldreports/models"
)

// DraftStore persists the work-in-progress draft of each user.
type DraftStore interface {
	LoadDraft(ctx context.Context, ownerID string) (models.Draft, bool, error)
	SaveDraft(ctx context.Context, ownerID string, d models.Draft) error
}

// DraftSaver coalesces bursts of workspace edits into one draft write per
// user, delay after the last edit.
type DraftSaver struct {
	store DraftStore
	delay time.Duration

	mu         sync.Mutex
	debouncers map[string]func(func())
	pending    map[string]models.Draft
	// writers serialise the store writes of one owner.
	writers map[string]*sync.Mutex
}

func NewDraftSaver(store DraftStore, delay time.Duration) *DraftSaver {
	return &DraftSaver{
		store:      store,
		delay:      delay,
		debouncers: make(map[string]func(func())),
		pending:    make(map[string]models.Draft),
		writers:    make(map[string]*sync.Mutex),
	}
}

// Schedule queues d as the latest draft for ownerID. Only the newest draft
// queued before the delay runs out is written.
func (s *DraftSaver) Schedule(ownerID string, d models.Draft) {
	if ownerID == "" {
		return
	}

	s.mu.Lock()
	s.pending[ownerID] = d
	if s.delay <= 0 {
		s.mu.Unlock()
		s.flush(ownerID)
		return
	}
	deb, ok := s.debouncers[ownerID]
	if !ok {
		deb = debounce.New(s.delay)
		s.debouncers[ownerID] = deb
	}
	s.mu.Unlock()

	deb(func() { s.flush(ownerID) })
}

// flush writes the pending draft of ownerID. The pending draft is taken while
// holding the owner's writer lock, so writes land in the order they were
// queued and a newer draft is never overwritten by an older one.
func (s *DraftSaver) flush(ownerID string) {
	s.mu.Lock()
	w, ok := s.writers[ownerID]
	if !ok {
		w = &sync.Mutex{}
		s.writers[ownerID] = w
	}
	s.mu.Unlock()

	w.Lock()
	defer w.Unlock()

	s.mu.Lock()
	d, ok := s.pending[ownerID]
	delete(s.pending, ownerID)
	s.mu.Unlock()
	if !ok {
		return
	}

	if err := s.store.SaveDraft(context.Background(), ownerID, d); err != nil {
		log.Printf("draft_save: could not save draft for %s: %v", ownerID, err)
	}
}

// Flush writes every queued draft now. Timers that fire later find nothing
// left to write.
func (s *DraftSaver) Flush() {
	s.mu.Lock()
	owners := make([]string, 0, len(s.pending))
	for owner := range s.pending {
		owners = append(owners, owner)
	}
	s.mu.Unlock()

	for _, owner := range owners {
		s.flush(owner)
	}
}

// FlushOwner writes the queued draft of one user, if any.
func (s *DraftSaver) FlushOwner(ownerID string) {
	s.flush(ownerID)
}
