// Package workspace keeps the patient cases that calculator results are
// saved against, and persists them through a pluggable Store.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("case not found")
	ErrNoActiveCase = errors.New("no active case")
	// ErrPersist wraps store failures. The in-memory change it accompanies
	// has already been applied.
	ErrPersist = errors.New("workspace not persisted")
)

// Workspace is the application state shared by the HTTP handlers.
type Workspace struct {
	mu       sync.RWMutex
	store    Store
	log      *zap.Logger
	cases    map[string]*Case
	order    []string
	activeID string

	now   func() time.Time
	newID func() string
}

func New(store Store, log *zap.Logger) *Workspace {
	return &Workspace{
		store: store,
		log:   log,
		cases: map[string]*Case{},
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Load replaces the in-memory state with the stored snapshot. A store with
// nothing saved yet leaves the workspace empty.
func (w *Workspace) Load(ctx context.Context) error {
	snap, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load: %w", ErrPersist, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.cases = make(map[string]*Case, len(snap.Cases))
	w.order = w.order[:0]
	for i := range snap.Cases {
		c := snap.Cases[i]
		if c.ID == "" {
			continue
		}
		if c.Results == nil {
			c.Results = []ToolResult{}
		}
		w.cases[c.ID] = &c
		w.order = append(w.order, c.ID)
	}
	w.activeID = ""
	if _, ok := w.cases[snap.ActiveID]; ok {
		w.activeID = snap.ActiveID
	}

	w.log.Info("workspace loaded", zap.Int("cases", len(w.order)), zap.String("active_id", w.activeID))
	return nil
}

// Ping reports whether the backing store is reachable.
func (w *Workspace) Ping(ctx context.Context) error {
	return w.store.Ping(ctx)
}

// CreateCase opens a new case and makes it active.
func (w *Workspace) CreateCase(ctx context.Context, p Patient) (Case, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c := &Case{ID: w.newID(), CreatedAt: w.now(), Patient: p, Results: []ToolResult{}}
	w.cases[c.ID] = c
	w.order = append(w.order, c.ID)
	w.activeID = c.ID

	return c.clone(), w.persistLocked(ctx)
}

// List returns every case in creation order.
func (w *Workspace) List() []Case {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Case, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.cases[id].clone())
	}
	return out
}

func (w *Workspace) Get(id string) (Case, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c, ok := w.cases[id]
	if !ok {
		return Case{}, ErrNotFound
	}
	return c.clone(), nil
}

func (w *Workspace) Active() (Case, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c, ok := w.cases[w.activeID]
	if !ok {
		return Case{}, ErrNoActiveCase
	}
	return c.clone(), nil
}

func (w *Workspace) SetActive(ctx context.Context, id string) (Case, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.cases[id]
	if !ok {
		return Case{}, ErrNotFound
	}
	w.activeID = id
	return c.clone(), w.persistLocked(ctx)
}

// AppendResult adds r to the active case. A zero When is stamped with the
// current time.
func (w *Workspace) AppendResult(ctx context.Context, r ToolResult) (Case, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.cases[w.activeID]
	if !ok {
		return Case{}, ErrNoActiveCase
	}
	if r.When.IsZero() {
		r.When = w.now()
	}
	c.Results = append(c.Results, r)
	return c.clone(), w.persistLocked(ctx)
}

// CloseCase removes a case. Closing the active case leaves no case active.
func (w *Workspace) CloseCase(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.cases[id]; !ok {
		return ErrNotFound
	}
	delete(w.cases, id)
	for i, v := range w.order {
		if v == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	if w.activeID == id {
		w.activeID = ""
	}
	return w.persistLocked(ctx)
}

func (w *Workspace) snapshotLocked() Snapshot {
	s := Snapshot{ActiveID: w.activeID, Cases: make([]Case, 0, len(w.order))}
	for _, id := range w.order {
		s.Cases = append(s.Cases, w.cases[id].clone())
	}
	return s
}

// persistLocked saves once, with no retry. Callers hold w.mu.
func (w *Workspace) persistLocked(ctx context.Context) error {
	if err := w.store.Save(ctx, w.snapshotLocked()); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	w.log.Debug("workspace saved", zap.Int("cases", len(w.order)))
	return nil
}
