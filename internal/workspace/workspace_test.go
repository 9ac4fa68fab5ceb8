package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Skufu/riskcalc/internal/clinical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

func newTestWorkspace(t *testing.T, store Store) *Workspace {
	t.Helper()
	w := New(store, zap.NewNop())
	w.now = func() time.Time { return fixedNow }
	n := 0
	w.newID = func() string {
		n++
		return fmt.Sprintf("case-%d", n)
	}
	return w
}

// failingStore loads fine and refuses every save.
type failingStore struct{ MemoryStore }

func (f *failingStore) Save(context.Context, Snapshot) error { return errors.New("disk full") }

func TestWorkspace_CreateBecomesActive(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t, NewMemoryStore())

	a, err := w.CreateCase(ctx, Patient{Name: "Ana", YearOfBirth: 1960, Sex: clinical.Female})
	require.NoError(t, err)
	assert.Equal(t, "case-1", a.ID)
	assert.Equal(t, fixedNow, a.CreatedAt)
	assert.NotNil(t, a.Results)

	b, err := w.CreateCase(ctx, Patient{Name: "Ben", YearOfBirth: 1955, Sex: clinical.Male})
	require.NoError(t, err)

	active, err := w.Active()
	require.NoError(t, err)
	assert.Equal(t, b.ID, active.ID)

	list := w.List()
	require.Len(t, list, 2)
	assert.Equal(t, []string{"case-1", "case-2"}, []string{list[0].ID, list[1].ID})
}

func TestWorkspace_AppendResultGoesToActiveCase(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t, NewMemoryStore())

	_, err := w.AppendResult(ctx, ToolResult{Tool: "bmi"})
	assert.ErrorIs(t, err, ErrNoActiveCase)

	a, _ := w.CreateCase(ctx, Patient{Name: "Ana"})
	b, _ := w.CreateCase(ctx, Patient{Name: "Ben"})
	_, err = w.SetActive(ctx, a.ID)
	require.NoError(t, err)

	got, err := w.AppendResult(ctx, ToolResult{
		Tool:    "cha2ds2-vasc",
		Inputs:  json.RawMessage(`{"age":80}`),
		Outputs: json.RawMessage(`{"total":5}`),
		Summary: "5 points, High",
	})
	require.NoError(t, err)
	require.Len(t, got.Results, 1)
	assert.Equal(t, fixedNow, got.Results[0].When)

	other, err := w.Get(b.ID)
	require.NoError(t, err)
	assert.Empty(t, other.Results)
}

func TestWorkspace_ReturnedCasesAreCopies(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t, NewMemoryStore())
	c, _ := w.CreateCase(ctx, Patient{Name: "Ana"})
	_, _ = w.AppendResult(ctx, ToolResult{Tool: "bmi"})

	got, _ := w.Get(c.ID)
	got.Results[0].Tool = "changed"
	got.Patient.Name = "changed"

	again, _ := w.Get(c.ID)
	assert.Equal(t, "bmi", again.Results[0].Tool)
	assert.Equal(t, "Ana", again.Patient.Name)
}

func TestWorkspace_SetActiveAndCloseUnknown(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t, NewMemoryStore())

	_, err := w.SetActive(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, w.CloseCase(ctx, "nope"), ErrNotFound)
	_, err = w.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkspace_CloseActiveCase(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t, NewMemoryStore())
	a, _ := w.CreateCase(ctx, Patient{Name: "Ana"})
	b, _ := w.CreateCase(ctx, Patient{Name: "Ben"})

	require.NoError(t, w.CloseCase(ctx, b.ID))
	_, err := w.Active()
	assert.ErrorIs(t, err, ErrNoActiveCase)

	list := w.List()
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
}

func TestWorkspace_PersistFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkspace(t, &failingStore{})

	c, err := w.CreateCase(ctx, Patient{Name: "Ana"})
	assert.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, "case-1", c.ID)

	active, err := w.Active()
	require.NoError(t, err)
	assert.Equal(t, c.ID, active.ID)
}

func TestWorkspace_RoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	w := newTestWorkspace(t, store)

	a, _ := w.CreateCase(ctx, Patient{Name: "Ana", YearOfBirth: 1960, Sex: clinical.Female})
	_, _ = w.AppendResult(ctx, ToolResult{Tool: "egfr", Summary: "82.3 G2"})
	_, _ = w.CreateCase(ctx, Patient{Name: "Ben"})
	_, _ = w.SetActive(ctx, a.ID)

	reloaded := New(store, zap.NewNop())
	require.NoError(t, reloaded.Load(ctx))

	active, err := reloaded.Active()
	require.NoError(t, err)
	assert.Equal(t, a.ID, active.ID)
	require.Len(t, active.Results, 1)
	assert.Equal(t, "82.3 G2", active.Results[0].Summary)
	assert.Len(t, reloaded.List(), 2)
}

func TestWorkspace_LoadDropsDanglingActiveID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, Snapshot{ActiveID: "gone", Cases: []Case{{ID: "x"}}}))

	w := New(store, zap.NewNop())
	require.NoError(t, w.Load(ctx))
	_, err := w.Active()
	assert.ErrorIs(t, err, ErrNoActiveCase)

	c, err := w.Get("x")
	require.NoError(t, err)
	assert.NotNil(t, c.Results)
}

func TestWorkspace_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	w := New(NewMemoryStore(), zap.NewNop())
	_, err := w.CreateCase(ctx, Patient{Name: "Ana"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = w.AppendResult(ctx, ToolResult{Tool: "qsofa"})
			_ = w.List()
		}()
	}
	wg.Wait()

	active, err := w.Active()
	require.NoError(t, err)
	assert.Len(t, active.Results, 50)
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "workspace.json")
	store := NewFileStore(path)

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Cases)
	require.NoError(t, store.Ping(ctx))

	w := newTestWorkspace(t, store)
	_, err = w.CreateCase(ctx, Patient{Name: "Ana", YearOfBirth: 1960, Sex: clinical.Female})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "case-1", doc["activeId"])
	cases := doc["cases"].([]any)
	patient := cases[0].(map[string]any)["patient"].(map[string]any)
	assert.Equal(t, float64(1960), patient["yob"])
	assert.NotContains(t, patient, "weightKg")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	w := New(NewFileStore(path), zap.NewNop())
	assert.ErrorIs(t, w.Load(context.Background()), ErrPersist)
}
