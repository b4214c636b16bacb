package runs

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/maze-solver/maze/grid"
	"github.com/wricardo/maze-solver/maze/report"
	"github.com/wricardo/maze-solver/maze/search"
)

func newRun(maze string, strategy search.Strategy, cost float64) *Run {
	return &Run{
		Maze:        maze,
		Strategy:    strategy,
		Fingerprint: "fp-" + maze,
		Summary: report.Summary{
			Strategy:  strategy,
			Found:     !math.IsInf(cost, 1),
			TotalCost: cost,
			Path:      []grid.Position{{Row: 0, Col: 0}},
		},
	}
}

func TestRecordAndGet(t *testing.T) {
	manager := NewManager()

	run, err := manager.Record(newRun("maze1", search.AStar, 4))
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := uuid.Parse(run.ID); err != nil {
		t.Errorf("Expected a UUID, got %q", run.ID)
	}
	if run.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}

	got, err := manager.Get(run.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != run {
		t.Error("Expected the recorded run")
	}

	upper, err := manager.Get(strings.ToUpper(run.ID))
	if err != nil || upper != run {
		t.Errorf("Expected case-insensitive lookup, got %v", err)
	}

	if _, err := manager.Get(uuid.NewString()); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}

	t.Run("nil run", func(t *testing.T) {
		if _, err := manager.Record(nil); err == nil {
			t.Error("Expected error for nil run")
		}
	})

	t.Run("bad id", func(t *testing.T) {
		bad := newRun("maze1", search.Greedy, 1)
		bad.ID = "../escape"
		if _, err := manager.Record(bad); !errors.Is(err, ErrInvalidRunID) {
			t.Errorf("Expected ErrInvalidRunID, got %v", err)
		}
	})
}

func TestList(t *testing.T) {
	manager := NewManager()
	base := time.Now().Add(-time.Hour)

	for i, maze := range []string{"maze1", "maze2", "maze1"} {
		run := newRun(maze, search.UniformCost, float64(i))
		run.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if _, err := manager.Record(run); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	all := manager.List("")
	if len(all) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.Before(all[i-1].CreatedAt) {
			t.Error("Expected runs oldest first")
		}
	}

	filtered := manager.List("maze1")
	if len(filtered) != 2 {
		t.Errorf("Expected 2 runs for maze1, got %d", len(filtered))
	}
	if len(manager.List("nope")) != 0 {
		t.Error("Expected no runs for unknown maze")
	}
}

func TestDeleteAndCleanup(t *testing.T) {
	manager := NewManager()

	old := newRun("maze1", search.Greedy, 2)
	old.CreatedAt = time.Now().Add(-2 * time.Hour)
	if _, err := manager.Record(old); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	fresh, _ := manager.Record(newRun("maze1", search.Greedy, 2))

	if removed := manager.CleanupExpired(time.Hour); removed != 1 {
		t.Errorf("Expected 1 expired run, got %d", removed)
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 run left, got %d", manager.Count())
	}

	if err := manager.Delete(fresh.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := manager.Delete(fresh.ID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound on second delete, got %v", err)
	}
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()
	persistence, err := NewFilePersistence(filepath.Join(dir, "runs"))
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	manager := NewManagerWithPersistence(persistence)
	unreachable, err := manager.Record(newRun("walled", search.Greedy, math.Inf(1)))
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	solved, _ := manager.Record(newRun("maze1", search.AStar, 7))

	if !persistence.Exists(solved.ID) {
		t.Fatal("Expected run file on disk")
	}

	t.Run("get falls back to disk", func(t *testing.T) {
		restarted := NewManagerWithPersistence(persistence)
		run, err := restarted.Get(solved.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if run.Summary.TotalCost != 7 || run.Maze != "maze1" {
			t.Errorf("Unexpected run: %+v", run)
		}
	})

	t.Run("infinite cost survives a round trip", func(t *testing.T) {
		run, err := persistence.Load(unreachable.ID)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if !math.IsInf(run.Summary.TotalCost, 1) {
			t.Errorf("Expected +Inf, got %v", run.Summary.TotalCost)
		}
	})

	t.Run("load persisted", func(t *testing.T) {
		// Stray files are ignored
		os.WriteFile(filepath.Join(dir, "runs", "notes.json"), []byte("{}"), 0644)

		restarted := NewManagerWithPersistence(persistence)
		if err := restarted.LoadPersisted(); err != nil {
			t.Fatalf("LoadPersisted failed: %v", err)
		}
		if restarted.Count() != 2 {
			t.Errorf("Expected 2 runs, got %d", restarted.Count())
		}
	})

	t.Run("delete removes the file", func(t *testing.T) {
		if err := manager.Delete(solved.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if persistence.Exists(solved.ID) {
			t.Error("Expected run file to be removed")
		}
	})

	t.Run("cleanup keeps files", func(t *testing.T) {
		manager.CleanupExpired(-time.Hour)
		if manager.Count() != 0 {
			t.Errorf("Expected empty memory, got %d", manager.Count())
		}
		if _, err := manager.Get(unreachable.ID); err != nil {
			t.Errorf("Expected run to reload from disk: %v", err)
		}
	})
}

func TestFilePersistenceRejectsBadIDs(t *testing.T) {
	persistence, err := NewFilePersistence(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	for _, id := range []string{"../../etc/passwd", "", "abcd"} {
		if _, err := persistence.Load(id); !errors.Is(err, ErrInvalidRunID) {
			t.Errorf("Load(%q): expected ErrInvalidRunID, got %v", id, err)
		}
		if persistence.Exists(id) {
			t.Errorf("Exists(%q) should be false", id)
		}
	}
	if _, err := persistence.Load(uuid.NewString()); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
	if err := persistence.Save(nil); err == nil {
		t.Error("Expected error saving nil run")
	}
}

func TestConcurrentRecords(t *testing.T) {
	manager := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := manager.Record(newRun("maze1", search.Strategies[i%3], float64(i))); err != nil {
				t.Errorf("Record failed: %v", err)
			}
			manager.List("maze1")
		}(i)
	}
	wg.Wait()

	if manager.Count() != 50 {
		t.Errorf("Expected 50 runs, got %d", manager.Count())
	}
}
