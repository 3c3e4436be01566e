package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/world"
)

// finishedRun produces a small completed run to persist.
func finishedRun(t *testing.T) (*config.Config, *sim.Result, *world.World) {
	t.Helper()

	cfg := config.GetPreset("two-body")
	w, err := cfg.BuildWorld()
	if err != nil {
		t.Fatal(err)
	}
	stp, err := cfg.NewStepper()
	if err != nil {
		t.Fatal(err)
	}

	runCfg := sim.DefaultConfig()
	runCfg.Dt = cfg.Dt
	runCfg.Duration = 10 * cfg.Dt

	result, err := sim.New(w, stp).Run(context.Background(), runCfg)
	if err != nil {
		t.Fatal(err)
	}
	return cfg, result, w
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	cfg, result, w := finishedRun(t)
	runID, err := store.Save(cfg, result, w)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("metadata ID %q, want %q", meta.ID, runID)
	}
	if meta.Scenario != cfg.Name || meta.Integrator != cfg.Integrator {
		t.Errorf("metadata identity wrong: %+v", meta)
	}
	if meta.Bodies != w.Count() {
		t.Errorf("metadata bodies %d, want %d", meta.Bodies, w.Count())
	}
	if meta.StepsTaken != result.StepsTaken {
		t.Errorf("metadata steps %d, want %d", meta.StepsTaken, result.StepsTaken)
	}
}

func TestHistoryRoundtrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	cfg, result, w := finishedRun(t)
	runID, err := store.Save(cfg, result, w)
	if err != nil {
		t.Fatal(err)
	}

	times, energies, err := store.History(runID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(times) != len(result.Times) {
		t.Fatalf("history has %d samples, want %d", len(times), len(result.Times))
	}
	for i := range times {
		if times[i] != result.Times[i] || energies[i] != result.Energies[i] {
			t.Errorf("sample %d mismatch: (%g, %g) vs (%g, %g)",
				i, times[i], energies[i], result.Times[i], result.Energies[i])
		}
	}
}

func TestList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Fatalf("fresh store lists %d runs", len(runs))
	}

	cfg, result, w := finishedRun(t)
	runID, err := store.Save(cfg, result, w)
	if err != nil {
		t.Fatal(err)
	}

	runs, err = store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Errorf("expected the single saved run, got %+v", runs)
	}
}

func TestListMissingBaseDir(t *testing.T) {
	store := New(t.TempDir() + "/never-created")
	runs, err := store.List()
	if err != nil {
		t.Fatalf("missing base dir should list empty, got %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestExport(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	cfg, result, w := finishedRun(t)
	runID, err := store.Save(cfg, result, w)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := store.Export(runID, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if data.ID != runID {
		t.Errorf("exported ID %q, want %q", data.ID, runID)
	}
	if len(data.Times) != len(result.Times) {
		t.Errorf("exported %d samples, want %d", len(data.Times), len(result.Times))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Load("nope_0"); err == nil {
		t.Error("expected error for unknown run")
	}
}
