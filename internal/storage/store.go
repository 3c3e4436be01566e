// Package storage persists finished runs. The core owns no persistence
// format; this is the CLI's bookkeeping: metadata plus CSV histories laid
// out one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/world"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Integrator  string             `json:"integrator"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Tolerance   float64            `json:"tolerance"`
	Softening   float64            `json:"softening"`
	Bodies      int                `json:"bodies"`
	StepsTaken  int                `json:"steps_taken"`
	Accepted    int                `json:"accepted"`
	Rejected    int                `json:"rejected"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes one run directory: metadata.json, history.csv with the
// time/energy series, and bodies.csv with the final body states.
func (s *Store) Save(cfg *config.Config, result *sim.Result, w *world.World) (string, error) {
	runID := fmt.Sprintf("%s_%d", cfg.Name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Scenario:    cfg.Name,
		Timestamp:   time.Now(),
		Integrator:  cfg.Integrator,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		Tolerance:   cfg.Tolerance,
		Softening:   cfg.Softening,
		Bodies:      w.Count(),
		StepsTaken:  result.StepsTaken,
		Accepted:    result.Accepted,
		Rejected:    result.Rejected,
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeHistory(filepath.Join(runDir, "history.csv"), result); err != nil {
		return "", err
	}
	if err := writeBodies(filepath.Join(runDir, "bodies.csv"), w); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeHistory(path string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"time", "energy"}); err != nil {
		return err
	}
	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'g', -1, 64),
			strconv.FormatFloat(result.Energies[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeBodies(path string, ww *world.World) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{"index", "px", "py", "pz", "vx", "vy", "vz", "mass"}
	if err := w.Write(header); err != nil {
		return err
	}

	px, py, pz := ww.PX(), ww.PY(), ww.PZ()
	vx, vy, vz := ww.VX(), ww.VY(), ww.VZ()
	mass := ww.Mass()
	for i := 0; i < ww.Count(); i++ {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(px[i], 'g', -1, 64),
			strconv.FormatFloat(py[i], 'g', -1, 64),
			strconv.FormatFloat(pz[i], 'g', -1, 64),
			strconv.FormatFloat(vx[i], 'g', -1, 64),
			strconv.FormatFloat(vy[i], 'g', -1, 64),
			strconv.FormatFloat(vz[i], 'g', -1, 64),
			strconv.FormatFloat(mass[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// List returns metadata for all stored runs, newest last in directory
// order.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

// Load reads one run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// History reads a run's time/energy series back.
func (s *Store) History(runID string) (times, energies []float64, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "history.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, nil, err
		}
		e, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, nil, err
		}
		times = append(times, t)
		energies = append(energies, e)
	}
	return times, energies, nil
}
