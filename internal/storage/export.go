package storage

import (
	"encoding/json"
	"io"
)

// ExportData is the flat JSON form of a stored run.
type ExportData struct {
	RunMetadata
	Times    []float64 `json:"times"`
	Energies []float64 `json:"energies"`
}

// Export writes one run, metadata plus history, as indented JSON.
func (s *Store) Export(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	times, energies, err := s.History(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{
		RunMetadata: *meta,
		Times:       times,
		Energies:    energies,
	})
}
