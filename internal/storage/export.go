package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

type ExportData struct {
	Run       RunMetadata      `json:"run"`
	Snapshots []ExportSnapshot `json:"snapshots"`
}

type ExportSnapshot struct {
	Iteration int       `json:"iteration"`
	Group     string    `json:"group"`
	Time      float64   `json:"time"`
	X         []float64 `json:"x"`
	U         []float64 `json:"u"`
	Udot      []float64 `json:"udot"`
}

func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	snaps, err := s.LoadSnapshots(runID)
	if err != nil {
		return err
	}

	data := ExportData{Run: *meta, Snapshots: make([]ExportSnapshot, len(snaps))}
	for i, snap := range snaps {
		data.Snapshots[i] = ExportSnapshot{
			Iteration: snap.Iteration,
			Group:     snap.Group,
			Time:      snap.State.Time,
			X:         snap.X,
			U:         snap.State.U,
			Udot:      snap.State.V,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes one row per stored sample.
func (s *Store) ExportCSV(runID string, w io.Writer) error {
	snaps, err := s.LoadSnapshots(runID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"iteration", "time", "index", "x", "u", "udot"}); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, snap := range snaps {
		for i := range snap.X {
			row := []string{
				strconv.Itoa(snap.Iteration),
				ff(snap.State.Time),
				strconv.Itoa(i),
				ff(snap.X[i]),
				ff(snap.State.U[i]),
				ff(snap.State.V[i]),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
