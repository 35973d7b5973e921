package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/san-kum/wavetoy/internal/dynamo"
)

// Recorder persists reported states of one run. It implements
// dynamo.Observer; each OnStep call is written in its own transaction.
type Recorder struct {
	dir    string
	db     *sql.DB
	meta   RunMetadata
	closed bool
}

func (r *Recorder) ID() string { return r.meta.ID }

func (r *Recorder) OnStep(iter int, s dynamo.State) error {
	if r.closed {
		return errors.New("storage: recorder closed")
	}

	n := s.Len()
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(
		`INSERT INTO iterations (iteration, grp, time, points) VALUES (?, ?, ?, ?)`,
		iter, GroupName(iter), s.Time, n,
	); err != nil {
		tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO samples (iteration, idx, x, u, udot) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		x := 0.0
		if n > 1 {
			x = float64(i) / float64(n-1)
		}
		if _, err := stmt.Exec(iter, i, x, s.U[i], s.V[i]); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	r.meta.Outputs++
	return nil
}

// Close finalizes the run metadata from result and releases the container.
// A nil result marks the run incomplete. Close is idempotent.
func (r *Recorder) Close(result *dynamo.Result) error {
	if r.closed {
		return nil
	}
	r.closed = true

	if result != nil {
		r.meta.Steps = result.StepsTaken
		r.meta.FinalTime = result.Final.Time
		r.meta.EnergyDrift = result.EnergyDrift
		for k, v := range result.Metrics {
			r.meta.Metrics[k] = v
		}
		r.meta.Complete = true
	}

	return errors.Join(r.writeMetadata(), r.db.Close())
}

func (r *Recorder) writeMetadata() error {
	f, err := os.Create(filepath.Join(r.dir, metadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r.meta)
}
