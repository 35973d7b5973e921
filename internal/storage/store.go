package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	// Registers the pure-Go "sqlite" driver.
	_ "github.com/glebarez/go-sqlite"
	"github.com/rs/xid"

	"github.com/san-kum/wavetoy/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	fieldsFile   = "fields.sqlite3"
)

// ErrRunNotFound indicates an unknown run id.
var ErrRunNotFound = errors.New("storage: run not found")

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
	Timestamp   time.Time          `json:"timestamp"`
	Points      int                `json:"points"`
	Courant     float64            `json:"courant"`
	Dt          float64            `json:"dt"`
	Iterations  int                `json:"iterations"`
	T0          float64            `json:"t0"`
	Integrator  string             `json:"integrator"`
	Profile     string             `json:"profile"`
	Steps       int                `json:"steps"`
	FinalTime   float64            `json:"final_time"`
	Outputs     int                `json:"outputs"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
	Complete    bool               `json:"complete"`
}

// Snapshot is one stored output iteration.
type Snapshot struct {
	Iteration int
	Group     string
	X         []float64
	State     dynamo.State
}

// GroupName is the container group an iteration is stored under.
func GroupName(iter int) string {
	return fmt.Sprintf("wavetoy.iteration-%010d", iter)
}

const schema = `
CREATE TABLE iterations (
	iteration INTEGER PRIMARY KEY,
	grp       TEXT NOT NULL,
	time      REAL NOT NULL,
	points    INTEGER NOT NULL
);
CREATE TABLE samples (
	iteration INTEGER NOT NULL REFERENCES iterations(iteration),
	idx       INTEGER NOT NULL,
	x         REAL NOT NULL,
	u         REAL NOT NULL,
	udot      REAL NOT NULL,
	PRIMARY KEY (iteration, idx)
);`

// Create starts a new run directory and returns a Recorder writing into it.
func (s *Store) Create(meta RunMetadata) (*Recorder, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	meta.ID = xid.New().String()
	meta.Timestamp = time.Now()
	if meta.Metrics == nil {
		meta.Metrics = make(map[string]float64)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filepath.Join(runDir, fieldsFile))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	r := &Recorder{dir: runDir, db: db, meta: meta}
	if err := r.writeMetadata(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

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

		meta, err := readMetadata(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	meta, err := readMetadata(filepath.Join(s.baseDir, runID))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return meta, err
}

// LoadSnapshots reads every stored iteration of a run in iteration order.
func (s *Store) LoadSnapshots(runID string) ([]Snapshot, error) {
	path := filepath.Join(s.baseDir, runID, fieldsFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT iteration, grp, time, points FROM iterations ORDER BY iteration`)
	if err != nil {
		return nil, err
	}

	snaps := make([]Snapshot, 0)
	index := make(map[int]int)
	for rows.Next() {
		var snap Snapshot
		var points int
		if err := rows.Scan(&snap.Iteration, &snap.Group, &snap.State.Time, &points); err != nil {
			rows.Close()
			return nil, err
		}
		snap.X = make([]float64, points)
		snap.State.U = make([]float64, points)
		snap.State.V = make([]float64, points)
		index[snap.Iteration] = len(snaps)
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	rows, err = db.Query(`SELECT iteration, idx, x, u, udot FROM samples`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var iter, idx int
		var x, u, udot float64
		if err := rows.Scan(&iter, &idx, &x, &u, &udot); err != nil {
			return nil, err
		}
		pos, ok := index[iter]
		if !ok || idx < 0 || idx >= len(snaps[pos].X) {
			return nil, fmt.Errorf("run %s: orphan sample (iteration %d, index %d)", runID, iter, idx)
		}
		snaps[pos].X[idx] = x
		snaps[pos].State.U[idx] = u
		snaps[pos].State.V[idx] = udot
	}

	return snaps, rows.Err()
}

func readMetadata(runDir string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(runDir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}
