package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/wavetoy/internal/dynamo"
	"github.com/san-kum/wavetoy/internal/integrators"
	"github.com/san-kum/wavetoy/internal/physics"
)

func recordRun(t *testing.T, st *Store, points, steps, every int) (*Recorder, *dynamo.Result) {
	t.Helper()

	w, err := physics.NewWave(points)
	require.NoError(t, err)

	rec, err := st.Create(RunMetadata{Points: points, Integrator: "midpoint", Profile: "sine"})
	require.NoError(t, err)

	sim := dynamo.New(w, integrators.NewMidpoint())
	sim.AddObserver(rec)

	cfg := dynamo.DefaultConfig()
	cfg.Iterations = steps
	cfg.OutputEvery = every

	result, err := sim.Run(context.Background(), w.Initial(0), cfg)
	require.NoError(t, err)
	require.NoError(t, rec.Close(result))
	return rec, result
}

func TestGroupName(t *testing.T) {
	require.Equal(t, "wavetoy.iteration-0000000000", GroupName(0))
	require.Equal(t, "wavetoy.iteration-0000000040", GroupName(40))
}

func TestCreateWritesRunDirectory(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	rec, err := st.Create(RunMetadata{Points: 11})
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID())

	require.FileExists(t, filepath.Join(dir, rec.ID(), "metadata.json"))
	require.FileExists(t, filepath.Join(dir, rec.ID(), "fields.sqlite3"))

	meta, err := st.Load(rec.ID())
	require.NoError(t, err)
	require.False(t, meta.Complete)
	require.Equal(t, 11, meta.Points)

	require.NoError(t, rec.Close(nil))
	require.NoError(t, rec.Close(nil))
	require.Error(t, rec.OnStep(0, dynamo.NewState(0, 11)))
}

func TestRecordAndLoad(t *testing.T) {
	st := New(t.TempDir())
	rec, result := recordRun(t, st, 11, 40, 10)

	meta, err := st.Load(rec.ID())
	require.NoError(t, err)
	require.True(t, meta.Complete)
	require.Equal(t, 40, meta.Steps)
	require.Equal(t, 5, meta.Outputs)
	require.InDelta(t, 1.0, meta.FinalTime, 1e-12)
	require.Equal(t, result.EnergyDrift, meta.EnergyDrift)

	snaps, err := st.LoadSnapshots(rec.ID())
	require.NoError(t, err)
	require.Len(t, snaps, 5)

	for i, snap := range snaps {
		require.Equal(t, i*10, snap.Iteration)
		require.Equal(t, GroupName(i*10), snap.Group)
		require.Len(t, snap.X, 11)
		require.Len(t, snap.State.U, 11)
		require.Len(t, snap.State.V, 11)
		require.Equal(t, 0.0, snap.X[0])
		require.Equal(t, 1.0, snap.X[10])
	}

	require.Equal(t, result.Initial, snaps[0].State)
	require.Equal(t, result.Final, snaps[4].State)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	require.NoError(t, err)
	require.Empty(t, runs)

	first, _ := recordRun(t, st, 5, 4, 1)
	second, _ := recordRun(t, st, 7, 4, 2)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, first.ID(), runs[0].ID)
	require.Equal(t, second.ID(), runs[1].ID)
}

func TestMissingRun(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("nope")
	require.ErrorIs(t, err, ErrRunNotFound)

	_, err = st.LoadSnapshots("nope")
	require.ErrorIs(t, err, ErrRunNotFound)

	require.ErrorIs(t, st.ExportJSON("nope", &bytes.Buffer{}), ErrRunNotFound)
	require.ErrorIs(t, st.ExportCSV("nope", &bytes.Buffer{}), ErrRunNotFound)
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	rec, result := recordRun(t, st, 5, 8, 4)

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(rec.ID(), &buf))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	require.Equal(t, rec.ID(), data.Run.ID)
	require.Len(t, data.Snapshots, 3)
	require.Equal(t, 8, data.Snapshots[2].Iteration)
	require.Equal(t, result.Final.U, data.Snapshots[2].U)
	require.Equal(t, result.Final.V, data.Snapshots[2].Udot)
}

func TestExportCSV(t *testing.T) {
	st := New(t.TempDir())
	rec, _ := recordRun(t, st, 5, 2, 1)

	var buf bytes.Buffer
	require.NoError(t, st.ExportCSV(rec.ID(), &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+3*5)
	require.Equal(t, []string{"iteration", "time", "index", "x", "u", "udot"}, rows[0])
	require.Equal(t, "0", rows[1][0])
	require.Equal(t, "2", rows[len(rows)-1][0])
	require.Equal(t, "1", rows[len(rows)-1][3])
}

func TestLoadSnapshots_DamagedContainer(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	rec, _ := recordRun(t, st, 5, 2, 1)

	path := filepath.Join(dir, rec.ID(), "fields.sqlite3")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("not a database "), 512), 0644))

	snaps, err := st.LoadSnapshots(rec.ID())
	require.Error(t, err)
	require.Nil(t, snaps)
}
