package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/quantile-calibration/model"
)

func execute(t *testing.T, args ...string) {
	t.Helper()
	configPath = ""
	root := newRootCmd()
	root.SetArgs(args)
	require.NoError(t, root.Execute())
}

func TestSimulateThenRun(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "calibrate.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
simulation:
  observations: 80
  holdout: 40
  draws: 200
logging:
  level: warn
`), 0o644))

	dataPath := filepath.Join(dir, "data.json")
	reportPath := filepath.Join(dir, "report.json")

	execute(t, "simulate", "--config", cfgPath, "--output", dataPath)
	execute(t, "run", "--config", cfgPath, "--input", dataPath, "--output", reportPath)

	data, err := os.ReadFile(dataPath)
	require.NoError(t, err)
	file := &model.DatasetFile{}
	require.NoError(t, json.Unmarshal(data, file))
	require.NotNil(t, file.Holdout)
	assert.Len(t, file.Main.Observations, 80)
	assert.Len(t, file.Main.Samples, 200)

	data, err = os.ReadFile(reportPath)
	require.NoError(t, err)
	report := &model.Report{}
	require.NoError(t, json.Unmarshal(data, report))
	assert.Equal(t, 80, report.Observations)
	assert.Equal(t, 40, report.EvalObservations)
	assert.True(t, report.CalibrationAvailable)
}

func TestRunRequiresInput(t *testing.T) {
	configPath = ""
	root := newRootCmd()
	root.SetArgs([]string{"run"})
	root.SetErr(new(nopWriter))
	assert.Error(t, root.Execute())
}

type nopWriter struct{}

func (*nopWriter) Write(p []byte) (int, error) { return len(p), nil }
