package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModes() map[string]*string {
	modes := map[string]*string{}
	for _, name := range modeNames {
		modes[name] = new(string)
	}
	return modes
}

func TestSelectMode(t *testing.T) {
	modes := newModes()

	_, err := selectMode(modes)
	require.Error(t, err, "no flags")
	assert.Contains(t, err.Error(), "-Render, -Cast, -Inspect, -ExampleConfig")

	*modes["Render"] = "scene.config"
	name, err := selectMode(modes)
	assert.NoError(t, err)
	assert.Equal(t, "Render", name)

	*modes["Inspect"] = "depth.dat"
	_, err = selectMode(modes)
	require.Error(t, err, "two flags")
	assert.Contains(t, err.Error(), "-Render, -Inspect were all given")
}

func TestFileGroup(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "run.log")
	profFile := filepath.Join(dir, "run.prof")

	fg, err := NewFileGroup(logFile, profFile)
	require.NoError(t, err)
	assert.NoError(t, fg.Close())

	info, err := os.Stat(profFile)
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)

	_, err = NewFileGroup(filepath.Join(dir, "missing", "run.log"), "")
	assert.Error(t, err)
}

func TestRunFailureClosesFiles(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.config")
	require.NoError(t, os.WriteFile(scene, []byte("[Camera]\nEyeZ = 5\n"), 0644))

	opt := &Options{
		Threads:  1,
		LogFile:  filepath.Join(dir, "run.log"),
		ProfFile: filepath.Join(dir, "run.prof"),
	}

	modes := newModes()
	*modes["Render"] = scene
	err := run(modes, nil, opt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'Output'")

	text, err := os.ReadFile(opt.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(text), "'Output'")

	info, err := os.Stat(opt.ProfFile)
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)

	modes = newModes()
	*modes["Inspect"] = filepath.Join(dir, "missing.dat")
	assert.Error(t, run(modes, nil, opt))

	modes = newModes()
	*modes["ExampleConfig"] = "Camera"
	assert.Error(t, run(modes, nil, opt))
}
