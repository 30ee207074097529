package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/houghcircles/service/imagestore"
)

func writeRecipe(t *testing.T, dir, input string) string {
	t.Helper()
	recipe := filepath.Join(dir, "recipe.yaml")
	content := "task:\n  name: coins\n  input: " + input + "\n  maxCycles: 3\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(recipe, []byte(content), 0o644))
	return recipe
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	input := filepath.Join(dir, "input.png")
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := 0; i < 32; i++ {
		img.SetGray(i, i, color.Gray{Y: 255})
	}
	require.NoError(t, imagestore.New().Save(context.Background(), input, img))
	return input
}

func TestRunOptions_Config(t *testing.T) {
	dir := t.TempDir()
	recipe := writeRecipe(t, dir, filepath.Join(dir, "input.png"))

	var testCases = []struct {
		description string
		args        []string
		expectErr   bool
	}{
		{
			description: "recipe only",
			args:        []string{"--config", recipe},
		},
		{
			description: "flags override recipe",
			args:        []string{"--config", recipe, "--cycles", "7", "--allocator", "host", "--log-format", "json", "--trace-file", filepath.Join(dir, "spans.json")},
		},
		{
			description: "missing input",
			args:        []string{"--cycles", "2"},
			expectErr:   true,
		},
		{
			description: "invalid allocator",
			args:        []string{"--config", recipe, "--allocator", "cloud"},
			expectErr:   true,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			opts := &runOptions{}
			cmd := runCmd(opts)
			cmd.SetContext(context.Background())
			require.NoError(t, cmd.ParseFlags(testCase.args))
			cfg, err := opts.config(cmd)
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "coins", cfg.Task.Name)
			if cmd.Flags().Changed("cycles") {
				assert.Equal(t, 7, cfg.Task.MaxCycles)
				assert.Equal(t, "host", cfg.Allocator)
				assert.Equal(t, "json", cfg.Log.Format)
				assert.True(t, cfg.Tracing.Enabled)
				return
			}
			assert.Equal(t, 3, cfg.Task.MaxCycles)
			assert.Equal(t, "static", cfg.Allocator)
			assert.False(t, cfg.Tracing.Enabled)
		})
	}
}

func TestRunCmd(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	recipe := writeRecipe(t, dir, input)
	output := filepath.Join(dir, "output.png")

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetArgs([]string{"run", "--config", recipe, "--output", output, "--events"})
	require.NoError(t, root.Execute())

	_, err := os.Stat(output)
	assert.NoError(t, err)

	var types []string
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		var line struct {
			Data struct {
				Type string `json:"type"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		types = append(types, line.Data.Type)
	}
	require.NotEmpty(t, types)
	assert.Equal(t, "created", types[0])
	assert.Contains(t, types, "cycle")
	assert.Contains(t, types, "monitor")
}

func TestRunCmd_MissingInput(t *testing.T) {
	dir := t.TempDir()
	recipe := writeRecipe(t, dir, filepath.Join(dir, "missing.png"))
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--config", recipe})
	assert.Error(t, root.Execute())
}

func TestHistoryCmd(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	recipe := writeRecipe(t, dir, input)
	history := filepath.Join(dir, "runs")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--config", recipe, "--history", history})
	require.NoError(t, root.Execute())

	stdout := &bytes.Buffer{}
	root = newRootCmd()
	root.SetOut(stdout)
	root.SetArgs([]string{"history", history, "--json", "--reason", "completed"})
	require.NoError(t, root.Execute())

	var record struct {
		Task   string `json:"task"`
		Cycles int    `json:"cycles"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &record))
	assert.Equal(t, "coins", record.Task)
	assert.Equal(t, 3, record.Cycles)

	stdout.Reset()
	root = newRootCmd()
	root.SetOut(stdout)
	root.SetArgs([]string{"history", history})
	require.NoError(t, root.Execute())
	assert.Contains(t, stdout.String(), "REASON")
	assert.Contains(t, stdout.String(), "completed")
}
