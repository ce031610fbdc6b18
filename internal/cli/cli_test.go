package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/entities"
)

type recordingOpener struct {
	files []string
}

func (o *recordingOpener) OpenFile(path string) error {
	o.files = append(o.files, path)
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Database: config.Database{Path: filepath.Join(dir, "library.db")},
		Report:   config.Report{Path: filepath.Join(dir, "books_list.html"), OpenBrowser: true},
		Audit:    config.Audit{Enabled: true},
	}
}

func seedBooks(t *testing.T, cfg *config.Config, books ...[3]string) {
	t.Helper()
	a, err := openApp(cfg.Database.Path, false, false)
	require.NoError(t, err)
	defer a.Close()
	for _, b := range books {
		require.NoError(t, a.catalog.Add(context.Background(), b[0], b[1], b[2]))
	}
}

func TestListCommand(t *testing.T) {
	cfg := testConfig(t)
	seedBooks(t, cfg, [3]string{"Dune", "Frank Herbert", "123"}, [3]string{"Solaris", "Stanislaw Lem", "456"})

	var out bytes.Buffer
	cmd := NewListCommand(cfg)
	cmd.out = &out
	require.NoError(t, cmd.ParseFlags(nil))
	require.NoError(t, cmd.Run(context.Background()))

	assert.Contains(t, out.String(), "Frank Herbert")
	assert.Contains(t, out.String(), "2 books")
}

func TestListCommand_Empty(t *testing.T) {
	cfg := testConfig(t)

	var out bytes.Buffer
	cmd := NewListCommand(cfg)
	cmd.out = &out
	require.NoError(t, cmd.ParseFlags(nil))
	require.NoError(t, cmd.Run(context.Background()))

	assert.Contains(t, out.String(), "No books found.")
}

func TestListCommand_JSON(t *testing.T) {
	cfg := testConfig(t)
	seedBooks(t, cfg, [3]string{"Dune", "Frank Herbert", "123"})

	var out bytes.Buffer
	cmd := NewListCommand(cfg)
	cmd.out = &out
	require.NoError(t, cmd.ParseFlags([]string{"--json"}))
	require.NoError(t, cmd.Run(context.Background()))

	var books []entities.Book
	require.NoError(t, json.Unmarshal(out.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "123", books[0].ISBN)
}

func TestListCommand_DBFlagOverridesConfig(t *testing.T) {
	cfg := testConfig(t)
	other := filepath.Join(t.TempDir(), "other.db")

	cmd := NewListCommand(cfg)
	require.NoError(t, cmd.ParseFlags([]string{"--db", other}))
	assert.Equal(t, other, cmd.DatabasePath)
}

func TestReportCommand(t *testing.T) {
	cfg := testConfig(t)
	seedBooks(t, cfg, [3]string{"Dune", "Frank Herbert", "123"})

	var out bytes.Buffer
	opener := &recordingOpener{}
	cmd := NewReportCommand(cfg)
	cmd.out = &out
	cmd.opener = opener
	require.NoError(t, cmd.ParseFlags(nil))
	require.NoError(t, cmd.Run(context.Background()))

	data, err := os.ReadFile(cfg.Report.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Frank Herbert")
	assert.Contains(t, out.String(), "Report written to")
	assert.Equal(t, []string{cfg.Report.Path}, opener.files)
}

func TestReportCommand_NoOpenAndOutput(t *testing.T) {
	cfg := testConfig(t)
	seedBooks(t, cfg, [3]string{"Dune", "Frank Herbert", "123"})
	output := filepath.Join(t.TempDir(), "custom.html")

	opener := &recordingOpener{}
	cmd := NewReportCommand(cfg)
	cmd.out = &bytes.Buffer{}
	cmd.opener = opener
	require.NoError(t, cmd.ParseFlags([]string{"-o", output, "--no-open"}))
	require.NoError(t, cmd.Run(context.Background()))

	_, err := os.Stat(output)
	assert.NoError(t, err)
	assert.Empty(t, opener.files)
}

func TestReportCommand_EmptyCatalog(t *testing.T) {
	cfg := testConfig(t)

	var out bytes.Buffer
	cmd := NewReportCommand(cfg)
	cmd.out = &out
	cmd.opener = &recordingOpener{}
	require.NoError(t, cmd.ParseFlags(nil))
	require.NoError(t, cmd.Run(context.Background()))

	assert.Contains(t, out.String(), "No books found.")
	_, err := os.Stat(cfg.Report.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReportCommand_RejectsEmptyOutput(t *testing.T) {
	cmd := NewReportCommand(testConfig(t))
	assert.Error(t, cmd.ParseFlags([]string{"--output", ""}))
}

func TestShellCommand_ParseFlags(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shell.HistoryPath = "/tmp/h"

	cmd := NewShellCommand(cfg)
	require.NoError(t, cmd.ParseFlags([]string{"--history", "", "--no-open"}))

	assert.Equal(t, cfg.Database.Path, cmd.DatabasePath)
	assert.Equal(t, cfg.Report.Path, cmd.ReportPath)
	assert.Empty(t, cmd.HistoryPath)
	assert.True(t, cmd.NoOpen)
}
