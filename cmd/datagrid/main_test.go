package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajack/datagrid"
)

const people = "Name\tAge\nBob\t30\nAl\t25\nCy\t41\n"

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DATAGRID_CONFIG", "")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestView_FilterAndSort(t *testing.T) {
	out, err := execute(t, people, "view", "--filter", "Age > 26", "--sort", "Age:desc")
	require.NoError(t, err)
	assert.Equal(t, "Name\tAge\nCy\t41\nBob\t30\n", out)
}

func TestView_SetAddressesSortedView(t *testing.T) {
	out, err := execute(t, people, "view", "--sort", "Name", "--set", "B1=99")
	require.NoError(t, err)
	assert.Equal(t, "Name\tAge\nAl\t99\nBob\t30\nCy\t41\n", out)
}

func TestView_SetRejectsNonNumber(t *testing.T) {
	_, err := execute(t, people, "view", "--set", "B1=old")
	require.Error(t, err)
	assert.ErrorIs(t, err, datagrid.ErrContractRejected)

	_, err = execute(t, people, "view", "--set", "B1=2.5")
	assert.ErrorIs(t, err, datagrid.ErrContractRejected, "Age holds integers")
}

func TestView_Select(t *testing.T) {
	out, err := execute(t, people, "view", "--sort", "Age", "--select", "A1:B2")
	require.NoError(t, err)
	assert.Equal(t, "Al\t25\nBob\t30\n", out)
}

func TestView_Hide(t *testing.T) {
	out, err := execute(t, people, "view", "--hide", "Age")
	require.NoError(t, err)
	assert.Equal(t, "Name\nBob\nAl\nCy\n", out)
}

func TestView_UnknownColumn(t *testing.T) {
	_, err := execute(t, people, "view", "--sort", "Salary")
	assert.ErrorContains(t, err, `unknown column "Salary"`)
}

func TestView_XLSXRoundTrip(t *testing.T) {
	out, err := execute(t, people, "view", "--format", "xlsx", "--sheet", "People")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "people.xlsx")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	back, err := execute(t, "", "view", path, "--input-sheet", "People", "--sort", "Age")
	require.NoError(t, err)
	assert.Equal(t, "Name\tAge\nAl\t25\nBob\t30\nCy\t41\n", back)
}

func TestView_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "datagrid.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("output:\n  format: XLSX\n"), 0o644))

	out, err := execute(t, people, "--config", cfg, "view")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "PK"), "expected a zip archive")
}

func TestView_BadOutputFormat(t *testing.T) {
	_, err := execute(t, people, "view", "--format", "csv")
	assert.ErrorContains(t, err, `unknown output format "csv"`)
}

func TestDescribe(t *testing.T) {
	out, err := execute(t, people, "describe", "--sort", "Age", "--select", "A1")
	require.NoError(t, err)
	assert.Contains(t, out, "Table: 3 rows, 3 visible")
	assert.Contains(t, out, "Age sort=asc")
	assert.Contains(t, out, "select A1")
	assert.Contains(t, out, "History: 1/1")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "datagrid version dev\n", out)
}
