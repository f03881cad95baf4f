package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-digest/internal/duckdb"
)

const plans = `id: ecori
bounds: {p_left: 0, p_right: 5, c_left: 0, c_right: 5}
sequence: GAATTC
cuts:
  - vertical: {p_left: 0, c_left: 4}
---
id: window
bounds: {p_left: 2, p_right: 7}
sequence_id: pUC19
cuts:
  - vertical: {p_left: 4, c_left: 4}
`

const fastaText = `>pUC19 partial
GGAATTCCAA
`

// setup isolates config in a temporary HOME and writes the fixtures.
func setup(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plans.yaml"), []byte(plans), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seqs.fa"), []byte(fastaText), 0o644))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestDigestCmd_Display(t *testing.T) {
	dir := setup(t)

	out, err := execute(t, "digest", "-f", "display",
		"--fasta", filepath.Join(dir, "seqs.fa"), filepath.Join(dir, "plans.yaml"))
	require.NoError(t, err)

	want := ">ecori 1/2 p=0..0 c=0..4\n" +
		"5' G     3'\n" +
		"3' CTTAA 5'\n" +
		">ecori 2/2 p=1..5 c=5..5\n" +
		"5' AATTC 3'\n" +
		"3'     G 5'\n" +
		">window 1/2 p=0..2 c=0..2\n" +
		"5' AAT 3'\n" +
		"3' TTA 5'\n" +
		">window 2/2 p=3..5 c=3..5\n" +
		"5' TCC 3'\n" +
		"3' AGG 5'\n"
	assert.Equal(t, want, out)
}

func TestDigestCmd_Tab(t *testing.T) {
	dir := setup(t)

	out, err := execute(t, "digest", filepath.Join(dir, "plans.yaml"),
		"--fasta", filepath.Join(dir, "seqs.fa"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "#Plan\t"))
	assert.True(t, strings.HasPrefix(lines[1], "ecori\t1\t"))
}

func TestDigestCmd_CutMap(t *testing.T) {
	dir := setup(t)

	out, err := execute(t, "digest", "-f", "cutmap",
		"--fasta", filepath.Join(dir, "seqs.fa"), filepath.Join(dir, "plans.yaml"))
	require.NoError(t, err)

	want := ">ecori 2 fragments\n" +
		"5' G|A A T T C 3'\n" +
		"    +-------+\n" +
		"3' C T T A A|G 5'\n" +
		">window 2 fragments\n" +
		"5' A A T|T C C 3'\n" +
		"   \n" +
		"3' T T A|A G G 5'\n"
	assert.Equal(t, want, out)
}

func TestDigestCmd_MissingFASTARecordSkipsPlan(t *testing.T) {
	dir := setup(t)

	out, err := execute(t, "digest", "-f", "summary", filepath.Join(dir, "plans.yaml"))
	require.NoError(t, err)

	assert.Contains(t, out, "ecori")
	assert.NotContains(t, out, "window")
}

func TestDigestCmd_StoreAndReuse(t *testing.T) {
	dir := setup(t)
	db := filepath.Join(dir, "digests.duckdb")
	planPath := filepath.Join(dir, "plans.yaml")
	fastaPath := filepath.Join(dir, "seqs.fa")

	first, err := execute(t, "digest", "--db", db, "--fasta", fastaPath, planPath)
	require.NoError(t, err)

	second, err := execute(t, "digest", "--db", db, "--reuse", planPath)
	require.NoError(t, err)
	assert.Equal(t, first, second, "stored digests replay without the FASTA file")

	store, err := duckdb.Open(db)
	require.NoError(t, err)
	defer store.Close()

	list, err := store.ListDigests()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ecori", list[0].PlanID)

	fp, err := duckdb.StatFile(planPath)
	require.NoError(t, err)
	unchanged, err := store.SourceUnchanged(fp)
	require.NoError(t, err)
	assert.True(t, unchanged)
}

func TestDBCmd(t *testing.T) {
	dir := setup(t)
	db := filepath.Join(dir, "digests.duckdb")

	_, err := execute(t, "digest", "--db", db, filepath.Join(dir, "plans.yaml"),
		"--fasta", filepath.Join(dir, "seqs.fa"))
	require.NoError(t, err)

	out, err := execute(t, "db", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "ecori")
	assert.Contains(t, out, "window")

	out, err = execute(t, "db", "show", "ecori", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "5' AATTC 3'")

	_, err = execute(t, "db", "show", "nope", "--db", db)
	assert.Error(t, err)

	out, err = execute(t, "db", "locate", "ecori", "3", "--db", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3, "overhang position lies in both fragments")
	assert.Equal(t, []string{"1", "0", "0", "0", "4"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "1", "5", "5", "5"}, strings.Fields(lines[2]))

	_, err = execute(t, "db", "locate", "ecori", "x", "--db", db)
	assert.Error(t, err)

	out, err = execute(t, "db", "clear", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared")

	out, err = execute(t, "db", "list", "--db", db)
	require.NoError(t, err)
	assert.NotContains(t, out, "ecori")
}

func TestConfigCmd(t *testing.T) {
	dir := setup(t)

	out, err := execute(t, "config", "set", "output.format", "display")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, ".vibe-digest.yaml"))

	out, err = execute(t, "config", "get", "output.format")
	require.NoError(t, err)
	assert.Equal(t, "display\n", out)

	out, err = execute(t, "config")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	assert.Equal(t, []string{"output.format", "display"}, strings.Fields(lines[0])[:2])
	assert.True(t, strings.HasPrefix(lines[1], "output.db"))
	assert.Equal(t, []string{"digest.workers", "0"}, strings.Fields(lines[2])[:2])
	assert.Contains(t, out, "# Config file: "+filepath.Join(dir, ".vibe-digest.yaml"))

	_, err = execute(t, "config", "get", "no.such.key")
	assert.Error(t, err)

	_, err = execute(t, "config", "set", "output.format", "xml")
	var ue *usageError
	assert.ErrorAs(t, err, &ue)

	_, err = execute(t, "config", "set", "legacy.key", "1")
	require.NoError(t, err)
	out, err = execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "# Unused keys\nlegacy.key: 1\n")
}

func TestConfigFormatDrivesDigest(t *testing.T) {
	dir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".vibe-digest.yaml"),
		[]byte("output:\n  format: summary\n"), 0o644))

	out, err := execute(t, "digest", filepath.Join(dir, "plans.yaml"),
		"--fasta", filepath.Join(dir, "seqs.fa"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Plan"), "summary header, got %q", out)
}

func TestRun_ExitCodes(t *testing.T) {
	dir := setup(t)

	assert.Equal(t, ExitUsage, run([]string{"digest"}))
	assert.Equal(t, ExitUsage, run([]string{"digest", "-f", "xml", filepath.Join(dir, "plans.yaml")}))
	assert.Equal(t, ExitError, run([]string{"digest", filepath.Join(dir, "missing.yaml")}))
	assert.Equal(t, ExitSuccess, run([]string{"--version"}))
}
