package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/risor-io/decompose/ir"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := newApp(strings.NewReader(stdin), &stdout, &stderr)
	root := a.rootCmd()
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestLowerText(t *testing.T) {
	out, _, err := execute(t, "", "lower", "testdata/module.json", "--function", "blockArg")
	require.NoError(t, err)
	require.Equal(t, `fun blockArg(): Int {
  var tmp$0: Int
  {
    a()
    tmp$0 = b()
  }
  var tmp$1: Int = foo(tmp$0)
  return tmp$1
}

fun loop(): Int {
  var i: Int = 0
  while#1 ({
    tick()
    <(i, 3)
  }) {
    i = +(i, 1)
  }
  return i
}

fun identity(n: Int): Int {
  return n
}
`, out)
}

func TestLowerJSONRoundTrip(t *testing.T) {
	input, err := os.ReadFile("testdata/module.json")
	require.NoError(t, err)
	out, _, err := execute(t, string(input), "lower", "--stdin", "-o", "json", "--temp-prefix", "t")
	require.NoError(t, err)

	var m ir.Module
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	require.Len(t, m.Functions, 3)
	loop := m.Function("loop")
	require.Equal(t, "var t0: Boolean", loop.Body.Stmts[1].String())
	w, ok := loop.Body.Stmts[2].(*ir.While)
	require.True(t, ok)
	require.Equal(t, ir.LoopID(2), w.ID)

	// Lowering the output again changes nothing.
	path := filepath.Join(t.TempDir(), "lowered.json")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))
	again, _, err := execute(t, "", "lower", path, "-o", "json", "--temp-prefix", "t", "--verify")
	require.NoError(t, err)
	require.JSONEq(t, out, again)
}

func TestLowerStatsAndMetrics(t *testing.T) {
	_, stderr, err := execute(t, "", "lower", "testdata/module.json", "--stats", "--metrics")
	require.NoError(t, err)
	require.Contains(t, stderr, "blockArg temporaries=2 labels=0 loops=0 chains=0 terminations=0")
	require.Contains(t, stderr, "loop temporaries=1 labels=0 loops=1")
	require.Contains(t, stderr, "decompose_functions_total 3")
}

func TestLowerFailure(t *testing.T) {
	_, stderr, err := execute(t, "", "lower", "testdata/broken.json", "--stats")
	require.ErrorContains(t, err, "unsupported field initializer")
	require.Contains(t, stderr, "field failed")
}

func TestLowerInputErrors(t *testing.T) {
	_, _, err := execute(t, "", "lower")
	require.ErrorContains(t, err, "no input")

	_, _, err = execute(t, "{}", "lower", "testdata/module.json", "--stdin")
	require.ErrorContains(t, err, "multiple input sources")

	_, _, err = execute(t, "not json", "lower", "--stdin")
	require.ErrorContains(t, err, "decoding module")

	_, _, err = execute(t, "", "lower", "testdata/module.json", "-o", "yaml")
	require.ErrorContains(t, err, "unknown output format")

	_, _, err = execute(t, "", "--log-level", "loud", "lower", "testdata/module.json")
	require.ErrorContains(t, err, "invalid log level")
}

func TestCheck(t *testing.T) {
	out, _, err := execute(t, "", "check", "testdata/module.json")
	require.NoError(t, err)
	require.Contains(t, out, "ok   blockArg")
	require.Contains(t, out, "ok   loop")
	require.Contains(t, out, "skip identity (takes parameters)")

	out, _, err = execute(t, "", "check", "testdata/broken.json")
	require.Error(t, err)
	require.Contains(t, out, "FAIL field")
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decompose.yaml")
	require.NoError(t, os.WriteFile(path, []byte("temp-prefix: cfg\nfunction: [blockArg]\n"), 0o644))
	out, _, err := execute(t, "", "--config", path, "lower", "testdata/module.json")
	require.NoError(t, err)
	require.Contains(t, out, "var cfg0: Int")
}

func TestEnvironment(t *testing.T) {
	t.Setenv("DECOMPOSE_TEMP_PREFIX", "env")
	out, _, err := execute(t, "", "lower", "testdata/module.json")
	require.NoError(t, err)
	require.Contains(t, out, "var env0: Int")
}
