package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero/sys"

	"github.com/hupe1980/memstr/internal/kernel"
)

// strlenWasm imports env.strlen and exports it as "len".
var strlenWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x06, 0x01, 0x60, 0x01, 0x7f, 0x01, 0x7f,
	0x02, 0x0e, 0x01, 0x03, 'e', 'n', 'v', 0x06, 's', 't', 'r', 'l', 'e', 'n', 0x00, 0x00,
	0x03, 0x02, 0x01, 0x00,
	0x05, 0x03, 0x01, 0x00, 0x01,
	0x07, 0x10, 0x02,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x03, 'l', 'e', 'n', 0x00, 0x01,
	0x0a, 0x08, 0x01, 0x06, 0x00, 0x20, 0x00, 0x10, 0x00, 0x0b,
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCaps(t *testing.T) {
	out, err := execute(t, "caps")
	require.NoError(t, err)
	assert.Contains(t, out, "tier")
	assert.Contains(t, out, "available generic  true")
	assert.Contains(t, out, "wasm exports")
}

func TestBench(t *testing.T) {
	prev := kernel.ActiveTier()
	t.Cleanup(func() { kernel.Select(prev) })

	out, err := execute(t, "bench", "--size", "64", "--runs", "2", "--tier", "generic")
	require.NoError(t, err)
	for _, op := range []string{"memcpy", "memmove", "strlen", "strstr"} {
		assert.Contains(t, out, op)
	}

	_, err = execute(t, "bench", "--size", "1")
	assert.Error(t, err)

	_, err = execute(t, "bench", "--size", "64", "--tier", "simd")
	assert.Error(t, err)
}

func TestStress(t *testing.T) {
	out, err := execute(t, "stress", "--workers", "4", "--iterations", "50", "--size", "64", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 4 workers x 50 iterations")

	_, err = execute(t, "stress", "--workers", "0")
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strlen.wasm")
	require.NoError(t, os.WriteFile(path, strlenWasm, 0o600))

	out, err := execute(t, "run", path, "--func", "len", "--arg", "0", "--wasi=false")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	out, err = execute(t, "run", path, "--func", "len", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "strlen  1")

	_, err = execute(t, "run", path, "--func", "missing")
	assert.ErrorContains(t, err, "not exported")

	_, err = execute(t, "run", filepath.Join(t.TempDir(), "absent.wasm"))
	assert.Error(t, err)
}

func TestCallError(t *testing.T) {
	assert.NoError(t, callError("main", nil))
	assert.NoError(t, callError("main", sys.NewExitError(0)), "proc_exit(0) is a clean exit")

	err := callError("main", sys.NewExitError(3))
	var exitErr *sys.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, uint32(3), exitErr.ExitCode())
	assert.ErrorContains(t, err, "call main")
}

func TestParseArgs(t *testing.T) {
	got, err := parseArgs([]string{"1", "0x10", "-1"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 16, ^uint64(0)}, got)

	_, err = parseArgs([]string{"x"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	_, err := parseLevel("debug")
	require.NoError(t, err)

	_, err = parseLevel("loud")
	assert.Error(t, err)
}
