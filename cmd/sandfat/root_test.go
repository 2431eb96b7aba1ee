package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "sandfat.yaml"),
		"--data-dir", filepath.Join(dir, "data"),
	}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLISession(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "format", "--capacity", "8192", "--cluster-size", "1024")
	require.NoError(t, err)
	require.Contains(t, out, "8 total, 0 used, 8 free")

	out, err = run(t, dir, "create", "hello.txt", "--content", "hello from a cluster chain")
	require.NoError(t, err)
	require.Contains(t, out, "Created hello.txt")

	out, err = run(t, dir, "chain", "hello.txt")
	require.NoError(t, err)
	require.Equal(t, "0 -> EOC\n", out)

	out, err = run(t, dir, "exists", "hello.txt")
	require.NoError(t, err)
	require.Equal(t, "true\n", out)

	out, err = run(t, dir, "cp", "hello.txt", "copy.txt")
	require.NoError(t, err)
	require.Equal(t, "Copied hello.txt to copy.txt: 1 -> EOC\n", out)

	out, err = run(t, dir, "list")
	require.NoError(t, err)
	require.Equal(t, "copy.txt\nhello.txt\n", out)

	_, err = run(t, dir, "delete", "missing.txt")
	require.Error(t, err)

	out, err = run(t, dir, "check")
	require.NoError(t, err)
	require.Equal(t, "Volume is consistent\n", out)
}

func TestFormatChain(t *testing.T) {
	require.Equal(t, "(empty chain)", formatChain(nil))
	require.Equal(t, "4 -> EOC", formatChain([]int{4}))
	require.Equal(t, "0 -> 2 -> 5 -> EOC", formatChain([]int{0, 2, 5}))
}
