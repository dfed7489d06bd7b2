package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.pdf")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"version", []string{"-version"}, 0},
		{"no inputs prints usage", []string{}, 0},
		{"unknown flag", []string{"-no-such-flag"}, 2},
		{"missing config file", []string{"-config=" + filepath.Join(dir, "nope.ini"), missing}, 1},
		{"unknown bank", []string{"-bank=bmce", missing}, 1},
		{"unknown store backend", []string{"-store=mongo", missing}, 1},
		{"missing input", []string{"-log-level=error", missing}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(tt.args))
		})
	}
}

func TestRunClosesStoreOnImportFailure(t *testing.T) {
	mr := miniredis.RunT(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "importer.ini")
	cfg := fmt.Sprintf("[store]\nbackend = redis\nredis-addr = %s\n\n[log]\nlevel = error\n", mr.Addr())
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	code := run([]string{"-config=" + cfgPath, filepath.Join(dir, "missing.pdf")})
	assert.Equal(t, 1, code)

	assert.Eventually(t, func() bool {
		return mr.CurrentConnectionCount() == 0
	}, 2*time.Second, 10*time.Millisecond, "redis connections left open after run returned")
}
