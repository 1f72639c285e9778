package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultPath))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadWithLocalOverride(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "yotagrabber.json5"), []byte(`{
		// comments are fine, it's json5
		upstream: {
			zip_code: "98101",
			requests_per_second: 0.5,
			headers: {"x-api-key": "abc"},
		},
		output_dir: "out",
	}`), 0600)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(dir, "yotagrabber.local.json5"), []byte(`{
		format: "json",
		output_dir: "local-out",
	}`), 0600)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(filepath.Join(dir, "yotagrabber.json5"))
	if err != nil {
		t.Fatal(err)
	}

	require.Equal(t, "98101", cfg.Upstream.ZipCode)
	require.Equal(t, 0.5, cfg.Upstream.RequestsPerSecond)
	require.Equal(t, "local-out", cfg.OutputDir)
	require.Equal(t, "local-out", cfg.SnapshotDirectory())
	require.Equal(t, "json", cfg.Format)
	// untouched defaults survive
	require.Equal(t, "data/dealers.csv", cfg.DealersPath)
	require.Equal(t, float64(15), cfg.Upstream.TimeoutSeconds)

	opts, err := cfg.Upstream.ClientOptions()
	require.NoError(t, err)
	require.Nil(t, opts.Dump)
	require.Equal(t, time.Second*15, opts.Timeout)
	headers, err := opts.Headers.Headers(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc", headers.Get("x-api-key"))
}

func TestHeaderFileOverridesStatic(t *testing.T) {
	headerFile := filepath.Join(t.TempDir(), "headers.json5")
	err := os.WriteFile(headerFile, []byte(`{"x-aws-waf-token": "fresh"}`), 0600)
	if err != nil {
		t.Fatal(err)
	}

	upstream := Upstream{
		Headers:    map[string]string{"x-aws-waf-token": "stale", "referer": "https://www.toyota.com/"},
		HeaderFile: headerFile,
	}
	headers, err := upstream.HeaderSource().Headers(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh", headers.Get("x-aws-waf-token"))
	require.Equal(t, "https://www.toyota.com/", headers.Get("referer"))
}
