package config

import (
	"fmt"
	"os"
	"time"
	"yotagrabber/internal/components/configutil"
	"yotagrabber/internal/components/restydump"
	"yotagrabber/internal/inventory"
	"yotagrabber/internal/wafbypass"

	"dario.cat/mergo"
)

// DefaultPath is read relative to the working directory, a sibling
// yotagrabber.local.json5 overrides it.
const DefaultPath = "yotagrabber.json5"

type Upstream struct {
	BaseUrl           string  `json:"base_url"`
	ZipCode           string  `json:"zip_code"`
	MinRadius         int     `json:"min_radius"`
	MaxRadius         int     `json:"max_radius"`
	TimeoutSeconds    float64 `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	// headers sent with every request
	Headers map[string]string `json:"headers"`
	// a json5 file of headers, re-read for every request, overrides Headers
	HeaderFile       string `json:"header_file"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`
	// if set, every upstream exchange is written to this directory
	DumpDir string `json:"dump_dir"`
}

type Config struct {
	Upstream    Upstream `json:"upstream"`
	DealersPath string   `json:"dealers_path"`
	ModelsPath  string   `json:"models_path"`
	OutputDir   string   `json:"output_dir"`
	// if unspecified, OutputDir is used
	SnapshotDir string `json:"snapshot_dir"`
	Format      string `json:"format"`
	Debug       bool   `json:"debug"`
}

func Default() Config {
	return Config{
		Upstream: Upstream{
			BaseUrl:        inventory.DefaultBaseUrl,
			ZipCode:        inventory.DefaultZipCode,
			MinRadius:      inventory.DefaultMinRadius,
			MaxRadius:      inventory.DefaultMaxRadius,
			TimeoutSeconds: 15,
		},
		DealersPath: "data/dealers.csv",
		ModelsPath:  "output/models.json",
		OutputDir:   "output",
		Format:      "csv",
	}
}

// Load reads the config file at path over the defaults. A missing file is not
// an error, the defaults are returned as they are.
func Load(path string) (Config, error) {
	cfg := Default()
	fromFile, err := configutil.ReadConfig[Config](path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	err = mergo.Merge(&cfg, fromFile, mergo.WithOverride)
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) SnapshotDirectory() string {
	if c.SnapshotDir != "" {
		return c.SnapshotDir
	}
	return c.OutputDir
}

// HeaderSource builds the source of upstream headers described by the config.
func (u Upstream) HeaderSource() wafbypass.HeaderSource {
	chain := wafbypass.Chain{wafbypass.StaticHeaders(u.Headers)}
	if u.HeaderFile != "" {
		chain = append(chain, wafbypass.FileSource{Path: u.HeaderFile})
	}
	return chain
}

// ClientOptions fails only when the dump directory cannot be prepared.
func (u Upstream) ClientOptions() (inventory.ClientOptions, error) {
	opts := inventory.ClientOptions{
		BaseUrl:           u.BaseUrl,
		Timeout:           time.Duration(u.TimeoutSeconds * float64(time.Second)),
		RequestsPerSecond: u.RequestsPerSecond,
		Headers:           u.HeaderSource(),
		CloudflareBypass:  u.CloudflareBypass,
	}
	if u.DumpDir != "" {
		dump, err := restydump.NewDirectoryOutput(u.DumpDir)
		if err != nil {
			return opts, fmt.Errorf("prepare dump dir: %w", err)
		}
		opts.Dump = dump
	}
	return opts, nil
}

func (u Upstream) QueryParams(model string) inventory.QueryParams {
	return inventory.QueryParams{
		ZipCode:   u.ZipCode,
		Model:     model,
		MinRadius: u.MinRadius,
		MaxRadius: u.MaxRadius,
	}
}
