package commands

import (
	"errors"
	"log/slog"
	"os"
	"time"
	"yotagrabber/internal/components/chrono"
	"yotagrabber/internal/components/telemetry"
	"yotagrabber/internal/config"
	"yotagrabber/internal/grabber"
	"yotagrabber/internal/inventory"
	"yotagrabber/internal/output"
	"yotagrabber/internal/reference"

	"github.com/spf13/cobra"
)

var (
	updateModel  *string
	updateLocal  *bool
	updateFormat *string
	updateConfig *string
)

func init() {
	updateModel = updateCmd.Flags().String("model", "", "The model code to collect, defaults to the MODEL environment variable.")
	updateLocal = updateCmd.Flags().Bool("local", false, "Curate the raw snapshot of the last run instead of asking the upstream.")
	updateFormat = updateCmd.Flags().String("format", "", "The output format, csv or json. Overrides the config file.")
	updateConfig = updateCmd.Flags().String("config", config.DefaultPath, "The config file to read, it does not have to exist.")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update [--model <code>] [--local] [--format csv|json] [--config <path>]",
	Short: "Collects the inventory of a model and writes the curated table.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		model := *updateModel
		if model == "" {
			model = os.Getenv("MODEL")
		}
		if model == "" {
			fatal("no model given", inventory.ErrMissingModel)
		}

		cfg, err := config.Load(*updateConfig)
		if err != nil {
			fatal("failed to read config", err)
		}
		if cfg.Debug {
			telemetry.InitSlog(true)
		}

		formatName := cfg.Format
		if *updateFormat != "" {
			formatName = *updateFormat
		}
		format, err := output.ParseFormat(formatName)
		if err != nil {
			fatal("invalid output format", err)
		}

		dealers, err := reference.LoadDealers(cfg.DealersPath)
		if err != nil {
			fatal("failed to load dealers", err)
		}
		if dealers.Duplicates > 0 {
			slog.Warn("dealer table has duplicate ids, the first row of each is used", "duplicates", dealers.Duplicates)
		}
		models, err := reference.LoadModels(cfg.ModelsPath)
		if err != nil {
			fatal("failed to load models", err)
		}

		tel := telemetry.SlogAPI{}

		var fetcher inventory.PageFetcher
		if !*updateLocal {
			query, err := inventory.NewQuery(cfg.Upstream.QueryParams(model))
			if err != nil {
				fatal("failed to build query", err)
			}
			slog.Debug("built query", "radius", query.Radius, "session", query.SessionId)
			opts, err := cfg.Upstream.ClientOptions()
			if err != nil {
				fatal("failed to configure client", err)
			}
			fetcher = inventory.NewClient(query, opts, tel)
		}

		g := grabber.NewGrabber(fetcher, dealers, models, chrono.NewStandardImpl(), tel)

		t1 := time.Now()
		summary, err := g.Run(ctx, grabber.Options{
			Model:        model,
			UseLocalData: *updateLocal,
			Format:       format,
			OutputDir:    cfg.OutputDir,
			SnapshotDir:  cfg.SnapshotDirectory(),
		})
		if errors.Is(err, grabber.ErrNoVehicles) {
			fatal("nothing to write", err)
		}
		if err != nil {
			fatal("update failed", err)
		}
		t2 := time.Now()
		perf := telemetry.SamplePerfStats(ctx)

		if summary.HarvestErr != nil {
			slog.Warn("pagination stopped early, the output is partial", "err", summary.HarvestErr)
		}
		slog.Info(
			"update done",
			"model", summary.Model,
			"pages", summary.Pages,
			"raw", summary.Raw,
			"joined", summary.Joined,
			"curated", summary.Curated,
			"output", summary.OutputPath,
			"seconds", t2.Sub(t1).Seconds(),
			"allocated_mb", perf.AllocMb,
		)
	},
}
