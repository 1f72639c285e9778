// Package grabber runs the whole pipeline for one model: harvest the upstream
// (or a raw snapshot), join with the dealer table, curate and write the output.
package grabber

import (
	"context"
	"errors"
	"fmt"
	"yotagrabber/internal/components/assert"
	"yotagrabber/internal/components/chrono"
	"yotagrabber/internal/components/telemetry"
	"yotagrabber/internal/curate"
	"yotagrabber/internal/inventory"
	"yotagrabber/internal/output"
	"yotagrabber/internal/reference"
	"yotagrabber/internal/snapshot"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("grabber")
var meter = otel.Meter("grabber")
var curatedGauge, _ = meter.Int64Gauge("curated_vehicles")

const (
	report_grabber_harvest  = "grabber.harvest"
	report_grabber_snapshot = "grabber.snapshot"
)

// ErrNoVehicles means the run collected zero raw vehicles, nothing is written.
var ErrNoVehicles = errors.New("no vehicles found")

type Options struct {
	Model string
	// replay the raw snapshot instead of asking the upstream
	UseLocalData bool
	Format       output.Format
	OutputDir    string
	SnapshotDir  string
}

type Summary struct {
	Model        string
	FromSnapshot bool
	Pages        int
	Raw          int
	Joined       int
	Curated      int
	OutputPath   string
	// non-nil when pagination stopped early, the rows before it are kept
	HarvestErr error
	JoinStats  curate.JoinStats
	Transform  curate.TransformStats
}

// Grabber holds the collaborators of a run, so they can be swapped in tests.
type Grabber struct {
	fetcher inventory.PageFetcher
	dealers reference.Dealers
	models  reference.Models
	time    chrono.API
	tel     telemetry.API
}

// NewGrabber creates a Grabber, fetcher may be nil when only local data is used.
func NewGrabber(
	fetcher inventory.PageFetcher,
	dealers reference.Dealers,
	models reference.Models,
	time chrono.API,
	tel telemetry.API,
) Grabber {
	assert.NotNil(time, "time")
	assert.NotNil(tel, "telemetry")

	return Grabber{
		fetcher: fetcher,
		dealers: dealers,
		models:  models,
		time:    time,
		tel:     telemetry.NewScopedAPI("grabber", tel),
	}
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// Run executes the pipeline once. The curated output replaces whatever a
// previous run wrote.
func (g Grabber) Run(ctx context.Context, opts Options) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("model", opts.Model),
		attribute.Bool("local", opts.UseLocalData),
	)

	summary := Summary{Model: opts.Model, FromSnapshot: opts.UseLocalData}
	if opts.Model == "" {
		return summary, fail(span, inventory.ErrMissingModel)
	}
	format := opts.Format
	if format == "" {
		format = output.FormatCSV
	}

	title, err := g.models.Title(opts.Model)
	if err != nil {
		return summary, fail(span, err)
	}

	snapshotPath := snapshot.Path(opts.SnapshotDir, opts.Model)
	var vehicles []inventory.RawVehicle
	if opts.UseLocalData {
		vehicles, err = snapshot.Load(ctx, snapshotPath)
		if err != nil {
			return summary, fail(span, fmt.Errorf("load raw snapshot: %w", err))
		}
	} else {
		if g.fetcher == nil {
			return summary, fail(span, errors.New("no page fetcher configured"))
		}
		harvest := g.harvest(ctx)
		vehicles = harvest.Vehicles
		summary.Pages = harvest.Pages
		summary.HarvestErr = harvest.Err
	}
	summary.Raw = len(vehicles)

	if len(vehicles) == 0 {
		return summary, fail(span, fmt.Errorf("%w for model: %s", ErrNoVehicles, opts.Model))
	}

	if !opts.UseLocalData {
		err = snapshot.Save(ctx, snapshotPath, vehicles)
		if err != nil {
			// the snapshot is a convenience, the curated output is still worth writing
			g.tel.ReportWarning(report_grabber_snapshot, snapshotPath, err)
		}
	}

	records := g.curate(ctx, vehicles, title, &summary)

	_, writeSpan := tracer.Start(ctx, "Write")
	path, err := output.WriteFile(opts.OutputDir, opts.Model, format, records)
	if err != nil {
		writeSpan.End()
		return summary, fail(span, fmt.Errorf("write curated output: %w", err))
	}
	writeSpan.End()
	summary.OutputPath = path

	curatedGauge.Record(ctx, int64(summary.Curated), metric.WithAttributes(attribute.String("model", opts.Model)))
	g.tel.ReportCount("curated", int64(summary.Curated))
	return summary, nil
}

func (g Grabber) harvest(ctx context.Context) inventory.Harvest {
	ctx, span := tracer.Start(ctx, "Harvest")
	defer span.End()

	harvest := inventory.FetchAll(ctx, g.fetcher, g.tel)
	span.SetAttributes(
		attribute.Int("pages", harvest.Pages),
		attribute.Int("vehicles", len(harvest.Vehicles)),
	)
	if harvest.Err != nil {
		span.RecordError(harvest.Err)
		g.tel.ReportWarning(report_grabber_harvest, "pagination ended by an error", harvest.Err, len(harvest.Vehicles))
	}
	return harvest
}

func (g Grabber) curate(ctx context.Context, vehicles []inventory.RawVehicle, title string, summary *Summary) []curate.Record {
	_, span := tracer.Start(ctx, "Curate")
	defer span.End()

	joined, joinStats := curate.Join(vehicles, g.dealers, g.tel)
	records, transformStats := curate.Transform(joined, curate.TransformParams{
		Title: title,
		Now:   g.time.Now(),
	}, g.tel)
	output.SortByVIN(records)

	summary.Joined = len(joined)
	summary.JoinStats = joinStats
	summary.Curated = len(records)
	summary.Transform = transformStats

	span.SetAttributes(
		attribute.Int("joined", len(joined)),
		attribute.Int("curated", len(records)),
	)
	return records
}
