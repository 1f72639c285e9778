package inventory

import (
	"context"
	"yotagrabber/internal/components/telemetry"
)

const report_paginate_fetch_all = "paginate.fetch-all"

// PageFetcher is implemented by Client, tests substitute their own pages.
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) ([]RawVehicle, error)
}

// Harvest is everything one pagination loop collected.
type Harvest struct {
	// in fetch order, page 1 rows come before page 2 rows
	Vehicles []RawVehicle
	// number of pages that returned rows
	Pages int
	// the error that ended the loop, nil when the upstream ran out of results
	Err error
}

// FetchAll requests page 1, 2, ... until a page comes back empty or fails.
// Rows gathered before a failure are kept, the failure is only recorded in
// Harvest.Err.
func FetchAll(ctx context.Context, fetcher PageFetcher, tel telemetry.API) Harvest {
	var harvest Harvest
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			harvest.Err = err
			return harvest
		}

		tel.ReportDebug("fetching page", page)
		vehicles, err := fetcher.FetchPage(ctx, page)
		if err != nil {
			tel.ReportWarning(report_paginate_fetch_all, page, err)
			harvest.Err = err
			return harvest
		}
		if len(vehicles) == 0 {
			tel.ReportDebug("no more results", page)
			return harvest
		}

		harvest.Vehicles = append(harvest.Vehicles, vehicles...)
		harvest.Pages++
		tel.ReportCount("paginate.vehicles", int64(len(harvest.Vehicles)))
	}
}
