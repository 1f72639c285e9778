package curate

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
	"yotagrabber/internal/components/telemetry"
	"yotagrabber/internal/inventory"
)

const (
	report_transform_msrp     = "transform.base-msrp"
	report_transform_pre_sold = "transform.pre-sold"
)

// ExtraCostColorTag is appended by the upstream to paint colors that cost extra.
const ExtraCostColorTag = " [extra_cost_color]"

// ShippingStatuses translates the upstream dealer category. Codes that are not
// in here are written out unchanged.
var ShippingStatuses = map[string]string{
	"A": "Factory to port",
	"F": "Port to dealer",
	"G": "At dealer",
}

type TransformParams struct {
	// marketing title of the model, ex. "4Runner"
	Title string
	// rows older than the year before Now are dropped
	Now time.Time
}

type TransformStats struct {
	NoColor        int
	NoMsrp         int
	Stale          int
	UnknownPreSold int
}

// Transform turns joined vehicles into curated records, dropping vehicles
// without a color, without a base MSRP or from a model year before last year.
// The order of the input is kept.
func Transform(rows []Joined, params TransformParams, tel telemetry.API) ([]Record, TransformStats) {
	var stats TransformStats
	minYear := params.Now.Year() - 1
	out := make([]Record, 0, len(rows))

	for _, row := range rows {
		v := row.Vehicle

		if v.ExtColor.MarketingName == nil {
			stats.NoColor++
			continue
		}
		if v.Price.BaseMsrp == nil {
			stats.NoMsrp++
			tel.ReportWarning(report_transform_msrp, v.VIN)
			continue
		}

		baseMsrp := *v.Price.BaseMsrp
		dealerPrice := baseMsrp
		if v.Price.DioTotalDealerSellingPrice != nil {
			dealerPrice = baseMsrp + *v.Price.DioTotalDealerSellingPrice
		}

		if v.Year < minYear {
			stats.Stale++
			continue
		}

		preSold, known := PreSold(v.IsPreSold)
		if !known {
			stats.UnknownPreSold++
			tel.ReportWarning(report_transform_pre_sold, v.VIN, string(v.IsPreSold))
		}

		out = append(out, Record{
			Year:           v.Year,
			Model:          StripModelTitle(v.Model.MarketingName, params.Title),
			Color:          strings.ReplaceAll(*v.ExtColor.MarketingName, ExtraCostColorTag, ""),
			Drivetrain:     v.Drivetrain.Code,
			BaseMsrp:       baseMsrp,
			Markup:         dealerPrice - baseMsrp,
			DealerPrice:    dealerPrice,
			ShippingStatus: ShippingStatus(v.DealerCategory),
			PreSold:        preSold,
			HoldStatus:     v.HoldStatus,
			VIN:            v.VIN,
			Dealer:         v.DealerMarketingName,
			DealerState:    row.Dealer.State,
			Options:        ConsolidateOptions(v.Options),
		})
	}

	tel.ReportCount("transform.no-color", int64(stats.NoColor))
	tel.ReportCount("transform.stale", int64(stats.Stale))
	return out, stats
}

// StripModelTitle removes the model title from a trim name,
// "4Runner TRD Pro" with title "4Runner" becomes "TRD Pro".
func StripModelTitle(model, title string) string {
	if title == "" {
		return model
	}
	return strings.ReplaceAll(model, title+" ", "")
}

// PreSold interprets the upstream pre-sold flag. null, 0 and false are false,
// 1 and true are true. Anything else is false and reported as unknown.
func PreSold(raw json.RawMessage) (value bool, known bool) {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "0", "0.0", "false":
		return false, true
	case "1", "1.0", "true":
		return true, true
	}
	return false, false
}

func ShippingStatus(code string) string {
	if status, ok := ShippingStatuses[code]; ok {
		return status
	}
	return code
}

// ConsolidateOptions joins the distinct option names, sorted, with " | ".
// The marketing name of an option is preferred over its long name, options
// with neither are skipped.
func ConsolidateOptions(options []inventory.Option) string {
	names := make([]string, 0, len(options))
	for _, option := range options {
		switch {
		case option.MarketingName != "":
			names = append(names, option.MarketingName)
		case option.MarketingLongName != "":
			names = append(names, option.MarketingLongName)
		}
	}
	slices.Sort(names)
	return strings.Join(slices.Compact(names), " | ")
}
