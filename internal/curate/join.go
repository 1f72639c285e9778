package curate

import (
	"strconv"
	"strings"
	"yotagrabber/internal/components/telemetry"
	"yotagrabber/internal/inventory"
	"yotagrabber/internal/reference"
)

const (
	report_join_dealer_code = "join.dealer-code"
	report_join_unmatched   = "join.unmatched-dealer"
)

// Joined is a raw vehicle paired with the dealer it is listed at.
type Joined struct {
	Vehicle inventory.RawVehicle
	Dealer  reference.Dealer
}

type JoinStats struct {
	InvalidCode int
	Unmatched   int
}

// Join pairs every vehicle with its dealer. Vehicles whose dealer code is not
// numeric or is not in the dealer table are dropped and reported. The order
// of the input is kept.
func Join(vehicles []inventory.RawVehicle, dealers reference.Dealers, tel telemetry.API) ([]Joined, JoinStats) {
	var stats JoinStats
	out := make([]Joined, 0, len(vehicles))

	for _, vehicle := range vehicles {
		code, err := strconv.Atoi(strings.TrimSpace(string(vehicle.DealerCode)))
		if err != nil {
			stats.InvalidCode++
			tel.ReportWarning(report_join_dealer_code, vehicle.VIN, string(vehicle.DealerCode))
			continue
		}
		dealer, ok := dealers.Lookup(code)
		if !ok {
			stats.Unmatched++
			tel.ReportDebug(report_join_unmatched, vehicle.VIN, code)
			continue
		}
		out = append(out, Joined{Vehicle: vehicle, Dealer: dealer})
	}

	tel.ReportCount("join.invalid-code", int64(stats.InvalidCode))
	tel.ReportCount("join.unmatched", int64(stats.Unmatched))
	return out, stats
}
