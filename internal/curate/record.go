package curate

// Record is one row of the curated output.
type Record struct {
	Year           int     `json:"Year"`
	Model          string  `json:"Model"`
	Color          string  `json:"Color"`
	Drivetrain     string  `json:"Drivetrain"`
	BaseMsrp       float64 `json:"Base MSRP"`
	Markup         float64 `json:"Markup"`
	DealerPrice    float64 `json:"Dealer Price"`
	ShippingStatus string  `json:"Shipping Status"`
	PreSold        bool    `json:"Pre-Sold"`
	HoldStatus     string  `json:"Hold Status"`
	VIN            string  `json:"VIN"`
	Dealer         string  `json:"Dealer"`
	DealerState    string  `json:"Dealer State"`
	Options        string  `json:"Options"`
}

// Columns is the output schema, in order.
var Columns = []string{
	"Year",
	"Model",
	"Color",
	"Drivetrain",
	"Base MSRP",
	"Markup",
	"Dealer Price",
	"Shipping Status",
	"Pre-Sold",
	"Hold Status",
	"VIN",
	"Dealer",
	"Dealer State",
	"Options",
}

// Values returns the fields of the record in the order of Columns.
func (r Record) Values() []any {
	return []any{
		r.Year,
		r.Model,
		r.Color,
		r.Drivetrain,
		r.BaseMsrp,
		r.Markup,
		r.DealerPrice,
		r.ShippingStatus,
		r.PreSold,
		r.HoldStatus,
		r.VIN,
		r.Dealer,
		r.DealerState,
		r.Options,
	}
}
