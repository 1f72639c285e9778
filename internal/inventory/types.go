package inventory

import (
	"bytes"
	"encoding/json"
)

// DealerCode is the upstream dealer identifier, sent as a string ("04136")
// or occasionally as a bare number.
type DealerCode string

func (c *DealerCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		err := json.Unmarshal(b, &s)
		if err != nil {
			return err
		}
		*c = DealerCode(s)
		return nil
	}
	*c = DealerCode(b)
	return nil
}

type Model struct {
	Code           string `json:"modelCd"`
	MarketingName  string `json:"marketingName"`
	MarketingTitle string `json:"marketingTitle"`
}

type Color struct {
	Code          string  `json:"colorCd"`
	MarketingName *string `json:"marketingName"`
	HexCode       string  `json:"colorHexCd,omitempty"`
	NvsName       string  `json:"nvsName,omitempty"`
}

type Price struct {
	AdvertizedPrice            *float64 `json:"advertizedPrice"`
	TotalMsrp                  *float64 `json:"totalMsrp"`
	SellingPrice               *float64 `json:"sellingPrice"`
	DioTotalMsrp               *float64 `json:"dioTotalMsrp"`
	DioTotalDealerSellingPrice *float64 `json:"dioTotalDealerSellingPrice"`
	BaseMsrp                   *float64 `json:"baseMsrp"`
}

type Drivetrain struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

type Option struct {
	Code              string `json:"optionCd"`
	MarketingName     string `json:"marketingName"`
	MarketingLongName string `json:"marketingLongName"`
	OptionType        string `json:"optionType"`
}

// RawVehicle is one entry of `vehicleSummary` as the upstream returns it.
type RawVehicle struct {
	VIN                 string     `json:"vin"`
	StockNum            string     `json:"stockNum"`
	Year                int        `json:"year"`
	DealerCode          DealerCode `json:"dealerCd"`
	DealerCategory      string     `json:"dealerCategory"`
	DealerMarketingName string     `json:"dealerMarketingName"`
	DealerWebsite       string     `json:"dealerWebsite"`
	HoldStatus          string     `json:"holdStatus"`
	// true/false, 1/0 or null depending on the upstream's mood
	IsPreSold  json.RawMessage `json:"isPreSold,omitempty"`
	Model      Model           `json:"model"`
	ExtColor   Color           `json:"extColor"`
	IntColor   Color           `json:"intColor"`
	Price      Price           `json:"price"`
	Drivetrain Drivetrain      `json:"drivetrain"`
	Options    []Option        `json:"options"`
}

type Pagination struct {
	PageNo       int `json:"pageNo"`
	PageSize     int `json:"pageSize"`
	TotalPages   int `json:"totalPages"`
	TotalRecords int `json:"totalRecords"`
}

type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type locateVehiclesResult struct {
	Pagination     *Pagination  `json:"pagination"`
	VehicleSummary []RawVehicle `json:"vehicleSummary"`
}

type locateVehiclesResponse struct {
	Data *struct {
		LocateVehiclesByZip *locateVehiclesResult `json:"locateVehiclesByZip"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}
