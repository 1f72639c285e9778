package inventory

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	random "github.com/mazen160/go-random"
)

//go:embed vehicles.graphql
var VehiclesQuery string

var ErrMissingModel = errors.New("model code is required")

const (
	DefaultZipCode   = "90210"
	DefaultMinRadius = 5823
	DefaultMaxRadius = 6822
)

type QueryParams struct {
	// if unspecified, VehiclesQuery is used
	Template string
	// if unspecified, DefaultZipCode is used
	ZipCode string
	Model   string
	// if both are zero, DefaultMinRadius and DefaultMaxRadius are used
	MinRadius int
	MaxRadius int
}

// Query is the search query of a single run. The radius and session id are
// picked once when it is built, every page of the run shares them.
type Query struct {
	body      string
	Radius    int
	SessionId string
}

func NewQuery(params QueryParams) (Query, error) {
	if strings.TrimSpace(params.Model) == "" {
		return Query{}, ErrMissingModel
	}

	template := params.Template
	if template == "" {
		template = VehiclesQuery
	}
	zip := params.ZipCode
	if zip == "" {
		zip = DefaultZipCode
	}

	minRadius, maxRadius := params.MinRadius, params.MaxRadius
	if minRadius == 0 && maxRadius == 0 {
		minRadius, maxRadius = DefaultMinRadius, DefaultMaxRadius
	}
	if maxRadius < minRadius {
		return Query{}, fmt.Errorf("invalid radius range [%d, %d]", minRadius, maxRadius)
	}

	radius := minRadius
	if maxRadius > minRadius {
		var err error
		radius, err = random.IntRange(minRadius, maxRadius)
		if err != nil {
			return Query{}, fmt.Errorf("pick radius: %w", err)
		}
	}
	sessionId := uuid.NewString()

	body := strings.NewReplacer(
		"ZIPCODE", zip,
		"MODELCODE", params.Model,
		"DISTANCEMILES", strconv.Itoa(radius),
		"LEADIDUUID", sessionId,
	).Replace(template)

	return Query{
		body:      body,
		Radius:    radius,
		SessionId: sessionId,
	}, nil
}

// Page returns the query body for the given 1-based page.
func (q Query) Page(page int) string {
	return strings.ReplaceAll(q.body, "PAGENUMBER", strconv.Itoa(page))
}
