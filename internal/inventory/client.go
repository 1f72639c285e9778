package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"yotagrabber/internal/components/assert"
	"yotagrabber/internal/components/restydump"
	"yotagrabber/internal/components/telemetry"
	"yotagrabber/internal/wafbypass"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_headers    = "client.headers"
	report_client_fetch_page = "client.fetch-page"
	report_client_graphql    = "client.graphql-errors"
	report_client_dump       = "client.dump"
)

const DefaultBaseUrl = "https://api.search-inventory.toyota.com"

// ErrBlocked is returned when the upstream answers with an HTML page (usually
// a bot-detection challenge) instead of JSON.
var ErrBlocked = errors.New("blocked by upstream")

type ClientOptions struct {
	// if unspecified, DefaultBaseUrl is used
	BaseUrl string
	// if unspecified, 15 seconds is used
	Timeout time.Duration
	// if zero, requests are not rate limited
	RequestsPerSecond float64
	// if unspecified, the client sends no extra headers
	Headers          wafbypass.HeaderSource
	CloudflareBypass bool
	// if set, every exchange with the upstream is written here
	Dump restydump.Output
}

// Client fetches single pages of search results.
type Client struct {
	http    *resty.Client
	query   Query
	headers wafbypass.HeaderSource
	tel     telemetry.API
}

func NewClient(query Query, opts ClientOptions, tel telemetry.API) *Client {
	assert.NotNil(tel, "telemetry")
	assert.NotEmptyStr(query.body, "query body")

	tel = telemetry.NewScopedAPI("inventory", tel)

	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 15
	}
	headers := opts.Headers
	if headers == nil {
		headers = wafbypass.StaticHeaders{}
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(baseUrl)
	httpClient.SetTimeout(timeout)
	if opts.CloudflareBypass {
		wafbypass.InstallTransport(httpClient)
	}

	if opts.RequestsPerSecond > 0 {
		// max burst of 1, requests are sequential anyway
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)
	if opts.Dump != nil {
		restydump.Install(httpClient, opts.Dump, func(id string, err error) {
			tel.ReportWarning(report_client_dump, id, err)
		})
	}

	return &Client{
		http:    httpClient,
		query:   query,
		headers: headers,
		tel:     tel,
	}
}

// FetchPage requests a single 1-based page.
//
// A nil slice with a nil error means the upstream has no more results, this is
// how pagination ends. Transport failures (including timeouts), non-2xx
// responses and bodies that are not the expected JSON are returned as errors.
func (c *Client) FetchPage(ctx context.Context, page int) ([]RawVehicle, error) {
	headers, err := c.headers.Headers(ctx)
	if err != nil {
		c.tel.ReportBroken(report_client_headers, err)
		return nil, fmt.Errorf("acquire headers: %w", err)
	}

	body, err := json.Marshal(graphqlRequest{Query: c.query.Page(page)})
	if err != nil {
		return nil, err
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetHeaderMultiValues(headers).
		SetBody(body).
		Post("/graphql")
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}

	if looksLikeHtml(res) {
		err = fmt.Errorf("page %d: %w: %s (%s)", page, ErrBlocked, htmlTitle(res.Body()), res.Status())
		c.tel.ReportBroken(report_client_fetch_page, err)
		return nil, err
	}
	if res.IsError() {
		err = fmt.Errorf("page %d: unexpected status %s", page, res.Status())
		c.tel.ReportBroken(report_client_fetch_page, err, res.String())
		return nil, err
	}
	if len(bytes.TrimSpace(res.Body())) == 0 {
		c.tel.ReportDebug("empty response", page)
		return nil, nil
	}

	var parsed locateVehiclesResponse
	err = json.Unmarshal(res.Body(), &parsed)
	if err != nil {
		err = fmt.Errorf("page %d: json unmarshal: %w", page, err)
		c.tel.ReportBroken(report_client_fetch_page, err)
		return nil, err
	}

	if len(parsed.Errors) > 0 {
		messages := make([]string, len(parsed.Errors))
		for i, e := range parsed.Errors {
			messages[i] = e.Message
		}
		c.tel.ReportWarning(report_client_graphql, page, strings.Join(messages, "; "))
	}

	if parsed.Data == nil || parsed.Data.LocateVehiclesByZip == nil {
		c.tel.ReportDebug("no result object", page, res.String())
		return nil, nil
	}
	result := parsed.Data.LocateVehiclesByZip
	if result.Pagination != nil {
		c.tel.ReportDebug(
			"pagination",
			result.Pagination.PageNo,
			result.Pagination.TotalPages,
			result.Pagination.TotalRecords,
		)
	}
	if len(result.VehicleSummary) == 0 {
		return nil, nil
	}
	return result.VehicleSummary, nil
}

func looksLikeHtml(res *resty.Response) bool {
	if strings.Contains(res.Header().Get("content-type"), "text/html") {
		return true
	}
	return bytes.HasPrefix(bytes.TrimSpace(res.Body()), []byte("<"))
}

func htmlTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "unparseable html page"
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return "untitled html page"
	}
	return title
}
