package inventory

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
	"yotagrabber/internal/components/telemetry"
	"yotagrabber/internal/wafbypass"

	"github.com/stretchr/testify/require"
)

type upstream struct {
	t        *testing.T
	requests []string
	headers  []http.Header
	handler  func(w http.ResponseWriter, page int)
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	require.Equal(u.t, http.MethodPost, r.Method)
	require.Equal(u.t, "/graphql", r.URL.Path)

	body, err := io.ReadAll(r.Body)
	require.NoError(u.t, err)
	var req graphqlRequest
	require.NoError(u.t, json.Unmarshal(body, &req))

	u.requests = append(u.requests, req.Query)
	u.headers = append(u.headers, r.Header.Clone())
	u.handler(w, len(u.requests))
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, page int), opts ClientOptions) (*Client, *upstream) {
	up := &upstream{t: t, handler: handler}
	server := httptest.NewServer(up)
	t.Cleanup(server.Close)

	query, err := NewQuery(QueryParams{Template: "page=PAGENUMBER model=MODELCODE", Model: "4runner"})
	if err != nil {
		t.Fatal(err)
	}
	opts.BaseUrl = server.URL
	return NewClient(query, opts, telemetry.NewMemoryAPI()), up
}

const onePage = `{
	"data": {
		"locateVehiclesByZip": {
			"pagination": {"pageNo": 1, "pageSize": 250, "totalPages": 1, "totalRecords": 2},
			"vehicleSummary": [
				{"vin": "VIN1", "year": 2026, "dealerCd": "04136", "isPreSold": null,
				 "price": {"baseMsrp": 40000, "dioTotalDealerSellingPrice": 1500},
				 "options": [{"marketingName": "Mud Flaps"}]},
				{"vin": "VIN2", "year": 2025, "dealerCd": 4137, "isPreSold": true,
				 "price": {"baseMsrp": 41000}}
			]
		}
	}
}`

func TestFetchPage(t *testing.T) {
	client, up := newTestClient(t, func(w http.ResponseWriter, page int) {
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(onePage))
	}, ClientOptions{
		Headers: wafbypass.StaticHeaders{"x-aws-waf-token": "token"},
	})

	vehicles, err := client.FetchPage(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, vehicles, 2)
	require.Equal(t, "VIN1", vehicles[0].VIN)
	require.Equal(t, DealerCode("04136"), vehicles[0].DealerCode)
	require.Equal(t, DealerCode("4137"), vehicles[1].DealerCode)
	require.Equal(t, 1500.0, *vehicles[0].Price.DioTotalDealerSellingPrice)
	require.Nil(t, vehicles[1].Price.DioTotalDealerSellingPrice)
	require.Equal(t, "Mud Flaps", vehicles[0].Options[0].MarketingName)

	require.Equal(t, []string{"page=7 model=4runner"}, up.requests)
	require.Equal(t, "token", up.headers[0].Get("x-aws-waf-token"))
}

func TestFetchPageNoResult(t *testing.T) {
	bodies := []string{
		``,
		`{"data": null}`,
		`{"data": {"locateVehiclesByZip": null}, "errors": [{"message": "nope"}]}`,
		`{"data": {"locateVehiclesByZip": {"pagination": {"pageNo": 4}}}}`,
		`{"data": {"locateVehiclesByZip": {"vehicleSummary": []}}}`,
	}

	for _, body := range bodies {
		client, _ := newTestClient(t, func(w http.ResponseWriter, page int) {
			w.Header().Set("content-type", "application/json")
			w.Write([]byte(body))
		}, ClientOptions{})

		vehicles, err := client.FetchPage(context.Background(), 1)
		require.NoError(t, err, body)
		require.Nil(t, vehicles, body)
	}
}

func TestFetchPageErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		ctype   string
		body    string
		blocked bool
	}{
		{name: "malformed", status: 200, ctype: "application/json", body: `{"data": [`},
		{name: "server error", status: 500, ctype: "application/json", body: `{}`},
		{
			name:    "challenge",
			status:  403,
			ctype:   "text/html",
			body:    `<html><head><title>Human Verification</title></head><body></body></html>`,
			blocked: true,
		},
		{
			name:    "challenge with 200",
			status:  200,
			ctype:   "application/octet-stream",
			body:    `<!DOCTYPE html><html><head><title>Just a moment</title></head></html>`,
			blocked: true,
		},
	}

	for _, test := range cases {
		client, _ := newTestClient(t, func(w http.ResponseWriter, page int) {
			w.Header().Set("content-type", test.ctype)
			w.WriteHeader(test.status)
			w.Write([]byte(test.body))
		}, ClientOptions{})

		vehicles, err := client.FetchPage(context.Background(), 1)
		require.Error(t, err, test.name)
		require.Nil(t, vehicles, test.name)
		if test.blocked {
			require.ErrorIs(t, err, ErrBlocked, test.name)
		}
	}
}

func TestFetchPageTimeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, page int) {
		time.Sleep(time.Millisecond * 300)
		w.Write([]byte(onePage))
	}, ClientOptions{Timeout: time.Millisecond * 50})

	_, err := client.FetchPage(context.Background(), 1)
	require.Error(t, err)
}

func TestFetchPageHeaderFailure(t *testing.T) {
	client, up := newTestClient(t, func(w http.ResponseWriter, page int) {
		w.Write([]byte(onePage))
	}, ClientOptions{
		Headers: wafbypass.FileSource{Path: filepath.Join(t.TempDir(), "missing.json5")},
	})

	_, err := client.FetchPage(context.Background(), 1)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Empty(t, up.requests)
}
