// Package wafbypass is the boundary between the inventory client and whatever
// gets the upstream's bot-detection layer to let requests through. The client
// only sees HeaderSource, the way the headers are obtained stays outside of it.
package wafbypass

import (
	"context"
	"fmt"
	"net/http"
	"os"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/titanous/json5"
)

// HeaderSource produces the headers that must accompany every upstream request.
type HeaderSource interface {
	Headers(ctx context.Context) (http.Header, error)
}

// StaticHeaders is a fixed set of headers, usually from the config file.
type StaticHeaders map[string]string

func (s StaticHeaders) Headers(context.Context) (http.Header, error) {
	out := http.Header{}
	for k, v := range s {
		out.Set(k, v)
	}
	return out, nil
}

// FileSource reads a json5 object of header name to value on every call, so an
// external bypass tool can refresh the file while a run is going.
type FileSource struct {
	Path string
}

func (f FileSource) Headers(ctx context.Context) (http.Header, error) {
	contents, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read header file: %w", err)
	}
	var values map[string]string
	err = json5.Unmarshal(contents, &values)
	if err != nil {
		return nil, fmt.Errorf("parse header file %s: %w", f.Path, err)
	}
	return StaticHeaders(values).Headers(ctx)
}

// Chain merges the headers of every source, later sources override earlier ones.
type Chain []HeaderSource

func (c Chain) Headers(ctx context.Context) (http.Header, error) {
	out := http.Header{}
	for _, src := range c {
		headers, err := src.Headers(ctx)
		if err != nil {
			return nil, err
		}
		for k, v := range headers {
			out[k] = v
		}
	}
	return out, nil
}

// InstallTransport wraps the client's transport with a browser-like TLS
// fingerprint and default headers.
func InstallTransport(client *resty.Client) {
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
}
