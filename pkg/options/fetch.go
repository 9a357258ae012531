// Package options fetches option lists for select-style fields whose choices
// live behind a remote service instead of static schema config. A field
// points at the service with a schema.SourceDescriptor; the fetcher turns
// the response into a normalized schema.OptionList.
package options

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Fetcher resolves remote option sources over HTTP.
type Fetcher struct {
	http *resty.Client
}

type Option func(*Fetcher)

// WithClient swaps the underlying resty client, mainly for tests and for
// callers that carry their own transport/auth configuration.
func WithClient(client *resty.Client) Option {
	return func(f *Fetcher) {
		f.http = client
	}
}

// WithTimeout bounds each option fetch.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.http.SetTimeout(d)
	}
}

// New returns a Fetcher with a 10s default timeout.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{http: resty.New().SetTimeout(10 * time.Second)}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch requests the descriptor's URL and maps the response into options.
// When the descriptor depends on another field, that field's current value
// is sent as a query parameter named after the field; static Params are
// always sent. An empty dependent value yields an empty list without a
// request, since the service cannot answer an unparameterized query.
func (f *Fetcher) Fetch(ctx context.Context, desc schema.SourceDescriptor, values map[string]any) (schema.OptionList, error) {
	if desc.URL == "" {
		return nil, fmt.Errorf("options: descriptor has no URL")
	}

	req := f.http.R().SetContext(ctx)
	for key, value := range desc.Params {
		req.SetQueryParam(key, value)
	}
	if desc.DependsOn != "" {
		dep, ok := values[desc.DependsOn]
		if !ok || fmt.Sprint(dep) == "" {
			return schema.OptionList{}, nil
		}
		req.SetQueryParam(desc.DependsOn, fmt.Sprint(dep))
	}

	var resp *resty.Response
	var err error
	switch strings.ToUpper(desc.Method) {
	case "", http.MethodGet:
		resp, err = req.Get(desc.URL)
	case http.MethodPost:
		resp, err = req.Post(desc.URL)
	default:
		return nil, fmt.Errorf("options: unsupported method %q", desc.Method)
	}
	if err != nil {
		return nil, fmt.Errorf("options: fetch %s: %w", desc.URL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("options: fetch %s: %s", desc.URL, resp.Status())
	}

	var body any
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("options: decode %s: %w", desc.URL, err)
	}

	rows, err := resultsAt(body, desc.ResultsPath)
	if err != nil {
		return nil, fmt.Errorf("options: %s: %w", desc.URL, err)
	}
	return mapRows(rows, desc)
}

// resultsAt walks a dotted path (e.g. "data.countries") into the decoded
// body and expects an array at the end. An empty path means the body itself
// is the array.
func resultsAt(body any, path string) ([]any, error) {
	node := body
	if path != "" {
		for _, key := range strings.Split(path, ".") {
			obj, ok := node.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("results path %q: expected object at %q", path, key)
			}
			node, ok = obj[key]
			if !ok {
				return nil, fmt.Errorf("results path %q: missing key %q", path, key)
			}
		}
	}
	rows, ok := node.([]any)
	if !ok {
		return nil, fmt.Errorf("results path %q: expected an array", path)
	}
	return rows, nil
}

func mapRows(rows []any, desc schema.SourceDescriptor) (schema.OptionList, error) {
	valueField := desc.ValueField
	if valueField == "" {
		valueField = "value"
	}
	labelField := desc.LabelField
	if labelField == "" {
		labelField = "label"
	}

	out := make(schema.OptionList, 0, len(rows))
	for _, row := range rows {
		switch v := row.(type) {
		case string:
			if opt, ok := schema.NormalizeOption(v); ok {
				out = append(out, opt)
			}
		case map[string]any:
			var label, value string
			if raw, ok := v[labelField]; ok {
				label = fmt.Sprint(raw)
			}
			if raw, ok := v[valueField]; ok {
				value = fmt.Sprint(raw)
			}
			if opt, ok := schema.NormalizeOption(schema.Option{Label: label, Value: value}); ok {
				out = append(out, opt)
			}
		default:
			return nil, fmt.Errorf("unsupported option row %T", row)
		}
	}
	return out, nil
}
