// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the search sources and
// the language-model client. Requests are sent once; there is no retry.
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of a non-200 body is kept in a StatusError.
const maxErrorBody = 2048

// StatusError is returned when a server answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// GetJSON issues a GET request and decodes a 200 JSON response into v.
func GetJSON(ctx context.Context, client *http.Client, url string, header http.Header, v any) error {
	return get(ctx, client, url, header, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(v)
	})
}

// GetXML issues a GET request and decodes a 200 XML response into v.
func GetXML(ctx context.Context, client *http.Client, url string, header http.Header, v any) error {
	return get(ctx, client, url, header, func(r io.Reader) error {
		return xml.NewDecoder(r).Decode(v)
	})
}

// PostJSON marshals body, POSTs it as application/json, and decodes a 200
// JSON response into v.
func PostJSON(ctx context.Context, client *http.Client, url string, header http.Header, body, v any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	copyHeader(req, header)
	req.Header.Set("Content-Type", "application/json")
	return do(client, req, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(v)
	})
}

func get(ctx context.Context, client *http.Client, url string, header http.Header, decode func(io.Reader) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	copyHeader(req, header)
	return do(client, req, decode)
}

func do(client *http.Client, req *http.Request, decode func(io.Reader) error) error {
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := decode(resp.Body); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func copyHeader(req *http.Request, header http.Header) {
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
}
