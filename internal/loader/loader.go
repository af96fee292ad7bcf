package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"trendsview/internal"
	"trendsview/internal/pipeline"
)

// Loader fetches the trends dataset and normalizes it.
type Loader struct {
	httpClient *http.Client
	userAgent  string
}

// New wires an HTTP client. A nil client gets one without a timeout so the
// transport defaults apply.
func New(client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{}
	}
	return &Loader{httpClient: client, userAgent: "trendsview/1.0"}
}

// Load fetches url once and returns the normalized rows. Errors are one of
// *TransportError, *HTTPStatusError or *ParseError; nothing is retried.
func (l *Loader) Load(ctx context.Context, rawURL string) ([]internal.TrendRow, error) {
	records, err := l.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return pipeline.NormalizeRecords(records), nil
}

// Fetch returns the raw records without normalizing them.
func (l *Loader) Fetch(ctx context.Context, rawURL string) ([]internal.RawRecord, error) {
	body, err := l.read(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	records, err := DecodeRecords(body)
	if err != nil {
		return nil, &ParseError{URL: rawURL, Err: err}
	}
	return records, nil
}

func (l *Loader) read(ctx context.Context, rawURL string) ([]byte, error) {
	if path, ok := localPath(rawURL); ok {
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, &TransportError{URL: rawURL, Err: err}
		}
		return blob, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store, no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

// DecodeRecords parses a JSON array of records. Numbers keep their literal
// text so coercion sees exactly what was published. Strings, numbers, booleans
// and arrays carry no fields and become empty records; a null element is an
// error.
func DecodeRecords(body []byte) ([]internal.RawRecord, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		return nil, err
	}
	if elems == nil {
		return nil, errors.New("dataset is not a JSON array")
	}

	records := make([]internal.RawRecord, 0, len(elems))
	for i, elem := range elems {
		trimmed := bytes.TrimSpace(elem)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			return nil, fmt.Errorf("record %d is null", i)
		}
		if trimmed[0] != '{' {
			records = append(records, internal.RawRecord{})
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var rec internal.RawRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func localPath(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return rawURL, true
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		return u.Path, true
	case "http", "https":
		return "", false
	default:
		// Single-letter schemes are drive letters on Windows paths.
		if len(u.Scheme) == 1 {
			return rawURL, true
		}
		return "", false
	}
}
