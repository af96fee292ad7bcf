package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"trendsview/internal"
	"trendsview/internal/util"
)

const datasetPrefix = "tickertrends_daily_"

// DatasetFilename names a dataset file. An empty category names the combined
// file.
func DatasetFilename(category string, at time.Time) string {
	stamp := at.Format("20060102_150405")
	if category == "" {
		return datasetPrefix + stamp + ".json"
	}
	return datasetPrefix + util.Slug(category) + "_" + stamp + ".json"
}

// EncodeDataset renders records as an indented JSON array, keeping &, < and >
// literal.
func EncodeDataset(records []internal.RawRecord) ([]byte, error) {
	if records == nil {
		records = []internal.RawRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDataset stores body as dir/name and returns the path.
func WriteDataset(dir, name string, body []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write dataset: %w", err)
	}
	return path, nil
}
