package util

import (
	"encoding/json"
	"testing"
)

func TestParseGrowth(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  float64
	}{
		{name: "thousands separator", input: "1,234", want: 1234},
		{name: "several separators", input: "4,454,000", want: 4454000},
		{name: "decimal", input: "12.5", want: 12.5},
		{name: "scientific", input: "1.2e3", want: 1200},
		{name: "json number", input: json.Number("75"), want: 75},
		{name: "float", input: 30.0, want: 30},
		{name: "zero float", input: 0.0, want: 0},
		{name: "padded", input: "  42 ", want: 42},
		{name: "hex integer", input: "0x10", want: 16},
		{name: "negative", input: "-5", want: -5},
		{name: "missing", input: nil, want: 0},
		{name: "empty", input: "", want: 0},
		{name: "garbage", input: "abc", want: 0},
		{name: "with percent", input: "50%", want: 0},
		{name: "infinity", input: "Infinity", want: 0},
		{name: "nan", input: "NaN", want: 0},
		{name: "object", input: map[string]any{"v": 1}, want: 0},
		{name: "true", input: true, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseGrowth(tc.input); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestParsePercent(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  float64
	}{
		{name: "suffix", input: "37%", want: 37},
		{name: "bare", input: "83", want: 83},
		{name: "decimal", input: "12.5 %", want: 12.5},
		{name: "json number", input: json.Number("9"), want: 9},
		{name: "zero", input: "0%", want: 0},
		{name: "unparseable", input: "n/a", want: 0},
		{name: "missing", input: nil, want: 0},
		{name: "comma is not stripped", input: "1,5%", want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParsePercent(tc.input); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestLooseString(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  string
	}{
		{name: "string", input: "Sports", want: "Sports"},
		{name: "nil", input: nil, want: ""},
		{name: "false", input: false, want: ""},
		{name: "zero number", input: json.Number("0"), want: ""},
		{name: "number", input: json.Number("12"), want: "12"},
		{name: "float", input: 2.5, want: "2.5"},
		{name: "array", input: []any{"a"}, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LooseString(tc.input); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Arts & Culture":             "arts-culture",
		"E-commerce & Retail":        "e-commerce-retail",
		"Social Media & Influencers": "social-media-influencers",
		"  Sports  ":                 "sports",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q) = %q want %q", in, got, want)
		}
	}
}
