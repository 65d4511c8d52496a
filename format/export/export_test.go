// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package export

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/woozymasta/dmdoc/format"
	"github.com/woozymasta/dmdoc/internal/config"
	"github.com/woozymasta/dmdoc/model"
)

func TestMarshalYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	original := loadShop(t)
	first, err := Marshal(original, EncodingYAML)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	decoded, err := model.UnmarshalYAML(first)
	if err != nil {
		t.Fatalf("UnmarshalYAML:\n%s\n%v", first, err)
	}

	second, err := Marshal(decoded, EncodingYAML)
	if err != nil {
		t.Fatalf("Marshal decoded: %v", err)
	}

	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Fatalf("export is not stable (-first +second):\n%s", diff)
	}

	text := string(first)
	if !strings.HasPrefix(text, "id: shop\nname: Shop\n") {
		t.Fatalf("unexpected export head:\n%s", text)
	}

	if strings.Index(text, "  Users:") > strings.Index(text, "  Orders:") {
		t.Fatalf("entity order lost:\n%s", text)
	}
}

func TestMarshalJSONDecodesToSameModel(t *testing.T) {
	t.Parallel()

	original := loadShop(t)
	data, err := Marshal(original, "JSON")
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("{\n  \"id\": \"shop\",\n  \"name\": \"Shop\",")) {
		t.Fatalf("unexpected json head:\n%s", data)
	}

	decoded, err := model.UnmarshalYAML(data)
	if err != nil {
		t.Fatalf("UnmarshalYAML:\n%s\n%v", data, err)
	}

	want, _ := Marshal(original, EncodingYAML)
	got, _ := Marshal(decoded, EncodingYAML)
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Fatalf("json export decodes to another model (-want +got):\n%s", diff)
	}
}

func TestNormalizeEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   Encoding
		want    Encoding
		wantErr bool
	}{
		{input: "", want: EncodingYAML},
		{input: " Yaml ", want: EncodingYAML},
		{input: "json", want: EncodingJSON},
		{input: "toml", wantErr: true},
	}

	for _, tt := range tests {
		got, err := NormalizeEncoding(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownEncoding) {
				t.Fatalf("NormalizeEncoding(%q) error = %v", tt.input, err)
			}

			continue
		}

		if err != nil || got != tt.want {
			t.Fatalf("NormalizeEncoding(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}

func TestRendererFromConfig(t *testing.T) {
	t.Parallel()

	renderer, err := New(format.Params{Decode: config.StrictDecoder([]byte("format: json\n"))})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if diff := cmp.Diff([]string{".json"}, renderer.Extensions()); diff != "" {
		t.Fatalf("Extensions (-want +got):\n%s", diff)
	}

	validated, err := model.Validate(loadShop(t))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	var out bytes.Buffer
	if err := renderer.Render(&out, validated); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(out.String(), "\"id_entity\": \"Users\"") {
		t.Fatalf("reference missing from export:\n%s", out.String())
	}
}

func TestRendererDefaultsToYAML(t *testing.T) {
	t.Parallel()

	renderer, err := NewRenderer("", nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	if diff := cmp.Diff([]string{".yaml", ".yml"}, renderer.Extensions()); diff != "" {
		t.Fatalf("Extensions (-want +got):\n%s", diff)
	}
}

func TestRendererConfigErrors(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"format: xml\n", "indent: 4\n"} {
		_, err := New(format.Params{Decode: config.StrictDecoder([]byte(raw))})
		if !errors.Is(err, format.ErrConfig) {
			t.Fatalf("New(%q) error = %v, want %v", raw, err, format.ErrConfig)
		}
	}
}

func loadShop(t *testing.T) *model.DataModel {
	t.Helper()

	file, err := os.Open("../../model/testdata/shop.yaml")
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer func() { _ = file.Close() }()

	m, err := model.DecodeYAML(file)
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}

	return m
}
