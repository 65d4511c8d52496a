// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package dmdoc

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/woozymasta/dmdoc/format"
	"github.com/woozymasta/dmdoc/internal/config"
	"github.com/woozymasta/dmdoc/model"
	"github.com/woozymasta/dmdoc/source"
)

func TestRegistryKeys(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff([]string{"file", "gostruct", "jsonschema", "postgres"}, SourceKeys()); diff != "" {
		t.Fatalf("SourceKeys (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"example", "export", "markdown"}, FormatKeys()); diff != "" {
		t.Fatalf("FormatKeys (-want +got):\n%s", diff)
	}
}

func TestRegistryUnknownKeys(t *testing.T) {
	t.Parallel()

	if _, err := NewSource("mysql", source.Params{}); !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("NewSource error = %v, want %v", err, ErrUnknownSource)
	}

	if _, err := NewFormat("html", format.Params{}); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("NewFormat error = %v, want %v", err, ErrUnknownFormat)
	}
}

func TestRunLoadShop(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	run := NewRun(slog.New(slog.NewTextHandler(&logs, nil)))

	validated := loadShop(t, run)
	if got := validated.Model().ID; got != "shop" {
		t.Fatalf("model id = %q", got)
	}

	assertContains(t, logs.String(), "started processing source")
	assertContains(t, logs.String(), "run="+run.ID)
}

func TestRunLoadReportsAllProblems(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "broken.yaml", `id: broken
entities:
  Orders:
    fields:
      id: string
      status: {type: enum, id: Status}
    references:
      - id_entity: Users
        mapping:
          - {source: id, destination: id}
`)

	_, err := NewRun(nil).Load(context.Background(), "file", fileParams(path))

	var validationErr *model.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Load error = %v, want *model.ValidationError", err)
	}

	if len(validationErr.Problems) != 2 {
		t.Fatalf("problems = %v, want 2", validationErr.Problems)
	}

	if !errors.Is(err, model.ErrUnknownEntityReference) || !errors.Is(err, model.ErrUnknownTypeReference) {
		t.Fatalf("Load error = %v", err)
	}
}

func TestRunLoadWrapsAdapterErrors(t *testing.T) {
	t.Parallel()

	_, err := NewRun(nil).Load(context.Background(), "file", fileParams(filepath.Join(t.TempDir(), "missing.yaml")))
	if !errors.Is(err, ErrLoad) || !errors.Is(err, source.ErrRead) {
		t.Fatalf("Load error = %v", err)
	}
}

func TestRunGenerateWritesFile(t *testing.T) {
	t.Parallel()

	run := NewRun(nil)
	validated := loadShop(t, run)
	path := filepath.Join(t.TempDir(), "docs", "shop.md")

	result, err := run.Generate(validated, "markdown", format.Params{}, Output{Path: path})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	if result.Path != path || result.Size != len(data) || result.Overwritten {
		t.Fatalf("unexpected result %+v", result)
	}

	assertContains(t, string(data), "# Shop")
}

func TestRunGenerateStdout(t *testing.T) {
	t.Parallel()

	run := NewRun(nil)
	validated := loadShop(t, run)

	var out bytes.Buffer
	params := format.Params{Decode: config.StrictDecoder([]byte("entity: Address\n"))}
	if _, err := run.Generate(validated, "example", params, Output{Stdout: &out}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := "{\n  \"street\": \"<string>\",\n  \"city\": \"<string>\"\n}\n"
	if out.String() != want {
		t.Fatalf("unexpected stdout %q", out.String())
	}
}

func TestRunGenerateOutputRules(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.md")
	if err := os.WriteFile(existing, []byte("old\n"), 0o600); err != nil {
		t.Fatalf("write existing: %v", err)
	}

	if err := os.Mkdir(filepath.Join(dir, "folder.md"), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	tests := []struct {
		name string
		out  Output
		want error
	}{
		{name: "extension", out: Output{Path: filepath.Join(dir, "shop.txt")}, want: format.ErrOutputExtension},
		{name: "directory", out: Output{Path: filepath.Join(dir, "folder.md"), Overwrite: true}, want: ErrOutputIsDirectory},
		{name: "exists", out: Output{Path: existing}, want: ErrOutputExists},
	}

	run := NewRun(nil)
	validated := loadShop(t, run)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run.Generate(validated, "markdown", format.Params{}, tt.out)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Generate error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRunGenerateOverwriteWarns(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	run := NewRun(slog.New(slog.NewTextHandler(&logs, nil)))
	validated := loadShop(t, run)

	path := writeFile(t, "shop.yaml", "old: true\n")
	result, err := run.Generate(validated, "export", format.Params{}, Output{Path: path, Overwrite: true})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !result.Overwritten {
		t.Fatalf("result not marked overwritten: %+v", result)
	}

	assertContains(t, logs.String(), "level=WARN msg=\"overwriting existing output\"")
}

func TestRunCheck(t *testing.T) {
	t.Parallel()

	run := NewRun(nil)
	validated := loadShop(t, run)
	path := filepath.Join(t.TempDir(), "shop.yaml")

	diff, err := run.Check(validated, "export", format.Params{}, path)
	if !errors.Is(err, ErrDrift) {
		t.Fatalf("Check missing file error = %v, want %v", err, ErrDrift)
	}

	assertContains(t, diff, "+id: shop\n")

	if _, err := run.Generate(validated, "export", format.Params{}, Output{Path: path}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	diff, err = run.Check(validated, "export", format.Params{}, path)
	if err != nil || diff != "" {
		t.Fatalf("Check after generate = %q, %v", diff, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	edited := strings.Replace(string(data), "name: Shop", "name: Store", 1)
	if err := os.WriteFile(path, []byte(edited), 0o600); err != nil {
		t.Fatalf("write edited: %v", err)
	}

	diff, err = run.Check(validated, "export", format.Params{}, path)
	if !errors.Is(err, ErrDrift) {
		t.Fatalf("Check edited error = %v, want %v", err, ErrDrift)
	}

	assertContains(t, diff, "-name: Store\n+name: Shop\n")
}

func TestUnifiedDiff(t *testing.T) {
	t.Parallel()

	got := UnifiedDiff("out.md", "a\nb\nc\n", "a\nB\nc\n")
	want := "--- out.md\n+++ out.md (rendered)\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("UnifiedDiff (-want +got):\n%s", diff)
	}

	if got := UnifiedDiff("out.md", "same\n", "same\n"); got != "" {
		t.Fatalf("UnifiedDiff of equal input = %q", got)
	}
}

func TestUnifiedDiffSplitsDistantHunks(t *testing.T) {
	t.Parallel()

	var current, rendered []string
	for i := range 20 {
		line := strings.Repeat("x", i+1)
		current = append(current, line)
		rendered = append(rendered, line)
	}

	current[1], rendered[1] = "old head", "new head"
	current[18], rendered[18] = "old tail", "new tail"

	got := UnifiedDiff("f", strings.Join(current, "\n")+"\n", strings.Join(rendered, "\n")+"\n")
	if count := strings.Count(got, "@@ -"); count != 2 {
		t.Fatalf("hunks = %d, want 2:\n%s", count, got)
	}

	assertContains(t, got, "@@ -1,5 +1,5 @@\n")
	assertContains(t, got, "@@ -16,5 +16,5 @@\n")
}

// loadShop loads the shared model fixture through the file adapter.
func loadShop(t *testing.T, run *Run) *model.Validated {
	t.Helper()

	validated, err := run.Load(context.Background(), "file", fileParams(filepath.Join("model", "testdata", "shop.yaml")))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	return validated
}

// fileParams configures the file adapter for path.
func fileParams(path string) source.Params {
	return source.Params{Decode: config.StrictDecoder([]byte("path: " + filepath.ToSlash(path) + "\n"))}
}

// writeFile writes content into a temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}

	return path
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()

	if !strings.Contains(got, want) {
		t.Fatalf("expected output to contain %q\n%s", want, got)
	}
}
