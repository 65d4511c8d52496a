// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/woozymasta/dmdoc"
	"github.com/woozymasta/dmdoc/format"
	"github.com/woozymasta/dmdoc/model"
)

const shopFixture = "../../model/testdata/shop.yaml"

func TestRunRenderWritesMarkdownToStdout(t *testing.T) {
	t.Parallel()

	stdout, stderr, code := runCLI(t, nil, "render", shopFixture)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr)
	}

	assertContains(t, stdout, "# Shop\n")
	assertContains(t, stdout, "| Field name | Data type | Required | Description |")
}

func TestRunRenderListTemplateAndMarker(t *testing.T) {
	t.Parallel()

	stdout, stderr, code := runCLI(t, nil, "render", "-t", "list", "-l", "-", shopFixture)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr)
	}

	assertContains(t, stdout, "- `id` (string, key, required)")
	assertNotContains(t, stdout, "| Field name |")
}

func TestRunRenderJSONSchemaFromStdin(t *testing.T) {
	t.Parallel()

	stdin := strings.NewReader(`{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "name": { "type": "string", "description": "Display name." }
  }
}`)

	stdout, stderr, code := runCLI(t, stdin, "render", "--input-format", "jsonschema")
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr)
	}

	assertContains(t, stdout, "## Root")
	assertContains(t, stdout, "| **name** | string |  | Display name. |")
}

func TestRunRenderWritesOutputFile(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "shop.md")
	stdout, stderr, code := runCLI(t, nil, "render", "--title", "Custom Doc", shopFixture, outPath)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr)
	}

	if stdout != "" {
		t.Fatalf("stdout should be empty when output path is provided, got: %s", stdout)
	}

	assertContains(t, readFile(t, outPath), "# Custom Doc\n")
}

func TestRunRenderWithTemplateFile(t *testing.T) {
	t.Parallel()

	templatePath := writeFile(t, "custom.gotmpl", "# custom\n{{ range .Entities }}- {{ .Name }}\n{{ end }}")
	stdout, stderr, code := runCLI(t, nil, "render", "--template-file", templatePath, shopFixture)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr)
	}

	if stdout != "# custom\n- Users\n- Orders\n" {
		t.Fatalf("unexpected custom output %q", stdout)
	}
}

func TestRunRenderFilterAndExamples(t *testing.T) {
	t.Parallel()

	stdout, stderr, code := runCLI(t, nil, "render",
		"--filter", "len(references) > 0",
		"--example-mode", "required",
		"--example-format", "yaml",
		shopFixture,
	)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr)
	}

	assertContains(t, stdout, "## Orders")
	assertNotContains(t, stdout, "## Users")
	assertContains(t, stdout, "```yaml\nid: <string>\n```")
}

func TestRunRenderRejectsInvalidModel(t *testing.T) {
	t.Parallel()

	input := writeFile(t, "broken.yaml", "id: broken\nentities:\n  Orders:\n    fields:\n      user: {type: object, id: Users}\n")
	_, stderr, code := runCLI(t, nil, "render", input)
	if code != 1 {
		t.Fatalf("run exit code = %d, want 1", code)
	}

	assertContains(t, stderr, model.ErrUnknownTypeReference.Error())
}

func TestRunTemplateStdout(t *testing.T) {
	t.Parallel()

	stdout, stderr, code := runCLI(t, nil, "template", "-t", "list")
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr)
	}

	assertContains(t, stdout, "{{ .Title }}")
	assertContains(t, stdout, "### List of fields")
}

func TestRunTemplateToOutputFile(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "table.gotmpl")
	_, stderr, code := runCLI(t, nil, "template", outPath)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr)
	}

	assertContains(t, readFile(t, outPath), "| Field name |")
}

func TestRunGenerateAndCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sourcePath := writeSourceConfig(t, dir)
	formatPath := writeConfig(t, dir, "markdown.yaml", "format: markdown\noutput:\n  path: docs/shop.md\nconfig:\n  template: list\n")

	_, stderr, code := runCLI(t, nil, "generate", "-s", sourcePath, "-f", formatPath)
	if code != 0 {
		t.Fatalf("generate exit code = %d, stderr: %s", code, stderr)
	}

	outPath := filepath.Join(dir, "docs", "shop.md")
	assertContains(t, readFile(t, outPath), "* `id` (string, key, required)")
	assertContains(t, stderr, "started processing source")
	assertContains(t, stderr, "started output generation")

	stdout, stderr, code := runCLI(t, nil, "generate", "-s", sourcePath, "-f", formatPath, "--check")
	if code != 0 || stdout != "" {
		t.Fatalf("check exit code = %d, stdout: %s, stderr: %s", code, stdout, stderr)
	}

	if err := os.WriteFile(outPath, []byte("# stale\n"), 0o600); err != nil {
		t.Fatalf("write stale output: %v", err)
	}

	stdout, stderr, code = runCLI(t, nil, "generate", "-s", sourcePath, "-f", formatPath, "--check")
	if code != 1 {
		t.Fatalf("check exit code = %d, want 1", code)
	}

	assertContains(t, stdout, "-# stale\n")
	assertContains(t, stdout, "+# Shop\n")
	assertContains(t, stderr, dmdoc.ErrDrift.Error())

	_, stderr, code = runCLI(t, nil, "generate", "-s", sourcePath, "-f", formatPath)
	if code != 1 {
		t.Fatalf("generate over existing file exit code = %d, want 1", code)
	}

	assertContains(t, stderr, dmdoc.ErrOutputExists.Error())
}

func TestRunGenerateOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sourcePath := writeSourceConfig(t, dir)
	formatPath := writeConfig(t, dir, "export.yaml", "format: export\noutput:\n  path: shop.json\n  overwrite: true\nconfig:\n  format: json\n")
	if err := os.WriteFile(filepath.Join(dir, "shop.json"), []byte("{}\n"), 0o600); err != nil {
		t.Fatalf("write existing output: %v", err)
	}

	_, stderr, code := runCLI(t, nil, "generate", "-s", sourcePath, "-f", formatPath)
	if code != 0 {
		t.Fatalf("generate exit code = %d, stderr: %s", code, stderr)
	}

	assertContains(t, stderr, "overwriting existing output")
	assertContains(t, readFile(t, filepath.Join(dir, "shop.json")), "\"id\": \"shop\"")
}

func TestRunValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stdout, stderr, code := runCLI(t, nil, "validate", "-s", writeSourceConfig(t, dir))
	if code != 0 {
		t.Fatalf("validate exit code = %d, stderr: %s", code, stderr)
	}

	if stdout != "model \"shop\" is valid: 2 entities, 2 objects, 1 enums\n" {
		t.Fatalf("unexpected validate output %q", stdout)
	}
}

func TestRunValidatePrintsEveryProblem(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	modelPath := writeConfig(t, dir, "broken.yaml", `id: broken
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
	sourcePath := writeConfig(t, dir, "source.yaml", "type: file\nconfig:\n  path: "+filepath.Base(modelPath)+"\n")

	_, stderr, code := runCLI(t, nil, "validate", "-s", sourcePath)
	if code != 1 {
		t.Fatalf("validate exit code = %d, want 1", code)
	}

	assertContains(t, stderr, model.ErrUnknownEntityReference.Error()+": \"Orders\" references \"Users\"")
	assertContains(t, stderr, model.ErrUnknownTypeReference.Error())
	assertContains(t, stderr, "2 problem(s) in \"broken\"")
}

func TestRunExportAndExample(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sourcePath := writeSourceConfig(t, dir)

	stdout, stderr, code := runCLI(t, nil, "export", "-s", sourcePath, "--format", "json")
	if code != 0 {
		t.Fatalf("export exit code = %d, stderr: %s", code, stderr)
	}

	assertContains(t, stdout, "{\n  \"id\": \"shop\",")

	stdout, stderr, code = runCLI(t, nil, "example", "-s", sourcePath, "--entity", "Address", "--format", "yaml", "--mode", "required")
	if code != 0 {
		t.Fatalf("example exit code = %d, stderr: %s", code, stderr)
	}

	if stdout != "city: <string>\n" {
		t.Fatalf("unexpected example %q", stdout)
	}

	outPath := filepath.Join(dir, "users.txt")
	_, stderr, code = runCLI(t, nil, "example", "-s", sourcePath, "--entity", "Users", outPath)
	if code != 1 {
		t.Fatalf("example with wrong extension exit code = %d, want 1", code)
	}

	assertContains(t, stderr, format.ErrOutputExtension.Error())
}

func TestRunReturnsErrorForUnknownSourceType(t *testing.T) {
	t.Parallel()

	sourcePath := writeConfig(t, t.TempDir(), "source.yaml", "type: mysql\n")
	_, stderr, code := runCLI(t, nil, "validate", "-s", sourcePath)
	if code != 1 {
		t.Fatalf("run exit code = %d, want 1", code)
	}

	assertContains(t, stderr, dmdoc.ErrUnknownSource.Error()+" \"mysql\"")
}

func TestRunLogFileReceivesDebugRecords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logPath := filepath.Join(dir, "dmdoc.log")
	_, stderr, code := runCLI(t, nil, "--debug", "--no-color", "--log-file", logPath, "validate", "-s", writeSourceConfig(t, dir))
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr)
	}

	logs := readFile(t, logPath)
	assertContains(t, logs, "level=DEBUG msg=\"parsed model\"")
	assertContains(t, logs, "run=")
}

func TestRunReturnsErrorForMissingCommand(t *testing.T) {
	t.Parallel()

	_, _, code := runCLI(t, nil)
	if code != 2 {
		t.Fatalf("run exit code = %d, want 2", code)
	}
}

func TestRunReturnsErrorForMissingRequiredFlag(t *testing.T) {
	t.Parallel()

	_, stderr, code := runCLI(t, nil, "validate")
	if code != 2 {
		t.Fatalf("run exit code = %d, want 2", code)
	}

	assertContains(t, stderr, "--source")
}

func TestRunHelpExitsZero(t *testing.T) {
	t.Parallel()

	stdout, _, code := runCLI(t, nil, "generate", "--help")
	if code != 0 {
		t.Fatalf("run exit code = %d, want 0", code)
	}

	assertContains(t, stdout, "--check")
}

func TestRunReturnsErrorForUnknownTemplate(t *testing.T) {
	t.Parallel()

	_, stderr, code := runCLI(t, nil, "template", "-t", "grid")
	if code != 2 {
		t.Fatalf("run exit code = %d, want 2", code)
	}

	assertContains(t, stderr, "grid")
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	stdout, _, code := runCLI(t, nil, "version")
	if code != 0 {
		t.Fatalf("run exit code = %d, want 0", code)
	}

	assertContains(t, stdout, "version:  dev")
}

// runCLI runs the CLI with args and returns stdout, stderr and exit code.
func runCLI(t *testing.T, stdin *strings.Reader, args ...string) (string, string, int) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	if stdin == nil {
		stdin = strings.NewReader("")
	}

	code := runWithIO(args, stdin, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

// writeSourceConfig writes a file source config pointing at the shop fixture.
func writeSourceConfig(t *testing.T, dir string) string {
	t.Helper()

	fixture, err := filepath.Abs(shopFixture)
	if err != nil {
		t.Fatalf("resolve fixture: %v", err)
	}

	return writeConfig(t, dir, "source.yaml", "type: file\nconfig:\n  path: "+filepath.ToSlash(fixture)+"\n")
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}

	return path
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	return writeConfig(t, t.TempDir(), name, content)
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}

	return string(data)
}

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()

	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n%s", needle, haystack)
	}
}

func assertNotContains(t *testing.T, haystack, needle string) {
	t.Helper()

	if strings.Contains(haystack, needle) {
		t.Fatalf("expected output not to contain %q\n%s", needle, haystack)
	}
}
