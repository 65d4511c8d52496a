// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package markdown

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/woozymasta/dmdoc/format"
	"github.com/woozymasta/dmdoc/format/example"
	"github.com/woozymasta/dmdoc/internal/config"
	"github.com/woozymasta/dmdoc/model"
)

func TestRenderTableTemplate(t *testing.T) {
	t.Parallel()

	rendered, err := Render(loadShop(t), Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		"# Shop\n\n**Schema identifier**: _shop_\n\nOnline shop data model.\n\n## Contents\n",
		"* [Entities](#entities)\n  * [Users](#users)\n  * [Orders](#orders)\n* [Objects](#objects)",
		"## Users\n\n_Aliases:_\n\n* `customers`\n\nRegistered customers.\n\n### List of fields\n",
		"| Field name | Data type | Required | Description |",
		"| `id` | string | :heavy_check_mark: |  |",
		"| **email** | string | :heavy_check_mark: | Contact e-mail. |",
		"| **address** | [Address](#address) |  |  |",
		"| **status** | [Status](#status) |  |  |",
		"| **tags** | array[string] |  |  |",
		"| **lines** | array[[Line](#line)] |  |  |",
		"| **attributes** | map[union[string, integer]] |  |  |",
		"### Referenced by\n\n* **customer** ([Orders](#orders))\n  * id: user_id\n",
		"### External references\n\n* **customer** ([Users](#users))\n  * user_id: id\n",
		"### Used by\n\n* [Users](#users): `address`\n",
		"* [Orders](#orders): `lines`",
		"## Status\n\nAccount status.\n\n### Values\n\n* **active**\n* **Blocked [blocked]**: Access revoked.\n",
	} {
		assertContains(t, rendered, want)
	}

	assertNotContains(t, rendered, "### Example")
	assertNotContains(t, rendered, "\n\n\n")
	if !strings.HasSuffix(rendered, "Access revoked.\n") {
		t.Fatalf("unexpected document end:\n%s", rendered)
	}
}

func TestRenderListTemplate(t *testing.T) {
	t.Parallel()

	rendered, err := Render(loadShop(t), Options{Template: "LIST", ListMarker: "-"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	assertContains(t, rendered, "### List of fields\n\n- `id` (string, key, required)\n- **email** (string, required): Contact e-mail.\n")
	assertContains(t, rendered, "- **address** ([Address](#address))")
	assertContains(t, rendered, "- [Entities](#entities)\n  - [Users](#users)")
	assertNotContains(t, rendered, "| Field name |")
}

func TestRenderHeadingAnchorsAreUnique(t *testing.T) {
	t.Parallel()

	rendered, err := Render(loadShop(t), Options{ExampleMode: example.ModeRequired})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	links := regexp.MustCompile(`\]\(#([^)]+)\)`).FindAllStringSubmatch(rendered, -1)
	if len(links) == 0 {
		t.Fatal("no local links rendered")
	}

	headings := headingAnchors(rendered)
	for _, match := range links {
		if !headings[match[1]] {
			t.Fatalf("link target %q has no heading; headings %v", match[1], headings)
		}
	}
}

func TestRenderTitleOverride(t *testing.T) {
	t.Parallel()

	rendered, err := Render(loadShop(t), Options{Title: "Shop | storage"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.HasPrefix(rendered, "# Shop \\| storage\n") {
		t.Fatalf("unexpected title:\n%s", rendered)
	}
}

func TestRenderPreservesMarkdownDoc(t *testing.T) {
	t.Parallel()

	rendered := renderDoc(t, "Paragraph before list.\n\n- first item\n- second item\n\n> quoted text", Options{})

	assertContains(t, rendered, "Paragraph before list.\n\n* first item\n* second item\n\n> quoted text")
	assertNotContains(t, rendered, "&gt;")
}

func TestRenderNormalizesListIndentInDoc(t *testing.T) {
	t.Parallel()

	rendered := renderDoc(t, "Config selects one template.\n\nSupported values:\n\n - `list`\n - `table`", Options{})

	assertContains(t, rendered, "Supported values:\n\n* `list`\n* `table`")
	assertNotContains(t, rendered, "\n - `list`")
}

func TestRenderInsertsBlankLineBeforeListWhenMissing(t *testing.T) {
	t.Parallel()

	rendered := renderDoc(t, "Modes:\n- all\n- required", Options{ListMarker: "-"})

	assertContains(t, rendered, "Modes:\n\n- all\n- required")
}

func TestRenderKeepsFencedCode(t *testing.T) {
	t.Parallel()

	rendered := renderDoc(t, "Example:\n\n```yaml\nkey:   value\n\n\nnext: 1\n```", Options{})

	assertContains(t, rendered, "```yaml\nkey:   value\n\n\nnext: 1\n```")
}

func TestRenderWrapWidth(t *testing.T) {
	t.Parallel()

	rendered := renderDoc(t, "alpha beta gamma delta epsilon zeta eta theta", Options{WrapWidth: 20})

	assertContains(t, rendered, "alpha beta gamma\ndelta epsilon zeta\neta theta")
}

func TestRenderEntityFilter(t *testing.T) {
	t.Parallel()

	rendered, err := Render(loadShop(t), Options{EntityFilter: `"Users" in references`})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	assertContains(t, rendered, "## Orders")
	assertContains(t, rendered, "* **customer** (Users)\n  * user_id: id")
	assertContains(t, rendered, "* Users: `address`")
	assertNotContains(t, rendered, "## Users")
	assertNotContains(t, rendered, "(#users)")
}

func TestRenderEntityFilterErrors(t *testing.T) {
	t.Parallel()

	cases := []string{
		"name +",
		"len(fields)",
		"unknown_field == 1",
	}

	for _, source := range cases {
		t.Run(source, func(t *testing.T) {
			t.Parallel()

			_, err := Render(loadShop(t), Options{EntityFilter: source})
			if !errors.Is(err, ErrEntityFilter) {
				t.Fatalf("Render error = %v, want %v", err, ErrEntityFilter)
			}
		})
	}
}

func TestRenderEmbedsExampleJSON(t *testing.T) {
	t.Parallel()

	rendered, err := Render(loadShop(t), Options{ExampleMode: example.ModeAll})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	assertContains(t, rendered, "### Example\n\n```json\n{\n  \"id\": \"<string>\",\n  \"email\": \"<string>\",")
	assertContains(t, rendered, "\"status\": \"active\"")
}

func TestRenderEmbedsExampleYAMLRequiredMode(t *testing.T) {
	t.Parallel()

	rendered, err := Render(loadShop(t), Options{ExampleMode: example.ModeRequired, ExampleFormat: example.FormatYAML})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	assertContains(t, rendered, "### Example\n\n```yaml\n")
	assertContains(t, rendered, "# Contact e-mail.\nemail: <string>")
	assertNotContains(t, rendered, "tags:")
}

func TestRenderRejectsUnknownExampleMode(t *testing.T) {
	t.Parallel()

	_, err := Render(loadShop(t), Options{ExampleMode: "sometimes"})
	if !errors.Is(err, example.ErrUnknownMode) {
		t.Fatalf("Render error = %v, want %v", err, example.ErrUnknownMode)
	}
}

func TestRenderCustomTemplate(t *testing.T) {
	t.Parallel()

	rendered, err := Render(loadShop(t), Options{
		TemplateText: "{{ .Title }}{{ range .Entities }} {{ .Name }}={{ len .Fields }}{{ end }}",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if rendered != "Shop Users=5 Orders=4\n" {
		t.Fatalf("unexpected custom output %q", rendered)
	}
}

func TestRenderTemplateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  Options
		want error
	}{
		{name: "unknown builtin", opt: Options{Template: "grid"}, want: ErrUnknownTemplate},
		{name: "parse", opt: Options{TemplateText: "{{ .Title "}, want: ErrParseTemplate},
		{name: "execute", opt: Options{TemplateText: "{{ .Missing }}"}, want: ErrExecuteTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Render(loadShop(t), tt.opt)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Render error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuiltinTemplates(t *testing.T) {
	t.Parallel()

	if got := strings.Join(BuiltinTemplateNames(), ","); got != "list,table" {
		t.Fatalf("BuiltinTemplateNames = %q", got)
	}

	for _, name := range BuiltinTemplateNames() {
		text, err := BuiltinTemplate(name)
		if err != nil {
			t.Fatalf("BuiltinTemplate(%q): %v", name, err)
		}

		assertContains(t, text, "{{ .Title }}")
	}
}

func TestRenderOutputHasNoHTML(t *testing.T) {
	t.Parallel()

	for _, name := range BuiltinTemplateNames() {
		rendered, err := Render(loadShop(t), Options{Template: name})
		if err != nil {
			t.Fatalf("Render(%q): %v", name, err)
		}

		if regexp.MustCompile(`</?[a-zA-Z][^>]*>`).MatchString(rendered) {
			t.Fatalf("template %q rendered HTML:\n%s", name, rendered)
		}
	}
}

func TestRenderWithoutObjectsAndEnums(t *testing.T) {
	t.Parallel()

	rendered := renderDoc(t, "", Options{})

	assertContains(t, rendered, "# config\n\n## Contents")
	assertContains(t, rendered, "# Objects\n\nNo object is defined.\n\n# Enums\n\nNo enum is defined.\n")
	assertNotContains(t, rendered, "No entity is defined.")
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "names.gotmpl"), []byte("{{ range .Enums }}{{ .Name }}{{ end }}"), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}

	renderer, err := New(format.Params{
		Decode:  config.StrictDecoder([]byte("template_file: names.gotmpl\nwrap_width: 40\n")),
		BaseDir: dir,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out bytes.Buffer
	if err := renderer.Render(&out, loadShop(t)); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if out.String() != "Status\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	if got := renderer.Extensions(); len(got) != 1 || got[0] != ".md" {
		t.Fatalf("Extensions = %v", got)
	}
}

func TestNewConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "unknown key", raw: "colour: red\n", want: format.ErrConfig},
		{name: "missing template file", raw: "template_file: missing.gotmpl\n", want: ErrReadTemplate},
		{name: "bad filter", raw: "entity_filter: 'name =='\n", want: format.ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(format.Params{Decode: config.StrictDecoder([]byte(tt.raw)), BaseDir: t.TempDir()})
			if !errors.Is(err, tt.want) {
				t.Fatalf("New error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHeadingAnchor(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"List of fields": "list-of-fields",
		"Users":          "users",
		"order_lines":    "order_lines",
		"Shop | storage": "shop--storage",
		"Café v2.0":      "café-v20",
	}

	for input, want := range tests {
		if got := headingAnchor(input); got != want {
			t.Fatalf("headingAnchor(%q) = %q, want %q", input, got, want)
		}
	}
}

// renderDoc renders a one-field model whose field carries doc.
func renderDoc(t *testing.T, doc string, opt Options) string {
	t.Helper()

	entity, err := model.NewEntity("Config", []model.Field{{Name: "notes", Type: model.String, Doc: doc}}, model.WithDoc(doc))
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}

	builder := model.NewBuilder("config")
	if err := builder.AddEntity(entity); err != nil {
		t.Fatalf("AddEntity: %v", err)
	}

	m, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	validated, err := model.Validate(m)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	rendered, err := Render(validated, opt)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	return rendered
}

// headingAnchors collects GitHub anchors of all headings in document order.
func headingAnchors(rendered string) map[string]bool {
	anchors := make(anchorSet)
	out := make(map[string]bool)
	fenced := false
	for _, line := range strings.Split(rendered, "\n") {
		if strings.HasPrefix(line, "```") {
			fenced = !fenced
			continue
		}

		if fenced || !strings.HasPrefix(line, "#") {
			continue
		}

		out[anchors.next(strings.TrimSpace(strings.TrimLeft(line, "#")))] = true
	}

	return out
}

func loadShop(t testing.TB) *model.Validated {
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

	validated, err := model.Validate(m)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	return validated
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()

	if !strings.Contains(got, want) {
		t.Fatalf("expected output to contain %q\n%s", want, got)
	}
}

func assertNotContains(t *testing.T, got, unwanted string) {
	t.Helper()

	if strings.Contains(got, unwanted) {
		t.Fatalf("expected output not to contain %q\n%s", unwanted, got)
	}
}
