// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

// dmdoc documents data models read from files, JSON Schema, Go structs and PostgreSQL.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/dmdoc"
	"github.com/woozymasta/dmdoc/format"
	"github.com/woozymasta/dmdoc/format/example"
	"github.com/woozymasta/dmdoc/format/export"
	"github.com/woozymasta/dmdoc/format/markdown"
	"github.com/woozymasta/dmdoc/internal/config"
	"github.com/woozymasta/dmdoc/internal/logging"
	"github.com/woozymasta/dmdoc/internal/server"
	"github.com/woozymasta/dmdoc/model"
	"github.com/woozymasta/dmdoc/source"
	"github.com/woozymasta/dmdoc/source/jsonschema"
)

const (
	inputModel      = "model"
	inputJSONSchema = "jsonschema"
)

var (
	Version    = "dev"
	Commit     = "unknown"
	BuildTime  = time.Unix(0, 0)
	URL        = "https://github.com/woozymasta/dmdoc"
	_buildTime string
)

// cliOptions describes dmdoc global flags and subcommands.
type cliOptions struct {
	Debug   bool   `long:"debug" description:"Enable debug logging"`
	LogFile string `long:"log-file" description:"Also write logs to this file (truncated on start)"`
	NoColor bool   `long:"no-color" description:"Disable colored log levels"`

	Generate generateCommand `command:"generate" description:"Run source and format configuration files"`
	Validate validateCommand `command:"validate" description:"Load and validate a source"`
	Render   renderCommand   `command:"render" description:"Render markdown from a model file or JSON Schema"`
	Export   exportCommand   `command:"export" description:"Write the normalized model of a source"`
	Example  exampleCommand  `command:"example" description:"Generate an example document for an entity"`
	Serve    serveCommand    `command:"serve" description:"Serve browsable documentation over HTTP"`
	Template templateCommand `command:"template" description:"Print built-in markdown template"`
	Version  versionCommand  `command:"version" description:"Print version information"`
}

// sourceFlags selects the source configuration file.
type sourceFlags struct {
	Source string `short:"s" long:"source" description:"Source configuration file (.yaml)" required:"yes"`
}

// markdownRenderFlags groups markdown rendering flags.
type markdownRenderFlags struct {
	TemplatePath  string `short:"f" long:"template-file" description:"Path to custom markdown template (.gotmpl)"`
	Title         string `short:"T" long:"title" description:"Markdown document title (model name when omitted)"`
	ListMarker    string `short:"l" long:"list-marker" description:"Unordered list marker" choice:"-" choice:"*" default:"*"`
	WrapWidth     int    `short:"w" long:"wrap" description:"Wrap width for plain text docs" default:"80"`
	ExampleMode   string `long:"example-mode" description:"Embed an example document per entity" choice:"all" choice:"required"`
	ExampleFormat string `long:"example-format" description:"Encoding of embedded examples" choice:"json" choice:"yaml" default:"json"`
	Filter        string `long:"filter" description:"Expression selecting entities, for example: len(references) > 0"`
}

// templateSelectFlags groups built-in template selection flags.
type templateSelectFlags struct {
	TemplateName string `short:"t" long:"template" description:"Built-in template style" choice:"list" choice:"table" default:"table"`
}

// generateCommand runs the full pipeline.
type generateCommand struct {
	runner *cliRunner

	sourceFlags
	Format string `short:"f" long:"format" description:"Format configuration file (.yaml)" required:"yes"`
	Check  bool   `long:"check" description:"Compare rendered output with the existing file instead of writing it"`
}

// Execute runs generate subcommand.
func (command *generateCommand) Execute(_ []string) error {
	return command.runner.runGenerate(command.Source, command.Format, command.Check)
}

// validateCommand loads and validates a source.
type validateCommand struct {
	runner *cliRunner

	sourceFlags
}

// Execute runs validate subcommand.
func (command *validateCommand) Execute(_ []string) error {
	return command.runner.runValidate(command.Source)
}

// renderCommand renders markdown directly from an input file.
type renderCommand struct {
	runner *cliRunner
	Args   struct {
		Input  string `positional-arg-name:"input" description:"Input file path (optional; stdin when omitted)"`
		Output string `positional-arg-name:"output" description:"Output markdown file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	InputFormat string `short:"i" long:"input-format" description:"Input document kind" choice:"model" choice:"jsonschema" default:"model"`

	TemplateFlags templateSelectFlags `group:"Template Select"`
	RenderFlags   markdownRenderFlags `group:"Markdown Render"`
}

// Execute runs render subcommand.
func (command *renderCommand) Execute(_ []string) error {
	return command.runner.runRender(command.InputFormat, command.TemplateFlags, command.RenderFlags, command.Args.Input, command.Args.Output)
}

// exportCommand writes the normalized model.
type exportCommand struct {
	runner *cliRunner
	Args   struct {
		Output string `positional-arg-name:"output" description:"Output file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	sourceFlags
	Format string `long:"format" description:"Output encoding" choice:"yaml" choice:"json" default:"yaml"`
	Force  bool   `long:"force" description:"Overwrite an existing output file"`
}

// Execute runs export subcommand.
func (command *exportCommand) Execute(_ []string) error {
	return command.runner.runFormat(command.Source, export.Key, export.Config{Format: export.Encoding(command.Format)}, command.Args.Output, command.Force)
}

// exampleCommand generates an example document.
type exampleCommand struct {
	runner *cliRunner
	Args   struct {
		Output string `positional-arg-name:"output" description:"Output file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	sourceFlags
	Entity string `short:"e" long:"entity" description:"Entity or shared object name" required:"yes"`
	Mode   string `long:"mode" description:"Field coverage" choice:"all" choice:"required" default:"all"`
	Format string `long:"format" description:"Output encoding" choice:"json" choice:"yaml" default:"json"`
	Force  bool   `long:"force" description:"Overwrite an existing output file"`
}

// Execute runs example subcommand.
func (command *exampleCommand) Execute(_ []string) error {
	cfg := example.Config{
		Entity: command.Entity,
		Mode:   example.Mode(command.Mode),
		Format: example.Format(command.Format),
	}

	return command.runner.runFormat(command.Source, example.Key, cfg, command.Args.Output, command.Force)
}

// serveCommand serves documentation over HTTP.
type serveCommand struct {
	runner *cliRunner

	sourceFlags
	Listen string `long:"listen" description:"Listen address" default:":8080"`
	Gops   bool   `long:"gops" description:"Start the gops diagnostics agent"`

	TemplateFlags templateSelectFlags `group:"Template Select"`
	Title         string              `short:"T" long:"title" description:"Markdown document title (model name when omitted)"`
}

// Execute runs serve subcommand.
func (command *serveCommand) Execute(_ []string) error {
	return command.runner.runServe(command.Source, server.Options{
		Listen: command.Listen,
		Gops:   command.Gops,
		Markdown: markdown.Options{
			Template: command.TemplateFlags.TemplateName,
			Title:    command.Title,
		},
	})
}

// templateCommand exports built-in markdown template.
type templateCommand struct {
	runner *cliRunner
	Args   struct {
		Output string `positional-arg-name:"output" description:"Output template file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	TemplateFlags templateSelectFlags `group:"Template Select"`
}

// Execute runs template subcommand.
func (command *templateCommand) Execute(_ []string) error {
	return command.runner.runTemplate(command.TemplateFlags.TemplateName, command.Args.Output)
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	command.runner.printVersionInfo()
	return nil
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	ctx         context.Context
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	logger      *slog.Logger
	programName string
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := runContext(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes CLI logic and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return runContext(context.Background(), args, stdin, stdout, stderr)
}

// runContext executes CLI logic bound to ctx.
func runContext(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "dmdoc"
	}

	runner := cliRunner{
		ctx:         ctx,
		programName: filepath.Base(programName),
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
	}

	return runner.run(args)
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			writeCLIError(runner.stdout, err)
			return 0
		}

		writeCLIError(runner.stderr, err)
		return 2
	}

	writeCLIError(runner.stderr, err)
	return 1
}

// runGenerate runs a source and a format configuration file.
func (runner *cliRunner) runGenerate(sourcePath, formatPath string, check bool) error {
	pipeline, validated, err := runner.load(sourcePath)
	if err != nil {
		return err
	}

	cfg, err := config.LoadFormat(formatPath)
	if err != nil {
		return err
	}

	params := format.Params{Decode: cfg.Decoder(), BaseDir: cfg.Dir}
	if check {
		if cfg.Output.Path == "" {
			return fmt.Errorf("check %q: output.path is not set", formatPath)
		}

		diff, err := pipeline.Check(validated, cfg.Format, params, cfg.Output.Path)
		if diff != "" {
			_, _ = io.WriteString(runner.stdout, diff)
		}

		return err
	}

	_, err = pipeline.Generate(validated, cfg.Format, params, dmdoc.Output{
		Path:      cfg.Output.Path,
		Overwrite: cfg.Output.Overwrite,
		Stdout:    runner.stdout,
	})

	return err
}

// runValidate loads a source and prints every validation problem.
func (runner *cliRunner) runValidate(sourcePath string) error {
	_, validated, err := runner.load(sourcePath)

	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		for _, problem := range validationErr.Problems {
			writeCLIError(runner.stderr, problem)
		}

		return fmt.Errorf("%w: %d problem(s) in %q", model.ErrValidation, len(validationErr.Problems), validationErr.ModelID)
	}

	if err != nil {
		return err
	}

	m := validated.Model()
	_, err = fmt.Fprintf(runner.stdout, "model %q is valid: %d entities, %d objects, %d enums\n",
		m.ID, m.Entities.Len(), m.Objects.Len(), m.Enums.Len())
	return err
}

// runRender renders markdown from a model or JSON Schema document.
func (runner *cliRunner) runRender(inputFormat string, templateFlags templateSelectFlags, renderFlags markdownRenderFlags, inputPath, outputPath string) error {
	data, sourcePath, err := runner.readInput(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var m *model.DataModel
	switch inputFormat {
	case inputJSONSchema:
		m, err = jsonschema.Convert(data, jsonschema.Options{Logger: runner.logger})
	case inputModel, "":
		m, err = model.UnmarshalYAML(data)
	default:
		return fmt.Errorf("unknown input format %q", inputFormat)
	}

	if err != nil {
		return fmt.Errorf("parse %s: %w", sourcePath, err)
	}

	validated, err := dmdoc.Validate(m)
	if err != nil {
		return err
	}

	opt := markdown.Options{
		Title:        renderFlags.Title,
		Template:     templateFlags.TemplateName,
		WrapWidth:    renderFlags.WrapWidth,
		ListMarker:   renderFlags.ListMarker,
		EntityFilter: renderFlags.Filter,
	}

	if renderFlags.ExampleMode != "" {
		opt.ExampleMode = example.Mode(renderFlags.ExampleMode)
		opt.ExampleFormat = example.Format(renderFlags.ExampleFormat)
	}

	if renderFlags.TemplatePath != "" {
		customTemplate, err := os.ReadFile(renderFlags.TemplatePath)
		if err != nil {
			return fmt.Errorf("read template file %q: %w", renderFlags.TemplatePath, err)
		}

		opt.TemplateText = string(customTemplate)
	}

	rendered, err := markdown.Render(validated, opt)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	return runner.writeOutput(outputPath, "markdown", []byte(rendered))
}

// runFormat renders one registered format with a config built from flags.
func (runner *cliRunner) runFormat(sourcePath, key string, cfg any, outputPath string, overwrite bool) error {
	pipeline, validated, err := runner.load(sourcePath)
	if err != nil {
		return err
	}

	decode, err := valueDecoder(cfg)
	if err != nil {
		return err
	}

	_, err = pipeline.Generate(validated, key, format.Params{Decode: decode}, dmdoc.Output{
		Path:      strings.TrimSpace(outputPath),
		Overwrite: overwrite,
		Stdout:    runner.stdout,
	})

	return err
}

// runServe serves documentation until the process is interrupted.
func (runner *cliRunner) runServe(sourcePath string, opt server.Options) error {
	pipeline, validated, err := runner.load(sourcePath)
	if err != nil {
		return err
	}

	opt.Logger = pipeline.Logger()
	return server.New(validated, opt).Run(runner.ctx)
}

// runTemplate writes selected built-in template to stdout or file.
func (runner *cliRunner) runTemplate(templateName, outputPath string) error {
	tpl, err := markdown.BuiltinTemplate(templateName)
	if err != nil {
		return fmt.Errorf("load built-in template %q: %w", templateName, err)
	}

	return runner.writeOutput(outputPath, "template", []byte(tpl))
}

// load reads a source configuration file and loads a validated model.
func (runner *cliRunner) load(sourcePath string) (*dmdoc.Run, *model.Validated, error) {
	cfg, err := config.LoadSource(sourcePath)
	if err != nil {
		return nil, nil, err
	}

	pipeline := dmdoc.NewRun(runner.logger)
	validated, err := pipeline.Load(runner.ctx, cfg.Type, source.Params{Decode: cfg.Decoder(), BaseDir: cfg.Dir})
	if err != nil {
		return nil, nil, err
	}

	return pipeline, validated, nil
}

// readInput reads a document from file path or stdin and returns source marker.
func (runner *cliRunner) readInput(path string) ([]byte, string, error) {
	path = strings.TrimSpace(path)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read file %q: %w", path, err)
		}

		return data, path, nil
	}

	data, err := io.ReadAll(runner.stdin)
	if err != nil {
		return nil, "", fmt.Errorf("read from stdin: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, "", errors.New("read from stdin: empty input")
	}

	return data, "(stdin)", nil
}

// writeOutput writes data to outputPath, or stdout when it is empty.
func (runner *cliRunner) writeOutput(outputPath, what string, data []byte) error {
	if strings.TrimSpace(outputPath) == "" {
		if _, err := runner.stdout.Write(data); err != nil {
			return fmt.Errorf("write %s to stdout: %w", what, err)
		}

		return nil
	}

	if err := os.WriteFile(outputPath, data, 0o600); err != nil {
		return fmt.Errorf("write %s file %q: %w", what, outputPath, err)
	}

	return nil
}

// valueDecoder returns a strict config decoder filled from value.
func valueDecoder(value any) (func(target any) error, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode flags: %w", err)
	}

	return config.StrictDecoder(data), nil
}

// writeCLIError writes a plain-text CLI error line to the selected stream.
func writeCLIError(output io.Writer, err error) {
	if err == nil {
		return
	}

	//nolint:gosec // CLI writes plain-text diagnostics to terminal streams, not HTTP responses.
	_, _ = fmt.Fprintln(output, err.Error())
}

// parseCLIArgs parses CLI arguments and triggers selected subcommand execution.
// The logger is built from global flags before the command runs.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	options.Generate.runner = runner
	options.Validate.runner = runner
	options.Render.runner = runner
	options.Export.runner = runner
	options.Example.runner = runner
	options.Serve.runner = runner
	options.Template.runner = runner
	options.Version.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName
	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if command == nil {
			return nil
		}

		logger, closeLog, err := logging.New(logging.Options{
			Writer:  runner.stderr,
			File:    options.LogFile,
			Debug:   options.Debug,
			NoColor: options.NoColor,
		})
		if err != nil {
			return err
		}
		defer func() { _ = closeLog() }()

		runner.logger = logger
		return command.Execute(args)
	}

	applyCommandLongDescriptions(parser, runner.programName)

	_, err := parser.ParseArgs(args)
	return err
}

// applyCommandLongDescriptions configures detailed command help text with examples.
func applyCommandLongDescriptions(parser *flags.Parser, programName string) {
	descriptions := map[string]string{
		"generate": strings.TrimSpace(fmt.Sprintf(`
Load the model described by a source configuration file and write the output
described by a format configuration file.
Sources: %s. Formats: %s.
With --check nothing is written; a unified diff is printed and the command
fails when the existing output is out of date.

Examples:
> $ %s generate -s dmdoc.source.yaml -f dmdoc.markdown.yaml
> $ %s generate -s dmdoc.source.yaml -f dmdoc.markdown.yaml --check
`, strings.Join(dmdoc.SourceKeys(), ", "), strings.Join(dmdoc.FormatKeys(), ", "), programName, programName)),
		"validate": strings.TrimSpace(fmt.Sprintf(`
Load a source and resolve every reference and type.
All problems are printed, one per line.

Examples:
> $ %s validate -s dmdoc.source.yaml
`, programName)),
		"render": strings.TrimSpace(fmt.Sprintf(`
Render markdown from a model file (YAML or JSON wire form) or a JSON Schema.
Reads input from file argument or stdin; writes markdown to file argument or stdout.

Examples:
> $ %s render model.yaml > model.md
> $ cat schema.json | %s render -i jsonschema -t list > schema.md
> $ %s render --filter 'len(references) > 0' --example-mode required model.yaml docs/model.md
`, programName, programName, programName)),
		"template": strings.TrimSpace(fmt.Sprintf(`
Print built-in markdown template text (`+"`list` or `table`"+`).
Use it as a starting point for a custom template file.

Examples:
> $ %s template > table.gotmpl
> $ %s template -t list templates/list.gotmpl
`, programName, programName)),
		"serve": strings.TrimSpace(fmt.Sprintf(`
Serve the model as JSON under /api and as markdown under /docs.

Examples:
> $ %s serve -s dmdoc.source.yaml --listen 127.0.0.1:8080
`, programName)),
	}

	for commandName, description := range descriptions {
		command := parser.Find(commandName)
		if command == nil {
			continue
		}

		command.LongDescription = description
	}
}

func (runner *cliRunner) printVersionInfo() {
	_, _ = fmt.Fprintf(runner.stdout, `url:      %s
file:     %s
version:  %s
commit:   %s
built:    %s
`, URL, os.Args[0], Version, Commit, BuildTime)
}
