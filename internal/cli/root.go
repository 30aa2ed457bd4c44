// Package cli wires the jsonhl command line: flag and config handling,
// input decoding and output rendering.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/amterp/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jsonhl/jsonhl"
)

// Input formats.
const (
	InputAuto = "auto"
	InputJSON = "json"
	InputYAML = "yaml"
)

// Output formats.
const (
	OutputANSI  = "ansi"
	OutputPlain = "plain"
	OutputHTML  = "html"
	OutputSpans = "spans"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Options holds the resolved settings of one run.
type Options struct {
	Input   string
	Output  string
	Color   string
	Indent  string
	Multi   bool
	Verbose bool
	Styles  map[string]string
}

// NewRootCommand returns the jsonhl command reading from stdin and writing
// to stdout and stderr.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "jsonhl [file...]",
		Short: "Pretty-print JSON with syntax highlighting",
		Long: `jsonhl pretty-prints JSON or YAML documents as indented JSON and
highlights keys, strings, numbers, booleans and nulls.

With no files, or when a file is "-", input is read from stdin.

Settings can come from flags, from a YAML config file, or from
JSONHL_* environment variables (for example JSONHL_OUTPUT=html).
Styles are configured per category in the config file:

  styles:
    key: fgblue,bold
    string: fggreen
    number: fgcyan
    boolean: fgyellow
    null: faint
    punctuation: bold

Examples:
  jsonhl response.json
  curl -s https://example.com/api | jsonhl
  jsonhl --input yaml --output html config.yaml > config.html`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(v, cfgFile)
			if err != nil {
				return err
			}
			logger := newLogger(stderr, opts.Verbose)
			if len(args) == 0 {
				args = []string{"-"}
			}
			return run(opts, args, stdin, stdout, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (YAML)")
	flags.StringP("input", "i", InputAuto, "input format: auto, json, yaml")
	flags.StringP("output", "o", OutputANSI, "output format: ansi, plain, html, spans")
	flags.String("color", ColorAuto, "color mode for ansi output: auto, always, never")
	flags.String("indent", jsonhl.DefaultIndent, "indentation per nesting level")
	flags.BoolP("multi", "m", false, "write all inputs as one multi-document stream")
	flags.BoolP("verbose", "v", false, "log debug information to stderr")
	cobra.CheckErr(v.BindPFlags(flags))

	return cmd
}

// Execute runs the root command against the process streams.
func Execute() error {
	return NewRootCommand(os.Stdin, os.Stdout, os.Stderr).Execute()
}

func loadOptions(v *viper.Viper, cfgFile string) (Options, error) {
	v.SetEnvPrefix("jsonhl")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Options{}, fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	}

	opts := Options{
		Input:   strings.ToLower(v.GetString("input")),
		Output:  strings.ToLower(v.GetString("output")),
		Color:   strings.ToLower(v.GetString("color")),
		Indent:  v.GetString("indent"),
		Multi:   v.GetBool("multi"),
		Verbose: v.GetBool("verbose"),
		Styles:  v.GetStringMapString("styles"),
	}
	if err := opts.validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func (o Options) validate() error {
	switch o.Input {
	case InputAuto, InputJSON, InputYAML:
	default:
		return fmt.Errorf("unsupported input format %q", o.Input)
	}
	switch o.Output {
	case OutputANSI, OutputPlain, OutputHTML, OutputSpans:
	default:
		return fmt.Errorf("unsupported output format %q", o.Output)
	}
	switch o.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unsupported color mode %q", o.Color)
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	allow := level.AllowInfo()
	if verbose {
		allow = level.AllowDebug()
	}
	return level.NewFilter(log.With(logger, "ts", log.DefaultTimestampUTC), allow)
}

// inputFormat resolves the decoder for name, looking at the file extension
// when the format is auto.
func inputFormat(format, name string) string {
	if format != InputAuto {
		return format
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return InputYAML
	default:
		return InputJSON
	}
}

// decode returns the documents held by data. A YAML stream may hold several;
// an empty one is treated as a single null document.
func decode(format string, data []byte) ([]jsonhl.Value, error) {
	if format == InputYAML {
		docs, err := jsonhl.FromYAMLStream(data)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			docs = append(docs, jsonhl.Null())
		}
		return docs, nil
	}
	v, err := jsonhl.FromJSON(data)
	if err != nil {
		return nil, err
	}
	return []jsonhl.Value{v}, nil
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

func run(opts Options, names []string, stdin io.Reader, stdout io.Writer, logger log.Logger) error {
	render, err := newRenderer(opts)
	if err != nil {
		return err
	}

	var writerOpts []jsonhl.Option
	writerOpts = append(writerOpts, jsonhl.WithIndent(opts.Indent))
	if opts.Multi {
		writerOpts = append(writerOpts, jsonhl.WithMultiDocument())
	}

	var w *jsonhl.Writer
	for _, name := range names {
		data, err := readInput(name, stdin)
		if err != nil {
			level.Error(logger).Log("msg", "failed to read input", "file", name, "err", err)
			return err
		}
		format := inputFormat(opts.Input, name)
		docs, err := decode(format, data)
		if err != nil {
			level.Error(logger).Log("msg", "malformed data", "file", name, "format", format, "err", err)
			return fmt.Errorf("%s: %w", name, err)
		}
		level.Debug(logger).Log("msg", "decoded input", "file", name, "format", format, "bytes", len(data), "documents", len(docs))
		for _, tree := range docs {
			if w == nil || !opts.Multi {
				w = jsonhl.NewWriter(writerOpts...)
			}
			if err := w.Write(tree); err != nil {
				level.Error(logger).Log("msg", "malformed data", "file", name, "err", err)
				return fmt.Errorf("%s: %w", name, err)
			}
			if opts.Multi {
				continue
			}
			if err := finish(w, render, stdout, logger); err != nil {
				return err
			}
		}
	}
	if opts.Multi && w != nil {
		return finish(w, render, stdout, logger)
	}
	return nil
}

func finish(w *jsonhl.Writer, render renderFunc, stdout io.Writer, logger log.Logger) error {
	doc, err := w.Close()
	if err != nil {
		level.Error(logger).Log("msg", "malformed data", "err", err)
		return err
	}
	level.Debug(logger).Log("msg", "rendering document", "bytes", len(doc.Text), "annotations", len(doc.Annotations))
	if err := render(stdout, doc); err != nil {
		level.Error(logger).Log("msg", "failed to write output", "err", err)
		return err
	}
	return nil
}

type renderFunc func(io.Writer, *jsonhl.Document) error

func newRenderer(opts Options) (renderFunc, error) {
	switch opts.Output {
	case OutputPlain:
		return renderPlain, nil
	case OutputHTML:
		return func(w io.Writer, doc *jsonhl.Document) error {
			return jsonhl.WriteHTML(w, doc, nil)
		}, nil
	case OutputSpans:
		return renderSpans, nil
	}

	switch opts.Color {
	case ColorNever:
		return renderPlain, nil
	case ColorAlways:
		color.NoColor = false
	}
	f, err := newFormatter(opts.Styles)
	if err != nil {
		return nil, err
	}
	return func(w io.Writer, doc *jsonhl.Document) error {
		if err := f.Format(w, doc); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}, nil
}

func renderPlain(w io.Writer, doc *jsonhl.Document) error {
	_, err := io.WriteString(w, doc.Text+"\n")
	return err
}

// renderSpans writes the annotation list itself as a JSON array, one object
// per annotated range.
func renderSpans(w io.Writer, doc *jsonhl.Document) error {
	items := make([]jsonhl.Value, 0, len(doc.Annotations))
	for _, a := range doc.Annotations {
		items = append(items, jsonhl.Object(
			jsonhl.Field("start", jsonhl.Int(int64(a.Start))),
			jsonhl.Field("end", jsonhl.Int(int64(a.End))),
			jsonhl.Field("category", jsonhl.String(a.Category.String())),
			jsonhl.Field("text", jsonhl.String(doc.Text[a.Start:a.End])),
		))
	}
	out, err := jsonhl.Format(jsonhl.Array(items...))
	if err != nil {
		return err
	}
	return renderPlain(w, out)
}
