package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/Alia5/xkbrev/generator"
	"github.com/Alia5/xkbrev/internal/log"
	"github.com/Alia5/xkbrev/internal/xkbcomp"
	"github.com/Alia5/xkbrev/layout"
	"github.com/Alia5/xkbrev/xkbdata"
)

const (
	stdStream = "-"

	defaultFormat  = "xrdp"
	terminalFormat = "yaml"
)

// Export compiles a layout and writes it in the selected output format.
type Export struct {
	Layout       string   `help:"Keyboard layout as understood by setxkbmap (e.g. us)" short:"l" env:"XKBREV_LAYOUT"`
	Variant      string   `help:"Layout variant (e.g. dvorak)" env:"XKBREV_VARIANT"`
	Option       []string `help:"XKB option, may be repeated (e.g. lv3:ralt_switch)" short:"o" env:"XKBREV_OPTION"`
	Generate     string   `help:"Output format: xrdp, json, yaml or toml (default xrdp, yaml when writing to a terminal)" short:"g" env:"XKBREV_GENERATE"`
	Output       string   `help:"Destination file, - for stdout" default:"-" env:"XKBREV_OUTPUT"`
	Source       string   `help:"Read xkbcomp -C output from this file (- for stdin) instead of running the X tools" env:"XKBREV_SOURCE"`
	Keysymdef    string   `help:"Keysym definitions header" default:"/usr/include/X11/keysymdef.h" env:"XKBREV_KEYSYMDEF"`
	KeycodesDir  string   `help:"Directory of xkb keycodes files" default:"/usr/share/X11/xkb/keycodes" env:"XKBREV_KEYCODES_DIR"`
	Keycodes     string   `help:"Keycodes file giving the scancodes of the target" default:"xfree86" env:"XKBREV_KEYCODES"`
	StrictGroups bool     `help:"Fail on keys with more than one group instead of using the first" env:"XKBREV_STRICT_GROUPS"`
	Setxkbmap    string   `help:"setxkbmap executable" default:"/usr/bin/setxkbmap" env:"XKBREV_SETXKBMAP"`
	Xkbcomp      string   `help:"xkbcomp executable" default:"/usr/bin/xkbcomp" env:"XKBREV_XKBCOMP"`
}

// Run is called by Kong when the export command is executed.
func (e *Export) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if e.pickTerminalFormat(term.IsTerminal(int(os.Stdout.Fd()))) {
		logger.Debug("Writing to terminal, use --generate xrdp for the keymap", "format", e.Generate)
	}
	return e.Execute(ctx, logger, rawLogger, os.Stdin, os.Stdout)
}

// pickTerminalFormat switches to the readable dump when no format was chosen
// and the keymap would land on a terminal.
func (e *Export) pickTerminalFormat(terminal bool) bool {
	if e.Generate != "" || !e.toStdout() || !terminal {
		return false
	}
	e.Generate = terminalFormat
	return true
}

// Format is the output format, xrdp unless one was chosen.
func (e *Export) Format() string {
	if e.Generate == "" {
		return defaultFormat
	}
	return e.Generate
}

func (e *Export) toStdout() bool {
	return e.Output == stdStream || e.Output == ""
}

// Execute runs the export with explicit standard streams.
func (e *Export) Execute(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger, stdin io.Reader, stdout io.Writer) error {
	format := e.Format()
	gen := generator.Lookup(format)
	if gen == nil {
		return fmt.Errorf("unsupported output format '%s' (supported: %v)", format, generator.Names())
	}

	cursor, closeSrc, err := e.openSource(ctx, logger, rawLogger, stdin)
	if err != nil {
		return err
	}
	defer closeSrc()

	parser := layout.NewParser(logger)
	parser.StrictGroups = e.StrictGroups
	sections, err := parser.Parse(cursor)
	for _, d := range parser.Diagnostics() {
		logger.Warn("Layout source anomaly", "section", d.Section, "line", d.Line, "detail", d.Message)
	}
	if err != nil {
		return fmt.Errorf("failed to parse layout: %w", err)
	}
	lm, err := layout.Assemble(sections)
	if err != nil {
		return fmt.Errorf("failed to assemble layout: %w", err)
	}
	logger.Info("Reconstructed layout", "keys", len(lm), "types", len(sections.KeyTypes), "symbols", len(sections.Symbols))

	in := &generator.Input{Layout: lm}
	if generator.UsesReferenceTables(gen) {
		if err := e.loadReferences(logger, in); err != nil {
			return err
		}
	}

	return e.write(logger, stdout, format, gen, in)
}

func (e *Export) openSource(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger, stdin io.Reader) (*layout.Cursor, func(), error) {
	noop := func() {}
	switch e.Source {
	case "":
		c := xkbcomp.New(logger, rawLogger)
		c.SetxkbmapPath = e.Setxkbmap
		c.XkbcompPath = e.Xkbcomp
		res, err := c.Compile(ctx, xkbcomp.Selection{Layout: e.Layout, Variant: e.Variant, Options: e.Option})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to compile layout: %w", err)
		}
		return layout.NewCursorFromLines(res.Lines), noop, nil
	case stdStream:
		return layout.NewCursor(stdin), noop, nil
	default:
		f, err := os.Open(e.Source)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open layout source: %w", err)
		}
		logger.Debug("Reading compiled layout", "file", e.Source)
		return layout.NewCursor(f), func() { _ = f.Close() }, nil
	}
}

func (e *Export) loadReferences(logger *slog.Logger, in *generator.Input) error {
	keysyms, err := xkbdata.LoadKeysymFile(e.Keysymdef)
	if err != nil {
		return err
	}
	logger.Debug("Loaded keysyms", "file", e.Keysymdef, "count", len(keysyms))

	scancodes, diags, err := xkbdata.LoadKeycodeFile(e.KeycodesDir, e.Keycodes)
	if err != nil {
		return err
	}
	for _, d := range diags {
		logger.Warn("Keycodes anomaly", "keycodes", e.Keycodes, "line", d.Line, "detail", d.Message)
	}
	logger.Debug("Loaded keycodes", "keycodes", e.Keycodes, "scancodes", scancodes.Len())

	in.Keysyms = keysyms
	in.Scancodes = scancodes
	return nil
}

func (e *Export) write(logger *slog.Logger, stdout io.Writer, format string, gen generator.Generator, in *generator.Input) (err error) {
	if e.toStdout() {
		return gen.Generate(stdout, in)
	}

	f, err := os.Create(e.Output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err := gen.Generate(f, in); err != nil {
		return fmt.Errorf("failed to write %s output: %w", format, err)
	}
	logger.Info("Wrote keymap", "format", format, "file", e.Output)
	return nil
}
