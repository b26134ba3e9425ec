package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"text2png/internal/config"
	"text2png/internal/logger"
	"text2png/internal/services"
	"text2png/internal/watch"
)

// ErrUsage means required input was missing and usage was printed.
var ErrUsage = errors.New("missing text or output")

// optionFlags are the render options exposed as flags, with their short
// forms. Every long name is the option key it sets.
var optionFlags = []struct {
	name, short, usage string
}{
	{"font", "f", `css font option (e.g. "30px Lobster")`},
	{"textAlign", "a", "text alignment"},
	{"color", "c", "text color"},
	{"backgroundColor", "b", "background color"},
	{"lineSpacing", "s", "line spacing"},
	{"strokeWidth", "", "stroke width"},
	{"strokeColor", "", "stroke color"},
	{"width", "", "fixed width in pixels"},
	{"height", "", "fixed height in pixels"},
	{"minFontSize", "", "minimum font size when auto-scaling (default: 8)"},
	{"verticalAlign", "", "vertical alignment: top, middle, bottom (default: middle)"},
	{"padding", "p", "width of the padding area (left, top, right, bottom)"},
	{"paddingLeft", "", ""},
	{"paddingTop", "", ""},
	{"paddingRight", "", ""},
	{"paddingBottom", "", ""},
	{"borderWidth", "", "width of border (left, top, right, bottom)"},
	{"borderLeftWidth", "", ""},
	{"borderTopWidth", "", ""},
	{"borderRightWidth", "", ""},
	{"borderBottomWidth", "", ""},
	{"borderColor", "", "border color"},
	{"localFontPath", "", "path to local font (e.g. fonts/Lobster-Regular.ttf), URL or google:FAMILY:WEIGHT"},
	{"localFontName", "", "name of local font (e.g. Lobster)"},
}

type cli struct {
	text     string
	output   string
	input    string
	preset   string
	batch    string
	watch    bool
	smooth   bool
	version  bool
	logFile  string
	logLevel string

	values map[string]*string
}

func newFlagSet(c *cli, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("text2png", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: text2png [options]\n\nCreate png image from text.\n\n")
		fs.PrintDefaults()
	}

	str := func(p *string, name, short, usage string) {
		fs.StringVar(p, name, "", usage)
		if short != "" {
			fs.StringVar(p, short, "", "shorthand for -"+name)
		}
	}
	str(&c.text, "text", "t", "text")
	str(&c.output, "output", "o", "output file path (directory with -batch)")
	str(&c.input, "input", "i", "read text from file")
	str(&c.preset, "preset", "", "YAML or TOML file with default options")
	str(&c.batch, "batch", "", "render every file matching a glob (e.g. \"notes/**/*.txt\")")
	str(&c.logFile, "log-file", "", "write logs to a rotating file instead of stderr")
	fs.StringVar(&c.logLevel, "log-level", "warn", "debug, info, warn or error")
	fs.BoolVar(&c.watch, "watch", false, "re-render when the input or preset file changes")
	fs.BoolVar(&c.smooth, "smooth", false, "supersample and downscale for smoother edges")
	fs.BoolVar(&c.version, "version", false, "print version")
	fs.BoolVar(&c.version, "V", false, "shorthand for -version")

	c.values = make(map[string]*string, len(optionFlags))
	for _, f := range optionFlags {
		v := new(string)
		c.values[f.name] = v
		str(v, f.name, f.short, f.usage)
	}
	return fs
}

// options converts the flag values to render options. Numeric flags that
// are empty or not numbers stay unset.
func (c *cli) options() config.Options {
	values := make(map[string]string, len(c.values))
	for k, v := range c.values {
		values[k] = *v
	}
	o := config.FromStrings(values)
	if c.smooth {
		o.ImageSmoothingEnabled = config.Ptr(true)
	}
	return o
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{}
	fs := newFlagSet(c, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if c.version {
		fmt.Fprintln(stdout, version)
		return 0
	}

	log, closer := logger.NewLogger(c.logFile, logger.ParseLevel(c.logLevel), 10)
	defer closer.Close()
	slog.SetDefault(log)

	err := execute(ctx, c, stdin, log)
	switch {
	case errors.Is(err, ErrUsage):
		fs.Usage()
		return 0
	case err != nil:
		fmt.Fprintf(stderr, "text2png: %v\n", err)
		return 1
	}
	return 0
}

func execute(ctx context.Context, c *cli, stdin io.Reader, log *slog.Logger) error {
	opts, err := c.resolveOptions()
	if err != nil {
		return err
	}

	svc, err := services.NewRenderService(log, nil, os.TempDir())
	if err != nil {
		return err
	}

	if c.batch != "" {
		return renderBatch(ctx, svc, c.batch, c.output, opts, log)
	}

	text, err := c.readText(stdin)
	if err != nil {
		return err
	}
	if text == "" || c.output == "" {
		return ErrUsage
	}

	if err := svc.RenderFile(ctx, text, c.output, opts); err != nil {
		return err
	}
	if c.watch {
		return c.watchLoop(ctx, svc, log)
	}
	return nil
}

// resolveOptions layers the flags over the preset file, if any.
func (c *cli) resolveOptions() (config.Options, error) {
	opts := c.options()
	if c.preset == "" {
		return opts, nil
	}
	preset, err := config.LoadPreset(c.preset)
	if err != nil {
		return config.Options{}, err
	}
	return preset.Merge(opts), nil
}

// readText takes -text first, then -input, then stdin when it is piped.
func (c *cli) readText(stdin io.Reader) (string, error) {
	if c.text != "" {
		return c.text, nil
	}
	if c.input != "" {
		data, err := os.ReadFile(c.input)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	if f, ok := stdin.(*os.File); ok {
		info, err := f.Stat()
		if err != nil || info.Mode()&os.ModeCharDevice != 0 {
			return "", nil
		}
	}
	if stdin == nil {
		return "", nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func (c *cli) watchLoop(ctx context.Context, svc *services.RenderService, log *slog.Logger) error {
	var paths []string
	if c.input != "" {
		paths = append(paths, c.input)
	}
	if c.preset != "" {
		paths = append(paths, c.preset)
	}
	if len(paths) == 0 {
		return fmt.Errorf("-watch needs -input or -preset")
	}

	w, err := watch.New(paths...)
	if err != nil {
		return err
	}
	defer w.Close()

	log.Info("watching for changes", "files", paths)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Events():
			if err := c.rerender(ctx, svc); err != nil {
				log.Error("re-render failed", "error", err)
				continue
			}
			log.Info("re-rendered", "output", c.output)
		}
	}
}

func (c *cli) rerender(ctx context.Context, svc *services.RenderService) error {
	opts, err := c.resolveOptions()
	if err != nil {
		return err
	}
	text, err := c.readText(nil)
	if err != nil {
		return err
	}
	return svc.RenderFile(ctx, text, c.output, opts)
}

// renderBatch renders every file matching pattern to outDir/<name>.png.
func renderBatch(ctx context.Context, svc *services.RenderService, pattern, outDir string, opts config.Options, log *slog.Logger) error {
	if outDir == "" {
		return ErrUsage
	}
	base, rel := doublestar.SplitPattern(filepath.ToSlash(pattern))
	matches, err := doublestar.Glob(os.DirFS(base), rel)
	if err != nil {
		return fmt.Errorf("bad -batch pattern: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no files match %s", pattern)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var failed int
	for _, m := range matches {
		in := filepath.Join(base, filepath.FromSlash(m))
		name := strings.TrimSuffix(filepath.Base(m), filepath.Ext(m)) + ".png"
		out := filepath.Join(outDir, name)
		if err := svc.RenderTextFile(ctx, in, out, opts); err != nil {
			log.Error("batch item failed", "input", in, "error", err)
			failed++
			continue
		}
		log.Info("rendered", "input", in, "output", out)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(matches))
	}
	return nil
}
