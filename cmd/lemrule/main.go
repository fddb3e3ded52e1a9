package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/revelaction/lemrule/model"
	"github.com/revelaction/lemrule/render"
)

// UI contains the input and output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// IsTerminal reports whether Out is a terminal: it enables colors and
	// progress bars.
	IsTerminal bool
}

func main() {
	ui := UI{
		In:         os.Stdin,
		Out:        os.Stdout,
		Err:        os.Stderr,
		IsTerminal: isatty.IsTerminal(os.Stdout.Fd()),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], ui); err != nil {
		fprintErr(ui.Err, err)
		stop()
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "lemrule: %v\n", err)
}

// run executes the command line args (without the program name).
func run(ctx context.Context, args []string, ui UI) error {
	a := &app{ui: ui, log: zap.NewNop()}
	return a.cli().RunContext(ctx, append([]string{"lemrule"}, args...))
}

// app holds the state shared by the commands.
type app struct {
	ui   UI
	log  *zap.Logger
	pool Pool
}

func (a *app) cli() *cli.App {
	return &cli.App{
		Name:                      "lemrule",
		Usage:                     "lemmatize text with rule overrides and extract lemmas by dependency",
		Version:                   BuildTag,
		Writer:                    a.ui.Out,
		ErrWriter:                 a.ui.Err,
		EnableBashCompletion:      true,
		DisableSliceFlagSeparator: true,
		// errors are printed and turned into the exit status by main
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Value:   model.Default,
				Usage:   "language model `NAME`",
				EnvVars: []string{"LEMRULE_MODEL"},
			},
			&cli.StringFlag{
				Name:    "model-path",
				Usage:   "extra model directories, separated by the OS path list separator",
				EnvVars: []string{"LEMRULE_MODEL_PATH"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "write debug logs to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				a.log = newLogger(a.ui.Err)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			_ = a.log.Sync()
			return a.pool.Close()
		},
		Commands: []*cli.Command{
			a.runCommand(),
			a.parseCommand(),
			a.modelsCommand(),
			a.importCommand(),
			a.extractCommand(),
			a.docsCommand(),
			a.rulesCommand(),
			a.statCommand(),
			a.queryCommand(),
			a.versionCommand(),
			a.bashCommand(),
		},
	}
}

// newLogger returns a JSON debug logger writing to w.
func newLogger(w io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		zap.DebugLevel,
	)
	return zap.New(core).Named("lemrule")
}

// newRenderer returns a renderer writing to the UI output.
func (a *app) newRenderer(format string, noColor bool) *render.Renderer {
	r := render.NewRenderer()
	r.Out = a.ui.Out
	r.Format = format
	r.HasColor = a.ui.IsTerminal && !noColor
	return r
}
