package cli

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/hermes/cli/cmd"
	"github.com/ardnew/hermes/cli/cmd/repl"
	"github.com/ardnew/hermes/log"
	"github.com/ardnew/hermes/pkg"
)

// Configuration file names under [pkg.ConfigDir].
const (
	baseConfig = "config.yaml"
	jsonConfig = "config.json"
)

// CLI is the top-level command-line interface for hermes.
type CLI struct {
	Log      logConfig    `embed:"" group:"log"      prefix:"log-"`
	Pprof    pprofConfig  `embed:"" group:"pprof"    prefix:"pprof-"`
	Registry cmd.Registry `embed:"" group:"registry"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Render cmd.Render `cmd:"" default:"withargs" help:"Render templates to text"`
	Eval   cmd.Eval   `cmd:""                    help:"Evaluate template items"`
	Tree   cmd.Tree   `cmd:""                    help:"Print template syntax trees"`
	Funcs  cmd.Funcs  `cmd:""                    help:"List registered functions"`
	Repl   cmd.Repl   `cmd:""                    help:"Start an interactive session"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file"`
}

// streams holds the standard I/O used by a single invocation.
type streams struct {
	in       io.Reader
	out, err io.Writer
}

// Run executes the hermes CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, streams{os.Stdin, os.Stdout, os.Stderr}, exit, args...)
}

func run(
	ctx context.Context,
	std streams,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := pkg.MkdirAll()
	if err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(baseConfig)

	vars := kong.Vars{
		"version":             pkg.Version,
		cmd.ConfigIdentifier:  configFilePath,
		cmd.CacheIdentifier:   pkg.CacheDir(),
		cmd.HistoryIdentifier: pkg.CachePath(repl.HistoryFile),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Registry.Vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(std.out, std.err),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Registry.Group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, pkg.ConfigPath(jsonConfig)),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with the values that do not use
	// encoding.TextUnmarshaler.
	cli.Log.start(ctx)

	reg, opts, err := cli.Registry.Build(ctx, log.Default())
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands.
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithRegistry(ctx, reg, opts...)
	ctx = cmd.WithInput(ctx, std.in)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
