package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"jiraiya/sources/artificial"
	"jiraiya/sources/configuration"
	"jiraiya/sources/dashboard"
	"jiraiya/sources/encoder"
	"jiraiya/sources/evaluator"
	"jiraiya/sources/external"
	"jiraiya/sources/features"
	"jiraiya/sources/indexer"
	"jiraiya/sources/metrics"
	"jiraiya/sources/metrics/collector"
	"jiraiya/sources/network"
	"jiraiya/sources/persistence"
	"jiraiya/sources/platform"
	"jiraiya/sources/repository"
	"jiraiya/sources/throttler"
	"jiraiya/sources/tickets"
	"jiraiya/sources/tracing"
	"jiraiya/sources/vectorstore"
	"jiraiya/sources/writer"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var (
	version   = "0.0.0"
	buildTime = "1970-01-01"
)

type Globals struct {
	Config string `help:"Path to the yaml configuration." default:"config.yaml"`
	Debug  bool   `help:"Enable debug logging."`
}

type ServeCmd struct{}

type IndexCmd struct {
	Paths []string `arg:"" optional:"" help:"Codebase paths to index, overriding the configured list."`
	Reset bool     `help:"Drop the tenant collection and index from scratch."`
}

type DocsCmd struct {
	Path string `arg:"" help:"Codebase path to document."`
	Name string `help:"Project name used in document titles, defaults to the directory name."`
}

type EvalCmd struct {
	Dataset string `arg:"" help:"Path to the JSON retrieval benchmark."`
}

type CLI struct {
	Globals

	Serve ServeCmd `cmd:"" help:"Run the architect dashboard."`
	Index IndexCmd `cmd:"" help:"Index codebases into the vector store."`
	Docs  DocsCmd  `cmd:"" help:"Generate technical documentation for a codebase."`
	Eval  EvalCmd  `cmd:"" help:"Evaluate retrieval quality against a labeled dataset."`
}

func main() {
	_ = godotenv.Load()

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("jiraiya"),
		kong.Description("A software architect agent over your indexed codebases."),
		kong.UsageOnError(),
	)

	applyGlobals(&cli.Globals)
	platform.SetAppManifest(version, buildTime, time.Now())
	validateLaunch()

	switch ctx.Command() {
	case "serve":
		serveApp().Run()
	case "index", "index <paths>":
		indexApp(&cli.Index).Run()
	case "docs <path>":
		docsApp(&cli.Docs).Run()
	case "eval <dataset>":
		evalApp(&cli.Eval).Run()
	default:
		_ = ctx.PrintUsage(false)
		os.Exit(1)
	}
}

func applyGlobals(globals *Globals) {
	if globals.Config != "" {
		os.Setenv("CONFIG_PATH", globals.Config)
	}

	if globals.Debug {
		os.Setenv("DEBUG", "true")
	}
}

// validateLaunch gates startup on the Bedrock credential set. It runs before
// the dependency graph is assembled so a missing credential never builds a
// single client.
func validateLaunch() {
	if os.Getenv("AWS_DEFAULT_REGION") == "" {
		os.Setenv("AWS_DEFAULT_REGION", "eu-central-1")
		fmt.Println("AWS_DEFAULT_REGION is not set, defaulting to eu-central-1")
	}

	if err := configuration.ValidateAWSEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// coreModules is the dependency surface every command shares.
func coreModules() fx.Option {
	return fx.Options(
		tracing.Module,
		configuration.Module,
		network.Module,
		metrics.Module,
		features.Module,
		persistence.Module,
		repository.Module,
		encoder.Module,
		vectorstore.Module,
	)
}

func serveApp() *fx.App {
	return fx.New(
		coreModules(),
		collector.Module,
		throttler.Module,
		external.Module,
		tickets.Module,
		artificial.Module,
		dashboard.Module,

		fx.Invoke(func(lc fx.Lifecycle, log *tracing.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.I("Jiraiya started successfully", "version", version, "build_time", buildTime)
					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.I("Jiraiya stopped", "version", version, "build_time", buildTime)
					return nil
				},
			})
		}),
	)
}

func indexApp(cmd *IndexCmd) *fx.App {
	return fx.New(
		coreModules(),
		artificial.Module,
		writer.Module,
		indexer.Module,

		fx.Invoke(func(lc fx.Lifecycle, shutdowner fx.Shutdowner, config *configuration.Config, idx *indexer.Indexer, log *tracing.Logger) error {
			if len(cmd.Paths) > 0 {
				config.Data.Codebases = cmd.Paths
			}

			if len(config.Data.Codebases) == 0 {
				return errors.New("no codebases to index: pass paths on the command line or set data.codebases")
			}

			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go func() {
						err := idx.Run(cmd.Reset)
						finish(log, shutdowner, "Indexing", err)
					}()
					return nil
				},
			})

			return nil
		}),
	)
}

func docsApp(cmd *DocsCmd) *fx.App {
	return fx.New(
		coreModules(),
		artificial.Module,
		writer.Module,

		fx.Invoke(func(lc fx.Lifecycle, shutdowner fx.Shutdowner, generator *writer.Generator, log *tracing.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go func() {
						err := generator.Generate(log, cmd.Path, cmd.Name)
						finish(log, shutdowner, "Documentation generation", err)
					}()
					return nil
				},
			})
		}),
	)
}

func evalApp(cmd *EvalCmd) *fx.App {
	return fx.New(
		coreModules(),
		evaluator.Module,

		fx.Invoke(func(lc fx.Lifecycle, shutdowner fx.Shutdowner, runner *evaluator.Runner, log *tracing.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go func() {
						result, err := runner.Run(log, cmd.Dataset)
						if err == nil {
							fmt.Println(result.String())
						}
						finish(log, shutdowner, "Evaluation", err)
					}()
					return nil
				},
			})
		}),
	)
}

// finish stops a one-shot app, propagating failure through the exit code.
func finish(log *tracing.Logger, shutdowner fx.Shutdowner, operation string, err error) {
	if err != nil {
		log.E(operation+" failed", tracing.InnerError, err)
		_ = shutdowner.Shutdown(fx.ExitCode(1))
		return
	}

	log.I(operation + " finished")
	_ = shutdowner.Shutdown()
}
