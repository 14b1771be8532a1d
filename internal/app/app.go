package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invoxhq/invox/invox"
	"github.com/invoxhq/invox/pkg/docintel"

	"github.com/alexflint/go-arg"
	cblog "github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const version = "1.0"

// App contains the core components and dependencies of the application.
type App struct {
	Logger  *cblog.Logger
	Service *invox.Service
}

// Run parses the arguments, wires the service, and processes the given
// documents. Extraction results are written next to each input file.
func (a *App) Run() error {
	printBanner()
	arg.MustParse(&args)

	logger := cblog.Default()
	if level, err := cblog.ParseLevel(args.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	a.Logger = logger

	ctx := context.Background()

	svc, err := invox.NewService(ctx, invox.Options{
		Model:         args.Model,
		ConfigFile:    args.ConfigFile,
		CacheDBFile:   args.CacheDBFile,
		EventLogFile:  args.EventLogFile,
		CacheDuration: args.CacheDuration,
		LogLevel:      args.LogLevel,
		Logger:        logger,
		Analyzer: docintel.New(docintel.Config{
			Endpoint: args.Endpoint,
			Key:      args.VisionKey,
			Logger:   logger,
		}),
	})
	if err != nil {
		return fmt.Errorf("error creating service: %w", err)
	}
	defer svc.Close()
	a.Service = svc

	return a.processFiles(ctx)
}

func (a *App) processFiles(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(args.Concurrency)

	for _, file := range args.Files {
		file := file
		g.Go(func() error {
			a.Logger.Infof("processing %s", file)

			result, err := a.Service.ProcessDocument(ctx, file)
			if err != nil {
				return fmt.Errorf("error processing %s: %w", file, err)
			}

			out := resultPath(file)
			if err := os.WriteFile(out, []byte(result), 0644); err != nil {
				return fmt.Errorf("error writing %s: %w", out, err)
			}

			a.Logger.Infof("wrote results to %s", out)
			return nil
		})
	}

	return g.Wait()
}

func resultPath(file string) string {
	base := strings.TrimSuffix(file, filepath.Ext(file))
	return base + "_results.md"
}

func printBanner() {
	banner := `
██ ███    ██ ██    ██  ██████  ██   ██
██ ████   ██ ██    ██ ██    ██  ██ ██
██ ██ ██  ██ ██    ██ ██    ██   ███
██ ██  ██ ██  ██  ██  ██    ██  ██ ██
██ ██   ████   ████    ██████  ██   ██
  llm invoice extraction // version %s

`
	fmt.Printf(banner, version)
}
