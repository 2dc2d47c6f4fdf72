package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/daktela-extract/internal/pipeline"
	"github.com/ajitpratap0/daktela-extract/pkg/client"
	"github.com/ajitpratap0/daktela-extract/pkg/config"
	"github.com/ajitpratap0/daktela-extract/pkg/errors"
	"github.com/ajitpratap0/daktela-extract/pkg/logger"
	"github.com/ajitpratap0/daktela-extract/pkg/sink"
	"github.com/ajitpratap0/daktela-extract/pkg/tablespec"
)

var version = "0.1.0"

func main() {
	// Load .env if present; credentials commonly arrive via environment.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "daktela-extract",
		Short: "Extract Daktela CRM/contact-center data into warehouse-ready CSV files",
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("daktela-extract v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "tables",
		Short: "List built-in table specs",
		Run: func(cmd *cobra.Command, args []string) {
			names := tablespec.Names()
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
		},
	})

	var configFile string
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run an extraction",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(configFile)
		},
	}
	runCmd.Flags().StringVarP(&configFile, "config", "c", "config.json", "path to config file")
	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		var structured *errors.Error
		if stderrors.As(err, &structured) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	level := "info"
	if cfg.Debug {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Level: level, Encoding: "console", Development: cfg.Debug}); err != nil {
		return err
	}
	defer logger.Sync()

	registry := tablespec.Default()
	if cfg.TableOverrides != "" {
		registry, err = tablespec.WithOverrides(cfg.TableOverrides)
		if err != nil {
			logger.Error("failed to load table overrides", zap.Error(err))
			return err
		}
	}

	server, err := cfg.ServerName()
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}

	cl := client.New(client.Config{
		BaseURL:            cfg.BaseURL(),
		Username:           cfg.Username,
		Password:           cfg.Password,
		PageSize:           cfg.PageSize,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})

	extractor, err := pipeline.New(cfg, registry, cl, sink.NewCSVSink(cfg.OutputDir, server, cfg.Gzip))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := extractor.Run(ctx); err != nil {
		logger.Error("extraction failed", zap.Error(err))
		return err
	}
	return nil
}
