package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/spf13/cobra"
	log "go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanet-platform/bgtasks/internal/app"
	"github.com/yanet-platform/bgtasks/internal/monitoring/logger"
)

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:   path.Base(os.Args[0]),
		Short: "background operations daemon",
		Run: func(cmd *cobra.Command, args []string) {
			if err := exec(configPath); err != nil {
				fmt.Println(err.Error())
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the config file (required).")
	if err := cmd.MarkFlagRequired("config"); err != nil {
		panic("Logic error: `config` flag not exists in the program")
	}

	if err := cmd.Execute(); err != nil {
		fmt.Printf("ERROR: %s\n", err.Error())
		os.Exit(1)
	}
}

func exec(configPath string) error {
	ctx := context.Background()

	config, err := app.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zapLogger, shutdownLogger, err := logger.New(ctx, config.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() {
		_ = zapLogger.Sync()
		_ = shutdownLogger(context.Background())
	}()

	zapLogger.Info("starting bgtasksd", log.Any("config", config))

	wg, ctx := errgroup.WithContext(ctx)

	// Interruption cancels the group context, which starts the drain.
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	wg.Go(func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-ch:
			zapLogger.Info("received signal", log.Stringer("signal", s))
			return errors.New(s.String())
		}
	})

	daemon, err := app.New(config, zapLogger)
	if err != nil {
		return fmt.Errorf("failed to init bgtasksd: %w", err)
	}

	wg.Go(func() error {
		return daemon.Run(ctx)
	})

	return wg.Wait()
}
