package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"iol_dashboard/internal/app/provider"
	"iol_dashboard/internal/domain/entity"
	"iol_dashboard/internal/infrastructure/configloader"
	"iol_dashboard/internal/infrastructure/restapi"
	"iol_dashboard/internal/pkg/logger"
	"iol_dashboard/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "iol_dashboard",
		Usage: "Aggregates IOL portfolio and account status for the dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config/config.yml",
				Usage:   "Path to the YAML configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "Optional dotenv file with IOL_USER / IOL_PASS",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Overrides logging.level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			fetchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads the environment and configuration and builds the logger.
func bootstrap(c *cli.Context) (*configloader.Config, *zap.Logger, error) {
	if envFile := c.String("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg, err := configloader.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, zapLogger, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Action: func(c *cli.Context) error {
			cfg, zapLogger, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer zapLogger.Sync() //nolint:errcheck

			metrics.MustRegisterMetrics()

			svcs, err := provider.NewServices(cfg, zapLogger)
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			router := restapi.SetupRouter(restapi.NewDashboardHandler(svcs.Dashboard, svcs.Portfolio, zapLogger), cfg, zapLogger)

			srv := &http.Server{
				Addr:         cfg.Server.Port,
				Handler:      router,
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
				IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				zapLogger.Info("Server starting", zap.String("addr", cfg.Server.Port))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-quit:
			}
			zapLogger.Info("Shutting down server...")

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			zapLogger.Info("Server exiting")
			return nil
		},
	}
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Fetch the dashboard payload once and print it as JSON",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "portfolio-only",
				Usage: "Print the raw portfolio instead of the aggregated dashboard",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, zapLogger, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer zapLogger.Sync() //nolint:errcheck

			svcs, err := provider.NewServices(cfg, zapLogger)
			if err != nil {
				return err
			}

			var resp entity.APIResponse
			if c.Bool("portfolio-only") {
				resp = svcs.Portfolio.Handle(c.Context)
			} else {
				resp = svcs.Dashboard.Handle(c.Context)
			}
			body, err := restapi.EncodeResponse(resp)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, string(body))
			if resp.StatusCode != http.StatusOK {
				return cli.Exit(fmt.Sprintf("upstream answered with status %d", resp.StatusCode), 1)
			}
			return nil
		},
	}
}
