package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hackathon-api/config"
	"hackathon-api/database"
	"hackathon-api/middleware"
	v1 "hackathon-api/routes/v1"
	"hackathon-api/services"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "hackathon",
		Usage: "competition progression API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file read before the environment"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			seedCommand(),
			tokenCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// setup loads the configuration and installs the default logger
func setup(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})))
	return cfg, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, err := setup(c)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("JWT_SECRET must be set")
			}
			if err := database.InitDB(cfg.Postgres); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			middleware.UpdateSystemMetrics(ctx)

			svc := services.New(database.DB, cfg.Rounds, services.WithLogger(slog.Default()))
			gin.SetMode(gin.ReleaseMode)
			r := gin.New()
			r.Use(gin.Recovery())
			v1.Register(r, svc, cfg)

			srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: r}
			errCh := make(chan error, 1)
			go func() {
				slog.Info("listening", slog.String("addr", cfg.HTTP.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			slog.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create or update the database schema",
		Action: func(c *cli.Context) error {
			cfg, err := setup(c)
			if err != nil {
				return err
			}
			// InitDB migrates before returning
			return database.InitDB(cfg.Postgres)
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "insert the rows of a YAML fixture that do not exist yet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Value: "fixtures/seed.yaml", Usage: "fixture to load"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := setup(c)
			if err != nil {
				return err
			}
			fixture, err := database.LoadFixture(c.String("file"))
			if err != nil {
				return err
			}
			if err := database.InitDB(cfg.Postgres); err != nil {
				return err
			}
			if err := database.Populate(database.DB, fixture); err != nil {
				return fmt.Errorf("failed to seed: %w", err)
			}
			slog.Info("fixture loaded", slog.String("file", c.String("file")))
			return nil
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "print a bearer token for an admin, judge or team",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Required: true, Usage: "admin, judge or team id"},
			&cli.StringFlag{Name: "role", Required: true, Usage: "admin, judge or team"},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
		},
		Action: func(c *cli.Context) error {
			cfg, err := setup(c)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("JWT_SECRET must be set")
			}
			role, err := services.ParseRole(c.String("role"))
			if err != nil {
				return err
			}
			token, err := middleware.IssueToken(cfg.Auth.JWTSecret, services.Actor{ID: c.String("id"), Role: role}, c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
