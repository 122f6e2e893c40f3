package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"pesantren_backend/internals/configs"
	database "pesantren_backend/internals/databases"
	signatureService "pesantren_backend/internals/features/files/signature/service"
	authService "pesantren_backend/internals/features/users/auth/service"
	routes "pesantren_backend/internals/route"
	"pesantren_backend/internals/scheduler"
	"pesantren_backend/internals/seeds"
)

func main() {
	root := &cli.Command{
		Name:  "pesantren",
		Usage: "Backend dashboard administrasi pesantren",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "path file .env (default: .env kalau ada)"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			seedCommand(),
			hashPasswordCommand(),
		},
		// tanpa subcommand = serve
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServe(ctx, c, true)
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func loadConfig(c *cli.Command) (*configs.Config, error) {
	var files []string
	if f := c.String("env-file"); f != "" {
		files = append(files, f)
	}
	cfg, err := configs.LoadEnv(files...)
	if err != nil {
		return nil, err
	}
	configs.SetupLogger(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Jalankan HTTP server",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Value: true, Usage: "jalankan migrasi sebelum server start"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServe(ctx, c, c.Bool("migrate"))
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Jalankan migrasi database (goose up)",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			db, err := database.ConnectDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			return database.RunMigrations(ctx, db)
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Isi user admin & data referensi dari JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "folder berisi users.json & records.json (default: data bawaan)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			db, err := database.ConnectDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.RunMigrations(ctx, db); err != nil {
				return err
			}
			return seeds.RunAllSeeds(ctx, db, c.String("dir"))
		},
	}
}

func hashPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "Cetak hash password (untuk isi manual kolom users.password)",
		ArgsUsage: "<password>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("butuh tepat satu argumen password")
			}
			fmt.Println(authService.HashPassword(c.Args().First()))
			return nil
		},
	}
}

func runServe(ctx context.Context, c *cli.Command, migrate bool) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// 🔌 DB connect + pool + warm-up
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	database.TunePool(db, cfg)
	database.WarmUpQueries(db)

	if migrate {
		if err := database.RunMigrations(ctx, db); err != nil {
			return err
		}
	}

	signer, err := signatureService.NewSigner(cfg)
	if err != nil {
		return err
	}
	var tokens *authService.TokenIssuer
	if cfg.AuthIssueToken || cfg.AuthRequireToken {
		if cfg.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET wajib diisi kalau AUTH_ISSUE_TOKEN/AUTH_REQUIRE_TOKEN aktif")
		}
		tokens = authService.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL())
	}
	if cfg.StorePlainPassword {
		logrus.Warn("⚠️ STORE_PLAIN_PASSWORD aktif: password_plain ikut disimpan")
	}

	// ⏱ scheduler setelah DB siap
	cron, err := scheduler.Start(db, cfg)
	if err != nil {
		return err
	}
	defer cron.Stop()

	app := routes.NewApp(routes.Deps{
		DB:     db,
		Config: cfg,
		Signer: signer,
		Tokens: tokens,
		Loc:    cfg.Location(),
	})

	// Start server non-blocking
	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("✅ Listening on :%s", cfg.Port)
		errCh <- app.Listen("0.0.0.0:" + cfg.Port)
	}()

	// graceful shutdown + tutup pool DB (defer)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	case <-ctx.Done():
	}

	logrus.Info("🛑 Shutdown...")
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return app.ShutdownWithContext(sctx)
}
