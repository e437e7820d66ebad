package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"jobtrack-engine/internal/config"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/followup"
	"jobtrack-engine/internal/httpapi"
	"jobtrack-engine/internal/ingest/email"
	"jobtrack-engine/internal/scheduler"
	"jobtrack-engine/internal/secrets"
	"jobtrack-engine/internal/service"
	"jobtrack-engine/internal/store"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if os.Getenv("JOBTRACK_LOG_JSON") != "" {
		log = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Engine data dir: use env if provided, else local folder.
	dataDir := os.Getenv("JOBTRACK_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("create data dir")
	}

	// Single-instance guard: a second engine on the same data dir would
	// fight over SQLite and double-poll the mailbox.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatal().Err(err).Msg("acquire data dir lock")
	}
	if !locked {
		log.Fatal().Str("data_dir", dataDir).Msg("another engine instance holds the data dir")
	}
	defer func() { _ = lock.Unlock() }()

	userCfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("config bootstrap failed")
	}

	// Load config and keep it reloadable.
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatal().Err(err).Str("path", userCfgPath).Msg("config load failed")
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "jobtrack.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	hub := events.NewHub()
	svc := service.New(db.Pool, hub, log)
	if len(cfg.Followups.OffsetsDays) > 0 {
		svc.FollowupOffsets = cfg.Followups.OffsetsDays
	}
	sweeper := followup.NewSweeper(db.Pool, hub, log)

	runPoll := func(ctx context.Context, cfg config.Config) (int, error) {
		password, err := secrets.GetIMAPPassword(secrets.IMAPKeyringAccount(cfg))
		if err != nil {
			return 0, err
		}
		return email.RunPollOnce(ctx, cfg, password, svc, log)
	}

	var pollStatus atomic.Value
	pollStatus.Store(httpapi.PollStatus{})

	mux := httpapi.NewMux(httpapi.Deps{
		DB:          db.Pool,
		Hub:         hub,
		Log:         log,
		Svc:         svc,
		CfgVal:      &cfgVal,
		PollStatus:  &pollStatus,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		RunPollOnce: runPoll,
		SweepOnce:   sweeper.SweepOnce,
	})

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.Recover(log),
			httpapi.AccessLog(log),
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	token, err := randomToken(16)
	if err != nil {
		log.Fatal().Err(err).Msg("generate shutdown token")
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))
	log.Info().Str("token", token).Msg("shutdown token")

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("listen")
	}
	log.Info().Str("addr", "http://"+addr).Str("db", dbPath).Msg("engine listening")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Email poll loop
	g.Go(func() error {
		interval := time.Duration(cfg.Polling.EmailSeconds) * time.Second
		scheduler.Every(ctx, interval, "email_poll", log, func(ctx context.Context) error {
			cur := cfgVal.Load().(config.Config)
			if !cur.Email.Enabled {
				return nil
			}
			added, err := runPoll(ctx, cur)
			if err != nil {
				return err
			}
			if added > 0 {
				log.Info().Int("added", added).Msg("email poll created applications")
			}
			return nil
		})
		return nil
	})

	// Followup sweep loop
	g.Go(func() error {
		interval := time.Duration(cfg.Polling.FollowupSweepSeconds) * time.Second
		scheduler.Every(ctx, interval, "followup_sweep", log, func(ctx context.Context) error {
			_, err := sweeper.SweepOnce(ctx)
			return err
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("engine exited")
	}
	log.Info().Msg("engine stopped")
}
