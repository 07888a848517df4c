package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/connect4-client/internal/config"
	"github.com/DoyleJ11/connect4-client/internal/history"
	"github.com/DoyleJ11/connect4-client/internal/httpapi"
	"github.com/DoyleJ11/connect4-client/internal/logging"
	"github.com/DoyleJ11/connect4-client/internal/router"
	"github.com/DoyleJ11/connect4-client/internal/session"
	"github.com/DoyleJ11/connect4-client/internal/ws"
)

func main() {
	envFile := flag.String("env", ".env", "optional env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("client stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := ws.Dial(ctx, cfg.ServerURL, ws.Options{
		WriteTimeout: cfg.WriteTimeout,
		DialTimeout:  cfg.DialTimeout,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		// the server may already have closed it
		if cerr := client.Close(); cerr != nil {
			log.Debug("close connection", zap.Error(cerr))
		}
	}()

	var (
		recorder session.Recorder
		store    *history.Store
	)
	if cfg.HistoryDSN != "" {
		store, err = history.Open(cfg.HistoryDSN, log)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, store.Close()) }()
		recorder = store
	}

	rt := router.New(log)
	sess := session.New(ctx, session.Options{
		LocalPlayer:       cfg.PlayerName,
		InvitePrompt:      cfg.InvitePrompt,
		OptimisticPairing: cfg.OptimisticPairing,
		PairingDelay:      cfg.PairingDelay,
		RejectionDelay:    cfg.RejectionDelay,
		GoDelay:           cfg.GoDelay,
		FinishLinger:      cfg.FinishLinger,
		EventBuffer:       cfg.EventBuffer,
	}, rt, client, recorder, log)
	defer sess.Close()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpapi.SetupRoutes(sess, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// the game ends with the connection
		defer stop()
		return client.Run(gctx, rt)
	})
	g.Go(func() error {
		log.Info("control api listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		logEvents(gctx, sess, log)
		return nil
	})
	if store != nil {
		g.Go(func() error { return store.Run(gctx) })
	}
	return g.Wait()
}

func logEvents(ctx context.Context, sess *session.Session, log *zap.Logger) {
	log = log.Named("events")
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sess.Events():
			if !ok {
				return
			}
			log.Info(string(e.Kind),
				zap.String("phase", e.Phase),
				zap.String("match", e.MatchID),
				zap.String("peer", e.Peer),
				zap.Int("countdown", e.Countdown),
				zap.Bool("local_turn", e.LocalTurn),
			)
		}
	}
}
