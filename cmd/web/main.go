package main

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/dodge/internal/config"
	"github.com/tomz197/dodge/internal/loop/session"
	"github.com/tomz197/dodge/internal/store"
	"github.com/tomz197/dodge/internal/web"
)

const (
	defaultHost    = "0.0.0.0"
	defaultPort    = "8080"
	defaultDataDir = "/app/data"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal("Failed to read .env", "err", err)
	}
	logger := config.NewLogger(os.Stderr, "web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	dataDir := config.GetEnv("DODGE_DATA_DIR", defaultDataDir)

	var st store.Store
	fs, err := store.NewFileStore(dataDir)
	if err != nil {
		logger.Warn("Scores will not be kept", "dir", dataDir, "err", err)
		st = store.NewMemoryStore()
	} else {
		st = fs
	}

	opts := web.HandlerOptions{Store: st, Logger: logger}
	if seed := config.GetEnvInt("DODGE_SEED", 0); seed != 0 {
		// Every connection replays the same obstacle sequence.
		opts.NewGame = func() *session.Session {
			return session.New(session.Options{Rand: rand.New(rand.NewSource(seed))})
		}
		logger.Info("Using fixed seed", "seed", seed)
	}
	if config.GetEnvBool("WEB_ALLOW_ANY_ORIGIN", false) {
		opts.CheckOrigin = func(r *http.Request) bool { return true }
	}

	gameCtx, stopGames := context.WithCancel(context.Background())
	defer stopGames()
	opts.Context = gameCtx

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           web.NewMux(web.NewHandler(opts), sshHost),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting web server", "url", "http://"+addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Websockets are hijacked, so Shutdown does not wait for them; the game
	// context sends each player a notice and closes the socket.
	stopGames()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error", "err", err)
	}
}
