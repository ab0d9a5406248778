package main

import (
	"context"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/tomz197/dodge/internal/audio/speaker"
	"github.com/tomz197/dodge/internal/config"
	"github.com/tomz197/dodge/internal/loop"
	"github.com/tomz197/dodge/internal/loop/client"
	"github.com/tomz197/dodge/internal/loop/session"
	"github.com/tomz197/dodge/internal/store"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal("Failed to read .env", "err", err)
	}
	logger := config.NewLogger(os.Stderr, "dodge")

	st := openStore(logger)

	opts := client.ClientOptions{
		Profile: config.GetEnv("DODGE_PROFILE", "local"),
		Store:   st,
		Logger:  logger,
	}
	if err := store.ValidateProfile(opts.Profile); err != nil {
		logger.Fatal("Bad DODGE_PROFILE", "profile", opts.Profile, "err", err)
	}

	if seed := config.GetEnvInt("DODGE_SEED", 0); seed != 0 {
		opts.Game = session.New(session.Options{Rand: rand.New(rand.NewSource(seed))})
		logger.Info("Using fixed seed", "seed", seed)
	}

	if config.GetEnvBool("DODGE_SOUND", true) {
		spk, err := speaker.New()
		if err != nil {
			logger.Warn("No sound device, falling back to the terminal bell", "err", err)
			opts.Bell = true
		} else {
			defer spk.Close()
			opts.Audio = spk
		}
	}

	// The screen belongs to the game from here on; keep logs out of it.
	logFile := config.GetEnv("DODGE_LOG_FILE", "")
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Fatal("Failed to open log file", "path", logFile, "err", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else {
		logger.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	err := loop.Run(ctx, os.Stdin, os.Stdout, opts)
	logger.SetOutput(os.Stderr)
	if err != nil {
		logger.Error("Game ended with an error", "err", err)
		os.Exit(1)
	}
}

// openStore opens the profile directory, falling back to memory so the game
// is still playable on a read-only system.
func openStore(logger *log.Logger) store.Store {
	dir := config.GetEnv("DODGE_DATA_DIR", "")
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			logger.Warn("No config directory, scores will not be kept", "err", err)
			return store.NewMemoryStore()
		}
		dir = filepath.Join(base, "dodge")
	}
	fs, err := store.NewFileStore(dir)
	if err != nil {
		logger.Warn("Scores will not be kept", "dir", dir, "err", err)
		return store.NewMemoryStore()
	}
	logger.Debug("Using data directory", "dir", dir)
	return fs
}
