package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/dodge/internal/config"
	"github.com/tomz197/dodge/internal/draw"
	"github.com/tomz197/dodge/internal/loop/client"
	lconfig "github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/store"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultDataDir     = "/app/data"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal("Failed to read .env", "err", err)
	}
	logger := config.NewLogger(os.Stderr, "ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	dataDir := config.GetEnv("DODGE_DATA_DIR", defaultDataDir)
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "dataDir", dataDir)

	var st store.Store
	fs, err := store.NewFileStore(dataDir)
	if err != nil {
		logger.Warn("Scores will not be kept", "dir", dataDir, "err", err)
		st = store.NewMemoryStore()
	} else {
		st = fs
	}

	// Cancelling gameCtx puts every connected player on the shutdown notice.
	gameCtx, stopGames := context.WithCancel(context.Background())
	defer stopGames()
	games := &gameHandler{ctx: gameCtx, store: st, logger: logger}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			games.middleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("Failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("Server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Show players the shutdown notice and give them time to leave.
	stopGames()
	games.wait(lconfig.ShutdownDisplaySeconds*time.Second+5*time.Second, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error", "err", err)
	}
}

// gameHandler runs one independent game per SSH session.
type gameHandler struct {
	ctx    context.Context
	store  store.Store
	logger *log.Logger
	active sync.WaitGroup
}

// middleware handles SSH sessions and runs the game client.
func (g *gameHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		profile := sess.User()
		if err := store.ValidateProfile(profile); err != nil {
			fmt.Fprintf(sess, "Error: %q cannot be used as a player name. Use letters, digits, '.', '-' or '_'.\n", profile)
			return
		}

		g.active.Add(1)
		defer g.active.Done()

		logger := g.logger.With("user", profile, "remote", sess.RemoteAddr().String())
		logger.Info("New game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		c := client.NewClient(bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Profile:      profile,
			Store:        g.store,
			Bell:         true,
			Logger:       logger,
		})
		if err := c.Run(g.ctx); err != nil {
			logger.Error("Game error", "err", err)
		}

		logger.Info("Session ended")
		next(sess)
	}
}

// wait blocks until every game has ended or timeout passes.
func (g *gameHandler) wait(timeout time.Duration, logger *log.Logger) {
	done := make(chan struct{})
	go func() {
		g.active.Wait()
		close(done)
	}()
	select {
	case <-done:
		logger.Info("All players disconnected")
	case <-time.After(timeout):
		logger.Warn("Timed out waiting for players to disconnect")
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
