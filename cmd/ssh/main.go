package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/balloonpop/internal/config"
	"github.com/tomz197/balloonpop/internal/draw"
	"github.com/tomz197/balloonpop/internal/game"
	applog "github.com/tomz197/balloonpop/internal/logging"
	"github.com/tomz197/balloonpop/internal/loop/client"
	loopconfig "github.com/tomz197/balloonpop/internal/loop/config"
	"github.com/tomz197/balloonpop/internal/loop/server"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"

	// Players get this long to see the shutdown notice and leave
	playerDrainTimeout = 15 * time.Second
	serverStopTimeout  = 5 * time.Second
)

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	logger := applog.New(os.Stderr, config.GetEnv("BALLOON_LOG_LEVEL", "info"))

	if err := run(logger); err != nil {
		logger.Fatal("ssh server failed", "err", err)
	}
}

func run(logger *log.Logger) error {
	addr := net.JoinHostPort(config.GetEnv("SSH_HOST", defaultHost), config.GetEnv("SSH_PORT", defaultPort))
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)

	settings, err := loopconfig.LoadTuning(config.GetEnv("BALLOON_TUNING", ""))
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}

	// One registry for every connection; each connection plays its own scene
	gameServer := server.NewServer(logger)

	opts := []ssh.Option{
		wish.WithAddress(addr),
		wish.WithMiddleware(
			gameMiddleware(gameServer, settings, logger),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Game input is latency sensitive
		ssh.WrapConn(func(_ ssh.Context, conn net.Conn) net.Conn {
			if tcp, ok := conn.(*net.TCPConn); ok {
				_ = tcp.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting ssh server", "addr", addr, "hostKeyPath", hostKeyPath)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down, notifying players", "players", gameServer.PlayerCount())
	gameServer.Shutdown(playerDrainTimeout)

	stopCtx, cancel := context.WithTimeout(context.Background(), serverStopTimeout)
	defer cancel()
	if err := s.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// gameMiddleware runs a game client for every SSH session with a PTY.
func gameMiddleware(gs *server.Server, settings game.Settings, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}
			logger.Info("new game session", "user", sess.User(), "terminal", pty.Term,
				"width", pty.Window.Width, "height", pty.Window.Height)

			var size windowSize
			size.set(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					size.set(win.Width, win.Height)
				}
			}()

			c := client.NewClient(gs, bufio.NewReader(sess), sess, client.ClientOptions{
				TermSizeFunc: size.get,
				Username:     sess.User(),
				Settings:     &settings,
				Logger:       logger,
			})
			if err := c.Run(); err != nil {
				logger.Error("game error", "user", sess.User(), "err", err)
			}

			logger.Info("session ended", "user", sess.User())
			next(sess)
		}
	}
}

// windowSize holds the latest PTY size reported by the SSH client,
// packed as width<<32 | height.
type windowSize struct {
	v atomic.Uint64
}

func (w *windowSize) set(width, height int) {
	w.v.Store(uint64(uint32(width))<<32 | uint64(uint32(height)))
}

func (w *windowSize) get() (int, int, error) {
	v := w.v.Load()
	return int(uint32(v >> 32)), int(uint32(v)), nil
}

var _ draw.TermSizeFunc = (*windowSize)(nil).get
