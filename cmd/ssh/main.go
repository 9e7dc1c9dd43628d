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
	"github.com/tomz197/arcade/internal/config"
	"github.com/tomz197/arcade/internal/draw"
	"github.com/tomz197/arcade/internal/loop/client"
	lconfig "github.com/tomz197/arcade/internal/loop/config"
	"github.com/tomz197/arcade/internal/loop/server"
	"github.com/tomz197/arcade/internal/scene"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

// Shared simulation, watched by every SSH session
var (
	simServer    *server.Server
	cancelServer context.CancelFunc
	serverOnce   sync.Once
	logger       *log.Logger
)

func main() {
	logger = config.NewLogger("ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	sceneRef := config.GetEnv("SCENE", lconfig.DefaultScene)
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "scene", sceneRef)

	serverOnce.Do(func() {
		sc, err := scene.Open(sceneRef)
		if err != nil {
			logger.Fatal("failed to load scene", "scene", sceneRef, "err", err)
		}
		simServer, err = server.NewServer(sc, server.Options{
			Logger: logger.WithPrefix("server"),
			Seed:   uint64(config.GetEnvInt("SEED", 0)),
		})
		if err != nil {
			logger.Fatal("failed to build scene", "scene", sceneRef, "err", err)
		}
		var ctx context.Context
		ctx, cancelServer = context.WithCancel(context.Background())
		go simServer.Run(ctx)
		logger.Info("simulation started")
	})

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			sandboxMiddleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce input latency
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
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Let connected sessions show the shutdown screen and leave
	logger.Info("notifying sessions about shutdown", "clients", simServer.Clients())
	simServer.Shutdown(lconfig.ShutdownWait)
	cancelServer()
	logger.Info("simulation stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// sandboxMiddleware runs a terminal client against the shared simulation.
func sandboxMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger.Info("new session", "user", sess.User(), "term", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		c := client.NewClient(simServer, bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
		})
		if err := c.Run(); err != nil {
			logger.Error("session error", "user", sess.User(), "err", err)
		}

		logger.Info("session ended", "user", sess.User())
		next(sess)
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

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
