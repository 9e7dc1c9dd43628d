package main

import (
	"context"
	_ "embed"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomz197/arcade/internal/config"
	lconfig "github.com/tomz197/arcade/internal/loop/config"
	"github.com/tomz197/arcade/internal/loop/server"
	"github.com/tomz197/arcade/internal/scene"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage []byte

func main() {
	logger := config.NewLogger("web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sceneRef := config.GetEnv("SCENE", lconfig.DefaultScene)

	sc, err := scene.Open(sceneRef)
	if err != nil {
		logger.Fatal("failed to load scene", "scene", sceneRef, "err", err)
	}
	srv, err := server.NewServer(sc, server.Options{
		Logger: logger.WithPrefix("server"),
		Seed:   uint64(config.GetEnvInt("SEED", 0)),
	})
	if err != nil {
		logger.Fatal("failed to build scene", "scene", sceneRef, "err", err)
	}
	ctx, cancelServer := context.WithCancel(context.Background())
	go srv.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(htmlPage)
	})
	mux.Handle("/ws", newStreamer(srv, logger.WithPrefix("ws"), lconfig.WebBroadcastTime))

	addr := net.JoinHostPort(host, port)
	httpServer := &http.Server{Addr: addr, Handler: mux}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting web server", "url", "http://"+addr, "scene", sc.Name)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server", "streams", srv.Clients())

	// Streams close themselves once they see the shutdown flag
	srv.Shutdown(lconfig.ShutdownWait)
	cancelServer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}
