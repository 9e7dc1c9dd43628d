package main

import (
	"bufio"
	"context"
	"os"

	"github.com/tomz197/arcade/internal/config"
	"github.com/tomz197/arcade/internal/loop/client"
	lconfig "github.com/tomz197/arcade/internal/loop/config"
	"github.com/tomz197/arcade/internal/loop/server"
	"github.com/tomz197/arcade/internal/scene"
	"golang.org/x/term"
)

func main() {
	logger := config.NewLogger("game")

	ref := config.GetEnv("SCENE", lconfig.DefaultScene)
	sc, err := scene.Open(ref)
	if err != nil {
		logger.Fatal("failed to load scene", "scene", ref, "err", err)
	}
	// The terminal belongs to the renderer, so the simulation stays quiet.
	srv, err := server.NewServer(sc, server.Options{Seed: uint64(config.GetEnvInt("SEED", 0))})
	if err != nil {
		logger.Fatal("failed to build scene", "scene", ref, "err", err)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Fatal("failed to enable raw mode", "err", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go srv.Run(ctx)

	c := client.NewClient(srv, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{})
	runErr := c.Run()

	cancel()
	_ = term.Restore(fd, oldState)
	if runErr != nil {
		logger.Fatal("client error", "err", runErr)
	}
}
