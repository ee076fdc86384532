package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"github.com/tomz197/balloonpop/internal/audio"
	"github.com/tomz197/balloonpop/internal/config"
	"github.com/tomz197/balloonpop/internal/logging"
	"github.com/tomz197/balloonpop/internal/loop/client"
	loopconfig "github.com/tomz197/balloonpop/internal/loop/config"
	"github.com/tomz197/balloonpop/internal/loop/server"
	"github.com/tomz197/balloonpop/internal/object"
	"golang.org/x/term"
)

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the game, so logs go to a file if at all
	logger, closeLog, err := openLog(config.GetEnv("BALLOON_LOG", ""), config.GetEnv("BALLOON_LOG_LEVEL", "info"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	settings, err := loopconfig.LoadTuning(config.GetEnv("BALLOON_TUNING", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load tuning: %v\n", err)
		os.Exit(1)
	}

	var sound object.SoundPlayer
	if config.GetEnvBool("BALLOON_AUDIO", true) {
		player := audio.NewPlayer()
		if err := player.Init(); err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer player.Close()
			sound = player
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	// A local registry gives the title screen a leaderboard for this run
	srv := server.NewServer(logger)
	c := client.NewClient(srv, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: localUsername(),
		Settings: &settings,
		Sound:    sound,
		Logger:   logger,
	})
	if err := c.Run(); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

// openLog returns a logger writing to path, or a discarding logger when path is empty.
func openLog(path, level string) (*log.Logger, func(), error) {
	if path == "" {
		return logging.New(io.Discard, level), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return logging.New(f, level), func() { _ = f.Close() }, nil
}

func localUsername() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
