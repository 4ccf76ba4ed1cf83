package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mironco/scenecore/internal/audio"
	"github.com/mironco/scenecore/internal/config"
	"github.com/mironco/scenecore/internal/logging"
	"github.com/mironco/scenecore/internal/scene"
	"github.com/mironco/scenecore/internal/viewer"
	"github.com/mironco/scenecore/internal/world"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	sceneName := flag.String("scene", "main", "scene to open from the persistence dir")
	soundsDir := flag.String("sounds", "assets/sounds", "directory of .wav/.ogg sounds")
	mute := flag.Bool("mute", false, "run without an audio device")
	flag.Parse()

	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	if err := run(*configPath, *sceneName, *soundsDir, *mute); err != nil {
		fmt.Fprintln(os.Stderr, "sceneview:", err)
		os.Exit(1)
	}
}

func run(configPath, sceneName, soundsDir string, mute bool) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
	if err != nil {
		return err
	}
	defer log.Sync()

	var (
		manager *audio.Manager
		player  audio.Player = audio.Nop{}
	)
	if !mute {
		manager = audio.NewManager(soundsDir, log)
		defer manager.Close()
		player = manager
	}

	w, err := world.New(cfg, player, log)
	if err != nil {
		return err
	}
	defer w.Dispose()

	switch err := w.LoadSceneFromFile(sceneName); {
	case errors.Is(err, scene.ErrSceneNotFound):
		log.Info("starting empty scene", zap.String("scene", sceneName))
		w.Name = sceneName
	case err != nil:
		// Broken entities are skipped; the rest of the scene is usable.
		log.Warn("scene loaded with errors", zap.String("scene", sceneName), zap.Error(err))
	}

	viewer.New(w, manager, sceneName, cfg.Viewer, log).Run()
	return nil
}
