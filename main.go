package main

import (
	"embed"
	"log/slog"
	"os"

	"github.com/Crazzygamerr/zen-mandala/pkg/config"
	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	app := NewApp()

	err := wails.Run(&options.App{
		Title:  "Mandala",
		Width:  1280,
		Height: 860,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 20, G: 20, B: 24, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		mandala.Logger().Error("wails run failed", "error", err)
		os.Exit(1)
	}
}

// installLogger routes library logs to stderr at the configured level.
func installLogger(cfg *config.Config) {
	lvl, on := cfg.LogLevel()
	if !on {
		return
	}
	mandala.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
