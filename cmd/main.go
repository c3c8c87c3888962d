package main

import (
	"flag"
	"fmt"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"bar-access-app/internal/api"
	"bar-access-app/internal/app"
	"bar-access-app/internal/config"
	"bar-access-app/internal/manager"
	"bar-access-app/internal/storage"
	"bar-access-app/internal/ui"
	"bar-access-app/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	serverURL := flag.String("server", "", "override the server URL")
	token := flag.String("token", "", "share token to open")
	file := flag.String("file", "", "offline .bar container to open")
	flag.Parse()

	log := logger.New()
	log.Info("Bar access client starting...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.ErrorWithError("Failed to load configuration", err)
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	log.InfoWithFields("Configuration loaded", map[string]interface{}{
		"server": cfg.ServerURL,
	})

	db, err := storage.NewSQLiteDatabase(cfg.DatabasePath)
	if err != nil {
		// the cooldown store is advisory; fall back to a non-persistent one
		log.WarnWithError("Local database unavailable, cooldowns will not persist", err)
		db, err = storage.NewSQLiteDatabase(":memory:")
		if err != nil {
			log.ErrorWithError("Failed to open fallback database", err)
			fmt.Fprintf(os.Stderr, "database error: %v\n", err)
			os.Exit(1)
		}
	}
	defer db.Close()

	client := api.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout())
	cooldowns := manager.NewOTPCooldownManager(db, cfg.OTPCooldown())

	myApp := fyneapp.New()

	accessWin := ui.NewAccessWindow(myApp, windowTitle(*token, *file))
	viewerWin := ui.NewViewerWindow(myApp)

	controller := app.NewController(cfg, client, cooldowns, accessWin, viewerWin)
	controller.BindAccessWindow(accessWin)
	defer controller.Stop()

	// Forward foreground transitions to the protection guard. The desktop
	// driver reports window focus loss through these lifecycle hooks, so
	// they drive both the visibility and the focus trigger.
	if lc := myApp.Lifecycle(); lc != nil {
		lc.SetOnEnteredForeground(func() {
			controller.HandleFocus(true)
			controller.HandleLifecycleVisibility(true)
		})
		lc.SetOnExitedForeground(func() {
			controller.HandleFocus(false)
			controller.HandleLifecycleVisibility(false)
		})
	}

	controller.Start()

	switch {
	case *token != "":
		if err := controller.OpenShare(*token); err != nil {
			accessWin.SetStatus(err.Error())
		}
	case *file != "":
		if err := controller.OpenContainerFile(*file); err != nil {
			accessWin.SetStatus(err.Error())
		}
	default:
		accessWin.SetStatus("Start with -token <share token> or -file <container.bar>.")
	}

	log.Info("Application UI initialized")
	accessWin.Show()
}

func windowTitle(token, file string) string {
	if file != "" {
		return "Decrypt offline container"
	}
	if token != "" {
		return "Unlock shared file"
	}
	return "Bar secure access"
}
