package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/esoquery/esoquery/internal/archive"
	"github.com/esoquery/esoquery/internal/config"
	"github.com/esoquery/esoquery/internal/download"
	"github.com/esoquery/esoquery/internal/logging"
	"github.com/esoquery/esoquery/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "org.eso.esoquery"
	AppName = "ESO Query"

	// EnvDebug enables development logging on the console
	EnvDebug = "ESOQUERY_DEBUG"
)

func main() {
	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	console := ui.NewConsole()
	logger, err := logging.New(console, os.Getenv(EnvDebug) != "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info(fmt.Sprintf("%s v%s starting", AppName, version))

	settings, err := config.Load("")
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// downloads can be large; only connection setup is bounded
	client := &http.Client{Transport: &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   30 * time.Second,
		ResponseHeaderTimeout: 5 * time.Minute,
	}}

	searchSvc := archive.NewService(archive.Options{Client: client}, logger)
	downloadSvc := download.NewService(searchSvc.Tokens(), logger)

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	ui.NewRootUI(myWindow, myApp, ui.Deps{
		Settings: settings,
		Search:   searchSvc,
		Download: downloadSvc,
		Console:  console,
		Logger:   logger,
	})
	myWindow.SetMaster()
	myWindow.ShowAndRun()
}
