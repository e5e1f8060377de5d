package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"caselog/internal/config"
	"caselog/internal/controllers"
	"caselog/internal/geocode"
	"caselog/internal/logger"
	"caselog/internal/mapview"
	"caselog/internal/services"
	"caselog/internal/shutdown"
	"caselog/internal/store"
	"caselog/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/gofrs/flock"
)

const (
	AppName    = "CaseLog"
	AppID      = "com.forensics.caselog"
	AppVersion = "1.0.0"

	windowWidth  = 1250
	windowHeight = 850

	startupTimeout = 10 * time.Second
)

// Application represents the main application using modern MVC architecture
type Application struct {
	// Core components
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger

	// MVC Components
	controller *controllers.MainController
	view       *views.MainView

	// Infrastructure
	store           *store.Store
	instanceLock    *flock.Flock
	logCloser       io.Closer
	shutdownManager *shutdown.Manager
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := NewApplication(ctx)
	if err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Application execution failed: %v", err)
	}

	log.Println("Application terminated successfully")
}

// NewApplication creates and initializes the application using dependency injection
func NewApplication(ctx context.Context) (*Application, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	instanceLock, err := config.AcquireInstanceLock(paths.LockPath)
	if err != nil {
		return nil, err
	}

	logLevel := determineLogLevel()
	appLogger, logCloser, err := logger.NewAppLogger(paths.LogPath, logger.ZerologLevel(logLevel))
	if err != nil {
		instanceLock.Unlock()
		return nil, fmt.Errorf("failed to open application log: %w", err)
	}

	appLogger.Info("application starting", map[string]interface{}{
		"version":  AppVersion,
		"data_dir": paths.DataDir,
	})

	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(windowWidth, windowHeight))
	window.CenterOnScreen()

	st, err := store.Open(paths.DatabasePath, appLogger)
	if err != nil {
		logCloser.Close()
		instanceLock.Unlock()
		return nil, fmt.Errorf("failed to open case database: %w", err)
	}

	settingsService := services.NewSettingsService(st, paths, appLogger)

	startupCtx, cancelStartup := context.WithTimeout(ctx, startupTimeout)
	defer cancelStartup()
	if err := settingsService.EnsureDefaults(startupCtx); err != nil {
		st.Close()
		logCloser.Close()
		instanceLock.Unlock()
		return nil, fmt.Errorf("failed to seed default settings: %w", err)
	}

	geocoder := geocode.NewCachedGeocoder(geocode.NewNominatimGeocoder(appLogger), st, appLogger)
	renderer := mapview.NewRenderer(appLogger)

	recordService := services.NewRecordService(st, appLogger)
	locationService := services.NewLocationService(st, geocoder, appLogger)
	chartService := services.NewChartService(st, appLogger)
	reportService := services.NewReportService(st, paths.LogoPath, appLogger)

	// Initialize MVC components
	mainController := controllers.NewMainController(
		recordService, locationService, chartService,
		reportService, settingsService, renderer, appLogger,
	)
	mainView := views.NewMainView(window, paths.DataDir, services.DefaultPassword)

	// Wire MVC components together
	mainController.SetMainView(mainView)

	// Shutdown steps run in reverse registration order, so the log
	// writer closes last and the controller cancels its work first.
	shutdownManager := shutdown.NewManager(appLogger)
	shutdownManager.Register("log writer", shutdown.Func(func() {
		logCloser.Close()
	}))
	shutdownManager.Register("instance lock", shutdown.Func(func() {
		if err := instanceLock.Unlock(); err != nil {
			appLogger.Warning("failed to release instance lock", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}))
	shutdownManager.Register("store", st)
	shutdownManager.Register("controller", mainController)

	application := &Application{
		fyneApp:         fyneApp,
		window:          window,
		logger:          appLogger,
		controller:      mainController,
		view:            mainView,
		store:           st,
		instanceLock:    instanceLock,
		logCloser:       logCloser,
		shutdownManager: shutdownManager,
	}

	application.setupWindowEvents()

	appLogger.Info("application initialized", map[string]interface{}{
		"database": paths.DatabasePath,
		"log_file": paths.LogPath,
	})

	return application, nil
}

// Run starts the application with modern event loop management
func (app *Application) Run() error {
	app.logger.Info("starting application ui", nil)

	app.shutdownManager.Listen(func() {
		fyne.Do(app.fyneApp.Quit)
	})

	app.controller.Start()
	app.view.Show()

	// Run blocks until the last window closes. Tear down synchronously
	// afterwards so the database and lock file are released before exit.
	app.fyneApp.Run()
	app.shutdownManager.Shutdown()

	return nil
}

// setupWindowEvents configures window lifecycle events
func (app *Application) setupWindowEvents() {
	app.window.SetCloseIntercept(func() {
		app.view.ShowConfirm(
			"Exit CaseLog",
			"Are you sure you want to exit?",
			func(confirmed bool) {
				if confirmed {
					app.view.Close()
				}
			},
		)
	})

	app.window.SetOnClosed(func() {
		app.logger.Info("window closed", nil)
	})
}

// determineLogLevel determines appropriate log level from environment
func determineLogLevel() logger.LogLevel {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return logger.DebugLevel
	case "info":
		return logger.InfoLevel
	case "warn":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	default:
		if os.Getenv("DEBUG") == "1" {
			return logger.DebugLevel
		}
		return logger.InfoLevel
	}
}
