package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"cinemind/config"
	"cinemind/internal/api"
	"cinemind/internal/auth"
	"cinemind/internal/logger"
	"cinemind/services/discover"
	"cinemind/services/events"
	"cinemind/services/library"
	"cinemind/services/moviedetail"
	"cinemind/services/onboarding"
	"cinemind/services/person"
	"cinemind/services/recommend"
	"cinemind/services/trends"
)

// App is the composition root: everything a front end needs to drive the
// client, wired together the same way for the real UI and for tooling.
type App struct {
	Settings config.Settings
	API      *api.Client
	Tokens   *auth.Store
	Bus      *events.Bus

	Detail     *moviedetail.Controller
	Onboarding *onboarding.Flow
	Recommend  *recommend.Coordinator
	Discover   *discover.Service
	Trends     *trends.Service
	Library    *library.Service
	Person     *person.Service
}

func main() {
	configPath := flag.String("config", "", "path to settings file")
	baseURL := flag.String("base-url", "", "override API base URL from config")
	check := flag.Bool("check", false, "verify backend connectivity and exit")
	flag.Parse()

	fmt.Println("CineMind client starting...")

	path := *configPath
	if path == "" {
		path = os.Getenv("CINEMIND_CONFIG")
	}
	if path == "" {
		path = filepath.Join("cache", "settings.json")
	}

	settings, err := config.NewManager(path).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		settings.API.BaseURL = *baseURL
	}

	log := logger.New(logger.Options{
		Level:      settings.Log.Level,
		File:       settings.Log.File,
		MaxSize:    settings.Log.MaxSize,
		MaxBackups: settings.Log.MaxBackups,
		MaxAge:     settings.Log.MaxAge,
		Compress:   settings.Log.Compress,
	})

	app, err := newApp(settings, log)
	if err != nil {
		log.WithError(err).Fatal("startup failed")
	}

	log.WithField("base_url", settings.API.BaseURL).Info("client ready")

	if *check {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.Recommend.Fetch(ctx, ""); err != nil {
			log.WithError(err).Fatal("connectivity check failed")
		}
		items, _, _ := app.Recommend.Recommendations()
		log.WithField("recommendations", len(items)).Info("connectivity check ok")
	}
}

func newApp(settings config.Settings, log *logrus.Logger) (*App, error) {
	tokens, err := auth.NewStore(settings.Auth.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}

	client := api.NewClient(api.ClientConfig{
		BaseURL:   settings.API.BaseURL,
		Tokens:    tokens,
		HTTPC:     &http.Client{Timeout: time.Duration(settings.API.TimeoutSeconds) * time.Second},
		RateLimit: settings.API.RateLimit,
		Logger:    log,
	})

	bus := events.NewBus()

	app := &App{
		Settings: settings,
		API:      client,
		Tokens:   tokens,
		Bus:      bus,
	}
	app.Detail = moviedetail.NewController(moviedetail.Options{API: client, Bus: bus, Logger: log})
	app.Onboarding = onboarding.NewFlow(onboarding.Options{API: client, Logger: log})
	app.Recommend = recommend.NewCoordinator(recommend.Options{API: client, Bus: bus, Logger: log})
	app.Discover = discover.NewService(client, log)
	app.Trends = trends.NewService(client, log)
	app.Library = library.NewService(library.Options{API: client, Bus: bus, Logger: log})
	app.Person = person.NewService(client, log)

	return app, nil
}
