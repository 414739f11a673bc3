package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/delivery-signin/auth"
	"github.com/jrsteele09/delivery-signin/categories"
	"github.com/jrsteele09/delivery-signin/datasets"
	"github.com/jrsteele09/delivery-signin/internal/config"
	"github.com/jrsteele09/delivery-signin/server"
	"github.com/jrsteele09/delivery-signin/sessions"
	"github.com/jrsteele09/delivery-signin/signin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx := context.Background()
	store, closeStore, err := newSessionStore(ctx, c)
	if err != nil {
		return err
	}
	defer closeStore()

	source, err := newDatasetSource(c)
	if err != nil {
		return err
	}

	registry := categories.Default()
	for _, d := range registry.Descriptors() {
		log.Debug().
			Str("token", string(d.Token)).
			Str("category", d.Category.String()).
			Str("dataset", d.Dataset).
			Msg("Registered category")
	}

	verifier, err := auth.NewVerifier(registry, source)
	if err != nil {
		return fmt.Errorf("auth.NewVerifier: %w", err)
	}
	flow, err := signin.NewFlow(verifier, sessions.NewPublisher(c.GetDashboardPath()), signin.NewAttemptGuard())
	if err != nil {
		return fmt.Errorf("signin.NewFlow: %w", err)
	}

	handler, err := server.New(c, flow, store, os.DirFS(c.GetDataFolder()))
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(httpServer)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if c.GetEnv() == "DEV" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Str("app", c.GetAppName()).Logger()
}

// newSessionStore selects the session store backend. The returned close function
// releases any connection the store holds.
func newSessionStore(ctx context.Context, c config.Config) (sessions.Store, func(), error) {
	switch c.GetSessionStore() {
	case config.SessionStoreRedis:
		client, err := sessions.NewRedisClient(ctx, sessions.RedisOptions{
			Addr:     c.GetRedisAddr(),
			Password: c.GetRedisPassword(),
			DB:       c.GetRedisDB(),
		})
		if err != nil {
			return nil, nil, err
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				log.Err(err).Msg("Failed to close redis client")
			}
		}
		return sessions.NewRedisStore(client, c.GetMaxSessionAge()), closeClient, nil
	case config.SessionStoreMemory:
		return sessions.NewInMemoryStore(c.GetMaxSessionAge()), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", c.GetSessionStore())
	}
}

// newDatasetSource fetches datasets over HTTP when a base URL is configured, otherwise it
// reads them from the data folder. The breaker is opt-in.
func newDatasetSource(c config.Config) (datasets.Source, error) {
	source, err := baseDatasetSource(c)
	if err != nil {
		return nil, err
	}
	if c.GetDatasetBreakerEnabled() {
		return datasets.NewBreakerSource(source, datasets.BreakerSettings{Name: "datasets"}), nil
	}
	return source, nil
}

func baseDatasetSource(c config.Config) (datasets.Source, error) {
	if baseURL := c.GetDatasetBaseURL(); baseURL != "" {
		source, err := datasets.NewHTTPSource(baseURL, datasets.WithTimeout(c.GetDatasetFetchTimeout()))
		if err != nil {
			return nil, fmt.Errorf("datasets.NewHTTPSource: %w", err)
		}
		log.Info().Str("baseURL", baseURL).Msg("Fetching datasets over HTTP")
		return source, nil
	}
	log.Info().Str("folder", c.GetDataFolder()).Msg("Reading datasets from folder")
	return datasets.NewFSSource(os.DirFS(c.GetDataFolder())), nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
