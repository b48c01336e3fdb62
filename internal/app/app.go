package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	server "ai-village/server"
	"ai-village/server/internal/behavior"
	"ai-village/server/internal/directive"
	servernet "ai-village/server/internal/net"
	"ai-village/server/logging"
	loggingSinks "ai-village/server/logging/sinks"
)

const dispatcherShutdownTimeout = 5 * time.Second

// Run wires the process together from the environment and serves until the
// listener fails or ctx is cancelled.
func Run(ctx context.Context) error {
	logger := log.Default()

	logConfig := logging.DefaultConfig()
	if raw := os.Getenv("LOG_SINKS"); raw != "" {
		logConfig.EnabledSinks = splitList(raw)
	}
	if raw := os.Getenv("LOG_JSON_PATH"); raw != "" {
		logConfig.JSON.FilePath = raw
		logConfig.EnabledSinks = append(logConfig.EnabledSinks, "json")
	}

	sinks := make([]logging.NamedSink, 0, 2)
	if logConfig.HasSink("console") {
		sinks = append(sinks, logging.NamedSink{Name: "console", Sink: loggingSinks.NewConsole(os.Stdout)})
	}
	if logConfig.HasSink("json") && logConfig.JSON.FilePath != "" {
		file, err := os.OpenFile(logConfig.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open json log file: %w", err)
		}
		sinks = append(sinks, logging.NamedSink{Name: "json", Sink: loggingSinks.NewJSON(file, logConfig.JSON.FlushInterval)})
	}

	router, err := logging.NewRouter(logConfig, logging.SystemClock{}, logger, sinks)
	if err != nil {
		return fmt.Errorf("construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			logger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	mock := directive.NewMockGenerator(nil)
	client := directive.NewClient(directive.BackendConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("OPENAI_MODEL"),
	}, mock)
	logger.Printf("directive client mode: %s", client.Mode())

	dispatcher := directive.NewDispatcher(directive.DispatcherConfig{
		Client:    client,
		Mock:      mock,
		Publisher: router,
	})
	defer func() {
		if serr := dispatcher.Shutdown(dispatcherShutdownTimeout); serr != nil {
			logger.Printf("%v", serr)
		}
	}()

	hubCfg := server.DefaultHubConfig()
	hubCfg.Directives = dispatcher
	hubCfg.Publisher = router
	hubCfg.Logger = logger
	if raw := os.Getenv("WORLD_SEED"); raw != "" {
		hubCfg.World.Seed = raw
	}
	if raw := os.Getenv("AGENT_UPDATE_INTERVAL_MS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			hubCfg.UpdateInterval = time.Duration(value) * time.Millisecond
		} else {
			logger.Printf("invalid AGENT_UPDATE_INTERVAL_MS=%q: %v", raw, err)
		}
	}
	if hubCfg.UpdateInterval <= 0 {
		hubCfg.UpdateInterval = behavior.DefaultUpdateInterval
	}

	hub := server.NewHub(hubCfg)
	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{
		ClientDir: os.Getenv("CLIENT_DIR"),
		Logger:    logger,
	})

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: handler}
	logger.Printf("server listening on %s", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			return fmt.Errorf("server shutdown: %w", serr)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
