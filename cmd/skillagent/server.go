package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/kalambet/skillagent/internal/api"
	"github.com/kalambet/skillagent/internal/chat"
	"github.com/kalambet/skillagent/internal/config"
	"github.com/kalambet/skillagent/internal/llm"
	"github.com/kalambet/skillagent/internal/metrics"
	"github.com/kalambet/skillagent/internal/oauth"
	"github.com/kalambet/skillagent/internal/pipeline"
	"github.com/kalambet/skillagent/internal/profile"
	"github.com/kalambet/skillagent/internal/resources"
	"github.com/kalambet/skillagent/internal/roadmap"
	"github.com/kalambet/skillagent/internal/storage"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the SkillAgent daemon (foreground)",
	Long: `Start the SkillAgent daemon in the foreground.

With --mcp the roadmap, resource and skill-check tools are served over
stdio to an MCP client instead of starting the HTTP API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mcpMode, _ := cmd.Flags().GetBool("mcp")
		if mcpMode {
			return runMCP()
		}
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running SkillAgent daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show SkillAgent status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

func init() {
	startCmd.Flags().Bool("mcp", false, "serve MCP tools over stdio instead of HTTP")
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "skillagent.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func setupLogging(level string, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return logger
}

// services is the daemon's object graph. Both the HTTP API and the MCP
// server are built from it.
type services struct {
	store     *storage.Store
	metrics   *metrics.Collector
	profiles  *profile.Manager
	templates *roadmap.TemplateStore
	assembler *roadmap.Assembler
	resolver  *resources.Resolver
	enricher  *pipeline.Enricher
	agent     *chat.Agent
	github    *oauth.GitHub
}

func newServices(cfg config.Config, reg prometheus.Registerer) (*services, error) {
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	m := metrics.NewCollector(reg)

	if cfg.YouTube.APIKey == "" {
		slog.Warn("youtube.api_key not set, tutorials fall back to search links")
	}
	youtube := resources.NewYouTubeSource(cfg.YouTube.BaseURL, cfg.YouTube.APIKey, cfg.YouTubeTimeout(), m)
	resolver := resources.NewDefaultResolver(youtube, m)

	templates := roadmap.DefaultTemplates()
	assembler := roadmap.NewAssembler(templates)
	profiles := profile.NewManager(store)

	agentDeps := chat.Deps{
		Profiles:     profiles,
		Interactions: store,
		Metrics:      m,
	}
	if cfg.LLM.APIKey != "" {
		agentDeps.LLM = llm.NewClient(cfg.LLM.APIKey, llm.Options{
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
		})
		slog.Info("mentor chat online", "model", cfg.LLM.Model)
	} else {
		slog.Warn("llm.api_key not set, mentor chat uses offline replies")
	}

	return &services{
		store:     store,
		metrics:   m,
		profiles:  profiles,
		templates: templates,
		assembler: assembler,
		resolver:  resolver,
		enricher:  pipeline.NewEnricher(assembler, resolver, m),
		agent:     chat.NewAgent(agentDeps),
		github: oauth.NewGitHub(oauth.Config{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			RedirectURL:  cfg.GitHub.RedirectURL,
			AuthorizeURL: cfg.GitHub.AuthorizeURL,
			TokenURL:     cfg.GitHub.TokenURL,
			APIURL:       cfg.GitHub.APIURL,
		}),
	}, nil
}

func (s *services) close() {
	if err := s.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
	}
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "skillagent version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := setupLogging(cfg.Log.Level, os.Stderr)

	// Refuse to start twice on the same port.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("skillagent is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("skillagent is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc, err := newServices(cfg, reg)
	if err != nil {
		return err
	}
	defer svc.close()

	if cfg.Server.APIToken == "" {
		slog.Warn("server.api_token not set, /api routes are unauthenticated")
	}
	if !svc.github.Configured() {
		slog.Info("github.client_id not set, GitHub login disabled")
	}

	handler := api.NewHandler(api.Deps{
		Profiles:       svc.profiles,
		Templates:      svc.templates,
		Assembler:      svc.assembler,
		Enricher:       svc.enricher,
		Resolver:       svc.resolver,
		Agent:          svc.agent,
		Interactions:   svc.store,
		GitHub:         svc.github,
		States:         oauth.NewStateStore(),
		Metrics:        svc.metrics,
		MetricsHandler: metrics.Handler(reg),
		Token:          cfg.Server.APIToken,
		CORSOrigin:     cfg.Server.CORSOrigin,
		Logger:         logger,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "skillagent listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// runMCP serves the MCP tools on stdin/stdout. Stdout belongs to the
// protocol, so all logging goes to stderr.
func runMCP() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log.Level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := newServices(cfg, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer svc.close()

	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Profiles:  svc.profiles,
		Assembler: svc.assembler,
		Enricher:  svc.enricher,
		Resolver:  svc.resolver,
	})
	slog.Info("MCP server started (stdio transport)")

	stdioSrv := server.NewStdioServer(mcpSrv)
	if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP stdio server: %w", err)
	}
	return nil
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("skillagent is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop skillagent (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to skillagent (PID %d)", pid)
	return nil
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	client := &apiClient{
		baseURL:    fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port),
		token:      cfg.Server.APIToken,
		httpClient: &http.Client{Timeout: 2 * time.Second},
	}

	running := false
	var health struct {
		Mentor string `json:"mentor"`
	}
	resp, err := client.get(ctx, "/health")
	if err != nil {
		printStatus("Server", "stopped")
	} else if err := decodeJSON(resp, &health); err != nil {
		printStatus("Server", "error (%v)", err)
	} else {
		running = true
		printStatus("Server", "running on port %d", cfg.Server.Port)
	}

	printStatus("Mentor", "%s", mentorLabel(running, health.Mentor, cfg.LLM.APIKey != "", cfg.LLM.Model))
	if cfg.YouTube.APIKey != "" {
		printStatus("YouTube", "API search")
	} else {
		printStatus("YouTube", "search links (youtube.api_key not set)")
	}
	if cfg.GitHub.ClientID != "" {
		printStatus("GitHub login", "enabled")
	} else {
		printStatus("GitHub login", "disabled")
	}

	if running {
		if resp, err := client.get(ctx, "/api/profile"); err == nil {
			var p profile.UserProfile
			switch err := decodeJSON(resp, &p); {
			case err == nil:
				printStatus("Profile", "%s", profileLabel(p))
			case isNotFound(err):
				printStatus("Profile", "not configured")
			}
		}
		if resp, err := client.get(ctx, "/api/interactions?limit=100"); err == nil {
			var list struct {
				Interactions []struct{} `json:"interactions"`
			}
			if decodeJSON(resp, &list) == nil {
				printStatus("Interactions", "%s", countLabel(len(list.Interactions), 100))
			}
		}
	}

	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}

// mentorLabel prefers what the running daemon reports; when it is down the
// local config is the best guess for the next start.
func mentorLabel(running bool, reported string, haveKey bool, model string) string {
	online := haveKey
	if running && reported != "" {
		online = reported == "online"
	}
	if online {
		return fmt.Sprintf("online (%s)", model)
	}
	return "offline replies (llm.api_key not set)"
}

func profileLabel(p profile.UserProfile) string {
	name := p.Name
	if name == "" {
		name = "(unnamed)"
	}
	if p.Track == "" {
		return name
	}
	return fmt.Sprintf("%s, %s", name, p.Track)
}

func countLabel(count, limit int) string {
	if count >= limit {
		return fmt.Sprintf("%d+", count)
	}
	return fmt.Sprintf("%d", count)
}
