package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/helene/internal/api"
	"github.com/kalambet/helene/internal/assistant"
	"github.com/kalambet/helene/internal/config"
	"github.com/kalambet/helene/internal/pipeline"
	"github.com/kalambet/helene/internal/profile"
	"github.com/kalambet/helene/internal/proxy"
	"github.com/kalambet/helene/internal/storage"
	"github.com/kalambet/helene/internal/summary"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the helene server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		withMCP, _ := cmd.Flags().GetBool("mcp")
		return runServer(withMCP)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running helene server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server, mode and provider status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().Bool("mcp", false, "also serve MCP over stdin/stdout")
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "helene.pid")
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

// settingsFrom snapshots the per-call assistant settings from cfg.
func settingsFrom(cfg config.Config) func() assistant.Settings {
	return func() assistant.Settings {
		return assistant.Settings{
			APIKey:    cfg.Gemini.APIKey,
			Model:     cfg.Gemini.Model,
			DemoMode:  cfg.Gemini.DemoMode,
			DemoDelay: cfg.Gemini.DemoLatency(),
		}
	}
}

// newGeminiClient builds the generation client from the Gemini settings.
func newGeminiClient(g config.GeminiConfig) *proxy.Client {
	c := proxy.NewClientWithBaseURL(g.APIKey, g.BaseURL)
	c.SetTimeout(g.RequestTimeout())
	return c
}

// buildDeps wires the storage-backed services shared by the HTTP and MCP
// surfaces.
func buildDeps(cfg config.Config, store *storage.Store, logger *slog.Logger) api.Deps {
	profileMgr := profile.NewManager(store)
	return api.Deps{
		Store:   store,
		Profile: profileMgr,
		Loader:  pipeline.NewLoader(profileMgr, store, store),
		Assistant: assistant.New(
			newGeminiClient(cfg.Gemini),
			settingsFrom(cfg),
			assistant.WithLogger(logger),
		),
	}
}

func runServer(withMCP bool) error {
	fmt.Fprintf(os.Stderr, "helene version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Refuse to start twice on the same port.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("helene is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("helene is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	deps := buildDeps(cfg, store, logger)
	slog.Info("assistant ready", "mode", deps.Assistant.Mode(), "model", cfg.Gemini.Model)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewHandler(deps),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "helene listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Summary.Enabled {
		refresher := summary.New(deps.Profile, store, logger)
		g.Go(func() error {
			if err := refresher.Start(gctx, cfg.Summary.Schedule); err != nil {
				return fmt.Errorf("summary refresher: %w", err)
			}
			return nil
		})
	}

	if withMCP {
		stdioSrv := server.NewStdioServer(api.NewMCPServer(deps, version))
		g.Go(func() error {
			slog.Info("MCP server started (stdio transport)")
			if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("MCP stdio server error", "error", err)
			}
			return nil
		})
	}

	return g.Wait()
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
		printError("helene is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop helene (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to helene (PID %d)", pid)
	return nil
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}
	statusCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var health struct {
		Status string         `json:"status"`
		Mode   assistant.Mode `json:"mode"`
	}
	resp, err := client.get(statusCtx, "/health")
	switch {
	case err != nil:
		printStatus("Server", "stopped")
	case decodeJSON(resp, &health) != nil:
		printStatus("Server", "error (HTTP %d)", resp.StatusCode)
	default:
		printStatus("Server", "running on port %d", cfg.Server.Port)
		printStatus("Mode", "%s", health.Mode)
	}

	printStatus("Model", "%s", cfg.Gemini.Model)
	if assistant.ResolveMode(settingsFrom(cfg)()) == assistant.ModeLive {
		modelsCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if models, err := newGeminiClient(cfg.Gemini).ListModels(modelsCtx); err != nil {
			printStatus("Provider", "unreachable (%v)", err)
		} else {
			printStatus("Provider", "%d models available", len(models))
		}
	} else {
		printStatus("Provider", "not used (demo mode)")
	}

	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}
