package tui

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kqlcommander/kqlcommander/ai"
	"github.com/kqlcommander/kqlcommander/applog"
	"github.com/kqlcommander/kqlcommander/config"
	"github.com/kqlcommander/kqlcommander/kusto"
	"github.com/kqlcommander/kqlcommander/session"
	"github.com/kqlcommander/kqlcommander/ssh"
)

// Start loads configuration, optionally opens the bastion tunnel,
// wires the clients, and launches the TUI.
func Start() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.SSH.Enabled {
		host, port, err := backendHostPort(cfg.BaseURL)
		if err != nil {
			return err
		}
		tunnel, err := ssh.NewTunnel(cfg.SSH, host, port)
		if err != nil {
			return fmt.Errorf("ssh tunnel setup: %w", err)
		}
		addr, err := tunnel.Start(context.Background())
		if err != nil {
			return fmt.Errorf("ssh tunnel start: %w", err)
		}
		defer tunnel.Stop()
		// All backend traffic goes through the forwarded port.
		cfg.BaseURL = fmt.Sprintf("http://%s:%d", addr.Host, addr.Port)
		applog.Event("ssh", "tunnel up, backend via %s", cfg.BaseURL)
	}

	backend := kusto.NewClient(cfg.TreeURL(), cfg.ExecuteURL(), nil)
	completer := ai.NewClient(cfg.CompletionURL(), cfg.ChatModel, cfg.Temperature, nil)

	applog.Info("starting kqlcommander v%s (model=%s, backend=%s)", appVersion, cfg.ChatModel, cfg.BaseURL)
	defer applog.Close()

	app := NewApp(session.New(), backend, completer)
	p := tea.NewProgram(app, tea.WithAltScreen())

	_, err = p.Run()
	return err
}

// backendHostPort extracts the host and port of the backend base URL
// for the tunnel's remote endpoint.
func backendHostPort(baseURL string) (string, int, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", 0, fmt.Errorf("parse base URL: %w", err)
	}
	host := u.Hostname()
	if host == "" {
		return "", 0, fmt.Errorf("base URL %q has no host", baseURL)
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return "", 0, fmt.Errorf("parse base URL port: %w", err)
		}
		return host, port, nil
	}
	if u.Scheme == "https" {
		return host, 443, nil
	}
	return host, 80, nil
}
