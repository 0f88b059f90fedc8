package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/xrsl/cvlift/pkg/backend"
	"github.com/xrsl/cvlift/pkg/config"
	"github.com/xrsl/cvlift/pkg/retry"
	"github.com/xrsl/cvlift/pkg/workflow"
)

// newEnhancer returns the backend client when an endpoint is configured, and
// nil otherwise so the workflow runs simulated.
func newEnhancer(cfg config.BackendConfig) (workflow.Enhancer, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	c, err := backend.New(backend.Config{
		Endpoint:  cfg.Endpoint,
		Token:     cfg.Token,
		UserAgent: "cvlift/" + Version,
		Timeout:   cfg.Timeout,
		Retry:     retry.DefaultConfig().WithRetries(cfg.MaxRetries),
		RateLimit: cfg.RateLimit,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// applyAddr overrides host and port from a host:port string.
// Either side may be empty to keep the configured value.
func applyAddr(cfg *config.ServerConfig, addr string) error {
	if addr == "" {
		return nil
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid --addr %q: %w", addr, err)
	}
	if host != "" {
		cfg.Host = host
	}
	if port != "" {
		p, err := strconv.Atoi(port)
		if err != nil || p < 1 || p > 65535 {
			return fmt.Errorf("invalid --addr port %q", port)
		}
		cfg.Port = p
	}
	return nil
}

// isInteractive reports whether stdin is a terminal
func isInteractive() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// promptErr maps a survey interrupt to context cancellation.
func promptErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return context.Canceled
	}
	return err
}
