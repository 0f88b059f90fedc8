package cmd

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/xrsl/cvlift/pkg/apidoc"
	"github.com/xrsl/cvlift/pkg/cache"
	"github.com/xrsl/cvlift/pkg/config"
	"github.com/xrsl/cvlift/pkg/style"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check cvlift setup",
	Long:  `Verify configuration, the listen address, the backend endpoint and the run history directory.`,
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Checking cvlift setup\n\n", style.Arrow())

	allGood := true
	fail := func(format string, a ...any) {
		fmt.Fprintf(out, "%s %s\n", style.Cross(), fmt.Sprintf(format, a...))
		allGood = false
	}
	pass := func(format string, a ...any) {
		fmt.Fprintf(out, "%s %s\n", style.Check(), fmt.Sprintf(format, a...))
	}

	// Check 1: configuration loads and validates
	cfg, err := config.Load()
	if err != nil {
		fail("configuration invalid: %v", err)
		fmt.Fprintf(out, "  File: %s\n", config.Path())
		return fmt.Errorf("setup issues detected")
	}
	pass("configuration valid %s", style.Dim("("+config.Path()+")"))

	// Check 2: listen address is free
	if ln, err := net.Listen("tcp", cfg.Server.Addr()); err != nil {
		fail("cannot listen on %s: %v", cfg.Server.Addr(), err)
		fmt.Fprintf(out, "  Fix: cvlift config set server.port <port>\n")
	} else {
		ln.Close()
		pass("%s available", cfg.Server.Addr())
	}

	// Check 3: API document builds
	if _, err := apidoc.Load(cmd.Context(), Version); err != nil {
		fail("API document invalid: %v", err)
	} else {
		pass("API document valid")
	}

	// Check 4: run history is writable
	dir := cache.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fail("run history not writable: %v", err)
	} else if f, err := os.CreateTemp(dir, ".doctor-*"); err != nil {
		fail("run history not writable: %v", err)
	} else {
		f.Close()
		os.Remove(f.Name())
		pass("run history writable %s", style.Dim("("+dir+")"))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s Checking backend\n\n", style.Arrow())

	if !cfg.Backend.Enabled() {
		fmt.Fprintf(out, "%s backend.endpoint not set (workflow runs simulated)\n", style.Warn())
	} else if _, err := newEnhancer(cfg.Backend); err != nil {
		fail("backend: %v", err)
	} else {
		pass("backend endpoint %s", cfg.Backend.Endpoint)
		if cfg.Backend.Token == "" {
			fmt.Fprintf(out, "%s backend.token not set (requests are sent without authorization)\n", style.Warn())
		}
		if cfg.Backend.MaxRetries == 0 {
			fmt.Fprintf(out, "%s backend.max_retries is 0 (failed requests are not retried)\n", style.Dim("○"))
		}
	}

	fmt.Fprintln(out)

	if !allGood {
		return fmt.Errorf("setup issues detected")
	}
	fmt.Fprintf(out, "%s Setup OK\n", style.Check())
	return nil
}
