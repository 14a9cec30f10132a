// Package printer discovers CUPS printers and submits print jobs.
package printer

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/label-service/internal/domain/model"
)

var commandContext = exec.CommandContext

var (
	// ErrUnavailable is returned when the print server cannot be queried.
	ErrUnavailable = errors.New("print server unavailable")
	// ErrJobFailed is returned when a print job is refused.
	ErrJobFailed = errors.New("print job failed")
)

// Option configures the CUPS client.
type Option func(*CUPS)

// WithLpstat overrides the lpstat binary.
func WithLpstat(binary string) Option {
	return func(c *CUPS) {
		if binary != "" {
			c.lpstat = binary
		}
	}
}

// WithLpr overrides the lpr binary.
func WithLpr(binary string) Option {
	return func(c *CUPS) {
		if binary != "" {
			c.lpr = binary
		}
	}
}

// WithTimeout bounds each command invocation.
func WithTimeout(d time.Duration) Option {
	return func(c *CUPS) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// CUPS wraps the lpstat and lpr command-line tools.
type CUPS struct {
	lpstat  string
	lpr     string
	timeout time.Duration
}

// NewCUPS constructs a CUPS client using defaults.
func NewCUPS(opts ...Option) *CUPS {
	c := &CUPS{lpstat: "lpstat", lpr: "lpr", timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListPrinters returns the configured printers and the system default.
func (c *CUPS) ListPrinters(ctx context.Context) (model.PrinterList, error) {
	out, err := c.run(ctx, c.lpstat, "-p")
	if err != nil {
		if strings.Contains(err.Error(), "No destinations added") {
			return model.PrinterList{Printers: []string{}}, nil
		}
		return model.PrinterList{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	list := model.PrinterList{Printers: parsePrinters(out)}

	def, err := c.run(ctx, c.lpstat, "-d")
	if err != nil {
		log.Debug().Err(err).Msg("No default printer reported")
		return list, nil
	}
	list.Default = parseDefault(def)
	return list, nil
}

// Print submits the file at path. An empty printer uses the system default.
func (c *CUPS) Print(ctx context.Context, path, printer string) error {
	args := make([]string, 0, 3)
	if printer != "" {
		args = append(args, "-P", printer)
	}
	args = append(args, path)

	if _, err := c.run(ctx, c.lpr, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrJobFailed, err)
	}
	return nil
}

func (c *CUPS) run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := commandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s %s: %s", binary, strings.Join(args, " "), msg)
		}
		return nil, fmt.Errorf("%s %s: %w", binary, strings.Join(args, " "), err)
	}
	return stdout.Bytes(), nil
}

// parsePrinters reads lpstat -p output, e.g. "printer Zebra is idle.  enabled since ...".
func parsePrinters(out []byte) []string {
	printers := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == "printer" {
			printers = append(printers, fields[1])
		}
	}
	return printers
}

// parseDefault reads lpstat -d output, e.g. "system default destination: Zebra".
func parseDefault(out []byte) string {
	line := strings.TrimSpace(string(out))
	if strings.HasPrefix(line, "no system default") {
		return ""
	}
	if i := strings.LastIndex(line, ":"); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return ""
}
