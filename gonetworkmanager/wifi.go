// wifiapplet/gonetworkmanager/wifi.go
package gonetworkmanager

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// --- Constants for nmcli arguments ---
const (
	DefaultBinary = "nmcli"

	NmcliFieldWifiRadio    = "WIFI"
	NmcliFieldWifiInUse    = "IN-USE"
	NmcliFieldWifiSSID     = "SSID"
	NmcliFieldWifiSecurity = "SECURITY"
	NmcliFieldWifiSignal   = "SIGNAL"

	radioEnabled = "enabled"
	rescanFlag   = "--rescan"
	rescanMode   = "auto"
	rescanHint   = "rescan"
	scanKey      = "scan"
)

func radioStateArgs() []string {
	return []string{"-t", "-f", NmcliFieldWifiRadio, "general"}
}

func setRadioArgs(enable bool) []string {
	state := "off"
	if enable {
		state = "on"
	}
	return []string{"radio", "wifi", state}
}

func scanArgs(rescan bool) []string {
	fields := strings.Join([]string{NmcliFieldWifiInUse, NmcliFieldWifiSSID, NmcliFieldWifiSecurity, NmcliFieldWifiSignal}, ",")
	args := []string{"-t", "-f", fields, "device", "wifi", "list"}
	if rescan {
		args = append(args, rescanFlag, rescanMode)
	}
	return args
}

// --- Client ---

// Result carries the outcome of an asynchronous call.
type Result[T any] struct {
	Value T
	Err   error
}

// Client queries and controls the Wi-Fi radio through nmcli. Each call spawns
// fresh processes and keeps nothing between calls; the zero value is not usable,
// construct one with New.
type Client struct {
	runner Runner
	binary string
	log    zerolog.Logger
	scans  singleflight.Group
}

type Option func(*Client)

// WithRunner replaces the process runner, mainly for tests.
func WithRunner(r Runner) Option { return func(c *Client) { c.runner = r } }

// WithBinary sets the nmcli executable name or path.
func WithBinary(binary string) Option { return func(c *Client) { c.binary = binary } }

func WithLogger(log zerolog.Logger) Option { return func(c *Client) { c.log = log } }

func New(opts ...Option) *Client {
	c := &Client{binary: DefaultBinary, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.runner == nil {
		c.runner = NewExecRunner(c.log)
	}
	return c
}

func (c *Client) run(ctx context.Context, args []string) (string, error) {
	return Run(ctx, c.runner, c.binary, args)
}

// WifiEnabled reports whether the Wi-Fi radio is switched on. Failures are
// returned as-is; deciding on a fallback is up to the caller.
func (c *Client) WifiEnabled(ctx context.Context) (bool, error) {
	out, err := c.run(ctx, radioStateArgs())
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(out), radioEnabled), nil
}

// SetWifiEnabled switches the Wi-Fi radio on or off.
func (c *Client) SetWifiEnabled(ctx context.Context, enable bool) error {
	_, err := c.run(ctx, setRadioArgs(enable))
	return err
}

// ScanAccessPoints lists nearby networks, asking nmcli for a fresh scan.
// Versions of nmcli that reject --rescan are retried once without it.
// Concurrent calls on one Client share a single nmcli process. The shared
// process runs under the context of whichever caller started it; if that
// context ends, callers whose own context is still live start another scan.
func (c *Client) ScanAccessPoints(ctx context.Context) ([]AccessPoint, error) {
	for {
		ch := c.scans.DoChan(scanKey, func() (any, error) {
			return c.scan(ctx)
		})

		select {
		case res := <-ch:
			if res.Err == nil {
				return slices.Clone(res.Val.([]AccessPoint)), nil
			}
			if isContextError(res.Err) && ctx.Err() == nil {
				c.log.Debug().Err(res.Err).Msg("shared scan was cancelled by another caller, scanning again")
				continue
			}
			return nil, res.Err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) scan(ctx context.Context) ([]AccessPoint, error) {
	out, err := c.run(ctx, scanArgs(true))
	if err != nil {
		if !rescanUnsupported(err) {
			return nil, err
		}
		c.log.Debug().Err(err).Msg("nmcli rejected the rescan option, listing cached results")
		if out, err = c.run(ctx, scanArgs(false)); err != nil {
			return nil, err
		}
	}

	aps := ParseAccessPoints(out)
	c.log.Debug().Int("count", len(aps)).Msg("scan finished")
	return aps, nil
}

// rescanUnsupported matches the failure older nmcli releases give for an
// unknown --rescan argument.
func rescanUnsupported(err error) bool {
	var cmdErr *CommandError
	return errors.As(err, &cmdErr) && strings.Contains(cmdErr.Error(), rescanHint)
}

// --- Asynchronous variants ---
//
// Each returns a channel that receives exactly one value and is then closed.

func (c *Client) WifiEnabledAsync(ctx context.Context) <-chan Result[bool] {
	return async(func() (bool, error) { return c.WifiEnabled(ctx) })
}

func (c *Client) SetWifiEnabledAsync(ctx context.Context, enable bool) <-chan error {
	return asyncErr(func() error { return c.SetWifiEnabled(ctx, enable) })
}

func (c *Client) ScanAccessPointsAsync(ctx context.Context) <-chan Result[[]AccessPoint] {
	return async(func() ([]AccessPoint, error) { return c.ScanAccessPoints(ctx) })
}

func async[T any](fn func() (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		defer close(out)
		v, err := fn()
		out <- Result[T]{Value: v, Err: err}
	}()
	return out
}

func asyncErr(fn func() error) <-chan error {
	out := make(chan error, 1)
	go func() {
		defer close(out)
		out <- fn()
	}()
	return out
}
