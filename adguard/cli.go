package adguard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"

	"github.com/yllada/adguardvpn-desktop/common"
)

// Runner executes a command and returns its combined output.
// env is appended to the current process environment.
type Runner func(ctx context.Context, env []string, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	return cmd.CombinedOutput()
}

// Cli drives the adguardvpn-cli executable.
// It is safe for concurrent use.
type Cli struct {
	mu             sync.RWMutex
	bin            string
	askPass        string
	run            Runner
	onStatusChange func(Status)

	locations []Location
	status    *Status
}

// NewCli creates a client for the given executable. A nil runner uses ExecRunner.
func NewCli(bin string, run Runner) *Cli {
	if run == nil {
		run = ExecRunner
	}
	return &Cli{bin: bin, run: run}
}

// Bin returns the executable currently in use.
func (c *Cli) Bin() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bin
}

// SetBin switches to another executable. Cached locations are dropped
// because they belong to the previous binary's account.
func (c *Cli) SetBin(bin string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bin = bin
	c.locations = nil
}

// SetAskPass exports SUDO_ASKPASS=program for every command, so that sudo
// prompts raised by the CLI (TUN mode) can be answered without a terminal.
func (c *Cli) SetAskPass(program string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.askPass = program
}

// SetOnStatusChange sets the callback invoked with every fresh status,
// including the interim "connecting" status pushed by Connect.
func (c *Cli) SetOnStatusChange(callback func(Status)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStatusChange = callback
}

func (c *Cli) exec(ctx context.Context, args ...string) (string, error) {
	c.mu.RLock()
	bin, askPass, run := c.bin, c.askPass, c.run
	c.mu.RUnlock()

	var env []string
	if askPass != "" {
		env = append(env, "SUDO_ASKPASS="+askPass)
	}

	common.LogDebug("adguard: %s %s", bin, strings.Join(args, " "))
	out, err := run(ctx, env, bin, args...)
	output := ansi.Strip(string(out))

	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return output, fmt.Errorf("%w: %s", common.ErrCLINotFound, bin)
		}
		if msg := strings.TrimSpace(output); msg != "" {
			return output, fmt.Errorf("%w: %s: %v", common.ErrCLIFailed, msg, err)
		}
		return output, fmt.Errorf("%w: %v", common.ErrCLIFailed, err)
	}
	return output, nil
}

func (c *Cli) emit(status *Status) {
	c.mu.RLock()
	callback := c.onStatusChange
	c.mu.RUnlock()
	if callback != nil && status != nil {
		callback(*status.Clone())
	}
}

// Version returns the output of `adguardvpn-cli --version`.
func (c *Cli) Version(ctx context.Context) (string, error) {
	out, err := c.exec(ctx, "--version")
	return strings.TrimSpace(out), err
}

// RefreshStatus fetches the status and reports it to the status callback.
func (c *Cli) RefreshStatus(ctx context.Context) (*Status, error) {
	out, err := c.exec(ctx, "status")
	if err != nil {
		return nil, err
	}

	status := parseStatus(out, func(city string) *Location {
		return c.lookupCity(ctx, city)
	})

	c.mu.Lock()
	c.status = status
	c.mu.Unlock()

	c.emit(status)
	return status.Clone(), nil
}

// lookupCity resolves a city name reported by `status` against the catalog.
func (c *Cli) lookupCity(ctx context.Context, city string) *Location {
	locations, err := c.Locations(ctx)
	if err != nil {
		common.LogDebug("adguard: location lookup for %q failed: %v", city, err)
		return nil
	}
	key := common.NormalizeCity(city)
	for _, location := range locations {
		if common.NormalizeCity(location.City) == key {
			return &location
		}
	}
	return nil
}

// Locations returns the cached catalog, fetching it on first use.
func (c *Cli) Locations(ctx context.Context) ([]Location, error) {
	c.mu.RLock()
	cached := c.locations
	c.mu.RUnlock()
	if cached != nil {
		return append([]Location(nil), cached...), nil
	}
	return c.RefreshLocations(ctx)
}

// RefreshLocations fetches the catalog with `list-locations`.
func (c *Cli) RefreshLocations(ctx context.Context) ([]Location, error) {
	out, err := c.exec(ctx, "list-locations")
	if err != nil {
		return nil, err
	}

	locations := parseLocations(out)

	c.mu.Lock()
	c.locations = locations
	c.mu.Unlock()

	return append([]Location(nil), locations...), nil
}

// Account returns the logged-in account, or nil when nobody is logged in.
func (c *Cli) Account(ctx context.Context) (*Account, error) {
	out, err := c.exec(ctx, "license")
	if err != nil {
		if needsLogin(out) || strings.Contains(err.Error(), logInMessage) {
			return nil, nil
		}
		return nil, err
	}
	return parseAccount(out), nil
}

// Connect connects to city, or to the fastest location when city is empty.
// An interim status with Connecting set is reported before the CLI runs.
func (c *Cli) Connect(ctx context.Context, city string) error {
	c.mu.RLock()
	interim := c.status.Clone()
	c.mu.RUnlock()
	if interim == nil {
		interim = &Status{}
	}
	interim.Connecting = true
	c.emit(interim)

	args := []string{"connect", "--yes"}
	if city != "" {
		args = append(args, "--location", city)
	}

	_, err := c.exec(ctx, args...)
	c.settle(ctx)
	return err
}

// Disconnect tears the tunnel down.
func (c *Cli) Disconnect(ctx context.Context) error {
	_, err := c.exec(ctx, "disconnect")
	c.settle(ctx)
	return err
}

// settle refreshes the status after connect/disconnect. If the refresh itself
// fails, the last known status is re-reported so listeners leave the
// interim "connecting" state.
func (c *Cli) settle(ctx context.Context) {
	if _, err := c.RefreshStatus(ctx); err != nil {
		common.LogWarn("adguard: status refresh failed: %v", err)
		c.mu.RLock()
		last := c.status.Clone()
		c.mu.RUnlock()
		if last == nil {
			last = &Status{}
		}
		c.emit(last)
	}
}

// ExclusionMode returns the current site exclusion mode.
func (c *Cli) ExclusionMode(ctx context.Context) (ExclusionMode, error) {
	out, err := c.exec(ctx, "site-exclusions", "mode")
	if err != nil {
		return "", err
	}
	return parseExclusionMode(out)
}

// SetExclusionMode switches the site exclusion mode.
func (c *Cli) SetExclusionMode(ctx context.Context, mode ExclusionMode) error {
	if _, err := ParseExclusionMode(string(mode)); err != nil {
		return err
	}
	_, err := c.exec(ctx, "site-exclusions", "mode", string(mode))
	return err
}

// Exclusions lists the exclusions of the current mode.
func (c *Cli) Exclusions(ctx context.Context) ([]string, error) {
	out, err := c.exec(ctx, "site-exclusions", "show")
	if err != nil {
		return nil, err
	}
	return parseExclusions(out), nil
}

// AddExclusions adds domains or addresses to the exclusion list.
func (c *Cli) AddExclusions(ctx context.Context, exclusions []string) error {
	exclusions = common.CompactStrings(exclusions)
	if len(exclusions) == 0 {
		return common.ErrEmptyExclusion
	}
	args := append([]string{"site-exclusions", "add"}, exclusions...)
	_, err := c.exec(ctx, args...)
	return err
}

// RemoveExclusion removes one entry from the exclusion list.
func (c *Cli) RemoveExclusion(ctx context.Context, exclusion string) error {
	exclusion = strings.TrimSpace(exclusion)
	if exclusion == "" {
		return common.ErrEmptyExclusion
	}
	_, err := c.exec(ctx, "site-exclusions", "remove", exclusion)
	return err
}
