package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/s0up4200/dsctl/console"
	"github.com/s0up4200/dsctl/filter"
	"github.com/s0up4200/dsctl/synology"
)

// cleanupTimeout bounds the calls that must still run after the command's
// context is cancelled: search cleanup and logout.
const cleanupTimeout = 10 * time.Second

// discover resolves the named APIs through SYNO.API.Info.
func discover(ctx context.Context, p *console.Printer, names ...string) (map[string]synology.APIInfo, error) {
	found, err := client.QueryAPIInfo(ctx, names...)
	if err != nil {
		p.Failure("Failed to get API info: %s", describe(err))
		return nil, fmt.Errorf("failed to get API info: %w", err)
	}
	return found, nil
}

// printAPIs lists the client's discovered APIs with their path and version range.
func printAPIs(p *console.Printer) {
	for _, name := range client.APINames() {
		info, ok := client.API(name)
		if !ok {
			continue
		}
		p.Detail("- %s: %s (v%d-%d)", name, info.Path, info.MinVersion, info.MaxVersion)
	}
}

// login opens a session with the configured credentials.
func login(ctx context.Context, p *console.Printer) (*synology.Session, error) {
	return loginVersion(ctx, p, 0)
}

// loginVersion is login with an explicit auth version; 0 means the client default.
func loginVersion(ctx context.Context, p *console.Printer, version int) (*synology.Session, error) {
	var (
		session *synology.Session
		err     error
	)
	if version > 0 {
		session, err = client.LoginWithVersion(ctx, version, cfg.Synology.Username, cfg.Synology.Password)
	} else {
		session, err = client.Login(ctx, cfg.Synology.Username, cfg.Synology.Password)
	}
	if err != nil {
		p.Failure("Login failed: %s", describe(err))
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return session, nil
}

// logout ends the session. It runs on a fresh context so an interrupted
// command still releases its sid.
func logout(ctx context.Context, p *console.Printer, session *synology.Session) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	p.Blank()
	p.Line("Logging out...")
	if err := session.Logout(ctx); err != nil {
		logger.Warn().Err(err).Msg("Logout failed")
		p.Failure("Logout failed: %s", describe(err))
		return
	}
	p.Success("Logged out successfully")
}

// openSession resolves apis, logs in and returns a function that logs out.
// It prints nothing on success; failures are returned.
func openSession(ctx context.Context, apis ...string) (*synology.Session, func(), error) {
	quiet := console.New(io.Discard, false)

	if _, err := discover(ctx, quiet, append([]string{synology.APIAuth}, apis...)...); err != nil {
		return nil, nil, err
	}
	for _, name := range apis {
		if !client.HasAPI(name) {
			return nil, nil, fmt.Errorf("%w: %s", synology.ErrAPINotAvailable, name)
		}
	}

	session, err := login(ctx, quiet)
	if err != nil {
		return nil, nil, err
	}
	return session, func() { logout(ctx, quiet, session) }, nil
}

// describe renders err for a ✗ line, using the documented message for API errors.
func describe(err error) string {
	var apiErr *synology.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// sidPrefix shows the start of a session id.
func sidPrefix(sid string) string {
	return console.Truncate(sid, 10) + "..."
}

// compileFilter compiles a --filter value, which may name a configured filter.
// An empty value yields a nil filter that matches everything.
func compileFilter(value string) (*filter.Filter, error) {
	if value == "" {
		return nil, nil
	}
	f, err := filter.Compile(cfg.ResolveFilter(value))
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return f, nil
}
