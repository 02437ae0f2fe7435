package middlewares

import (
	"log/slog"
	"net/http"

	"github.com/maxitsa/maxitsa/internal"
	"github.com/maxitsa/maxitsa/pkg/session"
)

// Redirect targets of the session gates.
const (
	DefaultLoginPath     = "/"
	DefaultInactivePath  = "/?error=compte_inactif"
	DefaultDashboardPath = "/dashboard-client"
)

// GateOption configures Auth and Guest.
type GateOption func(*gateConfig)

type gateConfig struct {
	loginPath     string
	inactivePath  string
	dashboardPath string
}

func newGateConfig(opts []GateOption) *gateConfig {
	cfg := &gateConfig{
		loginPath:     DefaultLoginPath,
		inactivePath:  DefaultInactivePath,
		dashboardPath: DefaultDashboardPath,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLoginRedirect sets where Auth sends anonymous visitors.
func WithLoginRedirect(path string) GateOption {
	return func(cfg *gateConfig) {
		if path != "" {
			cfg.loginPath = path
		}
	}
}

// WithInactiveRedirect sets where Auth sends holders of an inactive account.
func WithInactiveRedirect(path string) GateOption {
	return func(cfg *gateConfig) {
		if path != "" {
			cfg.inactivePath = path
		}
	}
}

// WithDashboardRedirect sets where Guest sends signed-in users.
func WithDashboardRedirect(path string) GateOption {
	return func(cfg *gateConfig) {
		if path != "" {
			cfg.dashboardPath = path
		}
	}
}

// Auth lets through only requests whose session holds an active principal.
//
//   - no principal: redirect to the login path
//   - principal without an id, or unreadable: destroy the session, redirect to the login path
//   - account status other than ACTIF: destroy the session, redirect to the inactive path
func Auth(opts ...GateOption) internal.Middleware {
	cfg := newGateConfig(opts)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			gate, err := c.Session()
			if err != nil {
				return err
			}

			p, ok := gate.Principal()
			switch {
			case !ok && !gate.Has(session.PrincipalKey):
				return c.Redirect(http.StatusFound, cfg.loginPath)
			case !ok || !p.HasIdentity():
				c.LogWarn("session principal has no identity, session destroyed")
				gate.Destroy()
				return c.Redirect(http.StatusFound, cfg.loginPath)
			case !p.IsActive():
				c.LogWarn("inactive account, session destroyed",
					slog.String("user_id", p.ID),
					slog.String("account_status", p.AccountStatus),
				)
				gate.Destroy()
				return c.Redirect(http.StatusFound, cfg.inactivePath)
			}

			return next(c)
		}
	}
}

// Guest lets through only anonymous requests. Signed-in users are sent to
// the dashboard.
func Guest(opts ...GateOption) internal.Middleware {
	cfg := newGateConfig(opts)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			gate, err := c.Session()
			if err != nil {
				return err
			}
			if gate.IsAuthenticated() {
				return c.Redirect(http.StatusFound, cfg.dashboardPath)
			}
			return next(c)
		}
	}
}
