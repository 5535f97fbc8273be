package gateway

import (
	"errors"
	"strings"

	"github.com/dmitrymomot/oauthgate/pkg/environment"
)

// Config holds the HTTP surface settings.
type Config struct {
	Env             environment.Environment `env:"APP_ENV" envDefault:"development"`
	RoutePrefix     string                  `env:"ROUTE_PREFIX"`
	CookieSecure    bool                    `env:"COOKIE_SECURE" envDefault:"true"`
	TrustProxy      bool                    `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
	MetricsEnabled  bool                    `env:"METRICS_ENABLED" envDefault:"true"`
	SuccessRedirect string                  `env:"OAUTH_SUCCESS_REDIRECT" envDefault:"/"`
	ErrorRedirect   string                  `env:"OAUTH_ERROR_REDIRECT" envDefault:"/error"`
}

var ErrInsecureCookies = errors.New("COOKIE_SECURE=false is not allowed in production")

func (c Config) Validate() error {
	var errs []error
	if c.Env.IsProduction() && !c.CookieSecure {
		errs = append(errs, ErrInsecureCookies)
	}
	if c.RoutePrefix != "" && (!strings.HasPrefix(c.RoutePrefix, "/") || strings.HasSuffix(c.RoutePrefix, "/")) {
		errs = append(errs, errors.New("ROUTE_PREFIX must start with / and must not end with /"))
	}
	for _, p := range []string{c.SuccessRedirect, c.ErrorRedirect} {
		// Only same-site paths; "//host" would be an open redirect.
		if p != "" && (!strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//")) {
			errs = append(errs, errors.New("redirect targets must be absolute paths on this site"))
			break
		}
	}
	return errors.Join(errs...)
}
