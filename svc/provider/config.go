package provider

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrymomot/oauthgate/pkg/signedcookie"
)

// AuthStyle selects how client credentials reach the token endpoint.
type AuthStyle string

const (
	// AuthStyleHeader sends HTTP Basic credentials.
	AuthStyleHeader AuthStyle = "header"
	// AuthStyleParams sends client_id and client_secret in the form body.
	AuthStyleParams AuthStyle = "params"
)

var nameRe = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

// Config describes the OAuth2 client registration with the identity
// provider. It is loaded once at startup and never mutated.
//
// CookiePath scopes the CSRF cookie. When empty it is the directory of the
// redirect URL path, e.g. /api/auth/42/ for /api/auth/42/callback.
type Config struct {
	Name                  string        `env:"OAUTH_42_NAME" envDefault:"42"`
	ClientID              string        `env:"OAUTH_42_CLIENT_ID,required"`
	ClientSecret          string        `env:"OAUTH_42_CLIENT_SECRET,required"`
	AuthURL               string        `env:"OAUTH_42_AUTH_URL,required"`
	TokenURL              string        `env:"OAUTH_42_TOKEN_URL,required"`
	RedirectURL           string        `env:"OAUTH_42_REDIRECT_URL,required"`
	UserInfoURL           string        `env:"OAUTH_42_USERINFO_URL" envDefault:"https://api.intra.42.fr/v2/me"`
	StateCookieSigningKey string        `env:"OAUTH_42_STATE_COOKIE_SIGNING_KEY,required"`
	Scopes                []string      `env:"OAUTH_42_SCOPES" envSeparator:"," envDefault:"public"`
	StateTTL              time.Duration `env:"OAUTH_42_STATE_TTL" envDefault:"3m"`
	HTTPTimeout           time.Duration `env:"OAUTH_42_HTTP_TIMEOUT" envDefault:"10s"`
	AuthStyle             AuthStyle     `env:"OAUTH_42_AUTH_STYLE" envDefault:"header"`
	CookiePath            string        `env:"OAUTH_42_COOKIE_PATH"`
}

// Validate reports every problem at once as a *ConfigError.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !nameRe.MatchString(c.Name) {
		add("name %q must match %s", c.Name, nameRe)
	}
	if c.ClientID == "" {
		add("client id is required")
	}
	if c.ClientSecret == "" {
		add("client secret is required")
	}
	for _, u := range []struct{ field, value string }{
		{"auth url", c.AuthURL},
		{"token url", c.TokenURL},
		{"redirect url", c.RedirectURL},
		{"userinfo url", c.UserInfoURL},
	} {
		if err := checkAbsoluteURL(u.value); err != nil {
			add("%s: %v", u.field, err)
		}
	}
	if len(c.StateCookieSigningKey) < signedcookie.MinSecretSize {
		add("state cookie signing key must be at least %d bytes", signedcookie.MinSecretSize)
	}
	if c.StateTTL <= 0 {
		add("state ttl must be positive")
	}
	if c.HTTPTimeout <= 0 {
		add("http timeout must be positive")
	}
	switch c.AuthStyle {
	case AuthStyleHeader, AuthStyleParams, "":
	default:
		add("auth style %q must be %q or %q", c.AuthStyle, AuthStyleHeader, AuthStyleParams)
	}
	if c.CookiePath != "" {
		if !strings.HasPrefix(c.CookiePath, "/") {
			add("cookie path %q must start with /", c.CookiePath)
		} else if u, err := url.Parse(c.RedirectURL); err == nil && !strings.HasPrefix(u.Path, c.CookiePath) {
			add("cookie path %q does not cover the redirect path %q", c.CookiePath, u.Path)
		}
	}

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

func checkAbsoluteURL(raw string) error {
	if raw == "" {
		return errors.New("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("is not a valid URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q must be an absolute http(s) URL", raw)
	}
	return nil
}

// cookiePath resolves the effective CSRF cookie path.
func (c Config) cookiePath() string {
	if c.CookiePath != "" {
		return c.CookiePath
	}
	u, err := url.Parse(c.RedirectURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	dir := path.Dir(u.Path)
	if dir == "/" || dir == "." {
		return "/"
	}
	return dir + "/"
}

// LogValue keeps the client secret and signing key out of logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", c.Name),
		slog.String("client_id", c.ClientID),
		slog.String("client_secret", redacted(c.ClientSecret)),
		slog.String("auth_url", c.AuthURL),
		slog.String("token_url", c.TokenURL),
		slog.String("redirect_url", c.RedirectURL),
		slog.String("userinfo_url", c.UserInfoURL),
		slog.String("state_cookie_signing_key", redacted(c.StateCookieSigningKey)),
		slog.Any("scopes", c.Scopes),
		slog.Duration("state_ttl", c.StateTTL),
		slog.Duration("http_timeout", c.HTTPTimeout),
		slog.String("auth_style", string(c.AuthStyle)),
		slog.String("cookie_path", c.cookiePath()),
	)
}

func redacted(s string) string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}
