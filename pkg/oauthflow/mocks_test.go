package oauthflow_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/oauthgate/pkg/signedcookie"
	"github.com/dmitrymomot/oauthgate/svc/provider"
)

var testKey = mustKey("0123456789abcdef0123456789abcdef")

// mustKey derives a key from a fixed test secret.
func mustKey(secret string) signedcookie.Key {
	k, err := signedcookie.NewKey([]byte(secret))
	if err != nil {
		panic(err)
	}
	return k
}

// MockProvider is a mock implementation of oauthflow.Provider. The static
// accessors return fixed values; only network operations are mocked.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string                 { return "42" }
func (m *MockProvider) CookieName() string           { return "oauth_42_csrf_token" }
func (m *MockProvider) CookiePath() string           { return "/auth/42/" }
func (m *MockProvider) StateTTL() time.Duration      { return 3 * time.Minute }
func (m *MockProvider) SigningKey() signedcookie.Key { return testKey }

func (m *MockProvider) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockProvider) FetchIdentity(ctx context.Context, tok *oauth2.Token) (provider.Identity, error) {
	args := m.Called(ctx, tok)
	return args.Get(0).(provider.Identity), args.Error(1)
}

// MockSessionStore is a mock implementation of oauthflow.SessionStore.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Set(name, value string, key signedcookie.Key, ttl time.Duration, path string) error {
	args := m.Called(name, value, key, ttl, path)
	return args.Error(0)
}

func (m *MockSessionStore) PopVerified(name string, key signedcookie.Key) (string, bool) {
	args := m.Called(name, key)
	return args.String(0), args.Bool(1)
}

func (m *MockSessionStore) Remove(name string) {
	m.Called(name)
}

// MockRecorder is a mock implementation of oauthflow.Recorder.
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) LoginStarted(provider string) {
	m.Called(provider)
}

func (m *MockRecorder) CallbackCompleted(provider, outcome string) {
	m.Called(provider, outcome)
}
