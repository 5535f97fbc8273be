package signedcookie

import (
	"net/http"
	"time"
)

// envelope is the signed cookie payload. Exp duplicates the cookie Max-Age on
// the server side so a replayed cookie stops verifying once its TTL is over.
type envelope struct {
	Value string `json:"v"`
	Exp   int64  `json:"exp"`
}

// Seal signs value for the cookie called name with an expiry of exp.
func Seal(key Key, name, value string, exp time.Time) (string, error) {
	return Encode(key, name, envelope{Value: value, Exp: exp.Unix()})
}

// Open verifies a sealed cookie value and returns the value it carries.
// A valid signature past its expiry yields ErrExpired.
func Open(key Key, name, sealed string, now time.Time) (string, error) {
	env, err := Decode[envelope](key, name, sealed)
	if err != nil {
		return "", err
	}
	if now.Unix() > env.Exp {
		return "", ErrExpired
	}
	return env.Value, nil
}

// Store exposes the cookie jar of a single request as set/pop operations on
// signed values. It is not safe for concurrent use, as it is bound to one
// request.
type Store struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
	path   string
	now    func() time.Time
	popped map[string]struct{}
	paths  map[string]string
}

// Option configures a Store.
type Option func(*Store)

// WithSecure sets the Secure attribute of written cookies. Defaults to true.
func WithSecure(secure bool) Option {
	return func(s *Store) { s.secure = secure }
}

// WithPath sets the default cookie path, used by Set when no path is given
// and by PopVerified and Remove to delete cookies.
func WithPath(path string) Option {
	return func(s *Store) {
		if path != "" {
			s.path = path
		}
	}
}

// WithClock overrides the time source used to stamp and check expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore binds a store to the given response writer and request.
func NewStore(w http.ResponseWriter, r *http.Request, opts ...Option) *Store {
	s := &Store{
		w:      w,
		r:      r,
		secure: true,
		path:   "/",
		now:    time.Now,
		popped: make(map[string]struct{}),
		paths:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set writes a cookie called name whose value is the signed envelope of value.
// An empty path falls back to the store path. Later deletes of name through
// this store use the same path.
func (s *Store) Set(name, value string, key Key, ttl time.Duration, path string) error {
	if path == "" {
		path = s.path
	}

	enc, err := Seal(key, name, value, s.now().Add(ttl))
	if err != nil {
		return err
	}
	s.paths[name] = path

	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    enc,
		Path:     path,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// PopVerified returns the value stored in the cookie called name if its
// signature verifies against key and it has not expired. On success the
// cookie is deleted from the response, and later calls within the same
// request return false.
func (s *Store) PopVerified(name string, key Key) (string, bool) {
	if _, done := s.popped[name]; done {
		return "", false
	}

	value, ok := s.lookup(name, key)
	if !ok {
		return "", false
	}

	s.popped[name] = struct{}{}
	s.expire(name)
	return value, true
}

// Remove deletes the cookie called name from the client without reading it.
func (s *Store) Remove(name string) {
	s.popped[name] = struct{}{}
	s.expire(name)
}

// lookup checks every cookie sent under name; browsers may send several when
// paths overlap, and only one of them needs to verify.
func (s *Store) lookup(name string, key Key) (string, bool) {
	for _, c := range s.r.Cookies() {
		if c.Name != name {
			continue
		}
		if value, err := Open(key, name, c.Value, s.now()); err == nil {
			return value, true
		}
	}
	return "", false
}

func (s *Store) expire(name string) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     s.pathOf(name),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// pathOf is the path name was written with by this store, or the store path.
// A cookie set in an earlier request is deleted on the store path, so it must
// match the path the cookie was set on.
func (s *Store) pathOf(name string) string {
	if p, ok := s.paths[name]; ok {
		return p
	}
	return s.path
}
