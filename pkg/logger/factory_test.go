package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthgate/pkg/environment"
	"github.com/dmitrymomot/oauthgate/pkg/logger"
)

func decode(t *testing.T, line []byte) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(line, &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults to JSON at INFO", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))

		log.Debug("hidden")
		log.Info("visible", slog.String("k", "v"))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)

		entry := decode(t, []byte(lines[0]))
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "visible", entry["msg"])
		assert.Equal(t, "v", entry["k"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")

		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			logger.New(logger.WithFormat(logger.Format("xml")))
		})
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(logger.Component("test")))
		log.Info("x")

		assert.Equal(t, "test", decode(t, buf.Bytes())["component"])
	})

	t.Run("context extractors", func(t *testing.T) {
		t.Parallel()

		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
				v, ok := ctx.Value(key{}).(string)
				return logger.RequestID(v), ok
			}),
		)

		ctx := context.WithValue(context.Background(), key{}, "req-1")
		log.With(logger.Provider("42")).InfoContext(ctx, "with id")

		entry := decode(t, buf.Bytes())
		assert.Equal(t, "req-1", entry["request_id"])
		assert.Equal(t, "42", entry["provider"])

		buf.Reset()
		log.InfoContext(context.Background(), "without id")
		assert.NotContains(t, decode(t, buf.Bytes()), "request_id")
	})

	t.Run("file sink always gets JSON", func(t *testing.T) {
		t.Parallel()

		out := &bytes.Buffer{}
		file := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(out),
			logger.WithFormat(logger.FormatText),
			logger.WithFile(file),
			logger.WithAttr(logger.Component("gw")),
		)
		log.Warn("both", logger.Reason("csrf_missing"))

		assert.Contains(t, out.String(), "msg=both")
		assert.Contains(t, out.String(), "component=gw")

		entry := decode(t, file.Bytes())
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "csrf_missing", entry["reason"])
		assert.Equal(t, "gw", entry["component"])
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		env       environment.Environment
		wantDebug bool
		wantJSON  bool
	}{
		{name: "development", env: environment.Development, wantDebug: true},
		{name: "empty falls back to development", env: "", wantDebug: true},
		{name: "staging", env: environment.Staging, wantJSON: true},
		{name: "production", env: environment.Production, wantJSON: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			log := logger.New(logger.WithOutput(buf), logger.WithEnvironment(tt.env, "oauthgate"))
			log.Debug("dbg")

			if !tt.wantDebug {
				assert.Empty(t, buf.String())
				log.Info("info")
			}
			if tt.wantJSON {
				entry := decode(t, buf.Bytes())
				assert.Equal(t, "oauthgate", entry["service"])
				assert.Equal(t, string(tt.env), entry["env"])
			} else {
				assert.Contains(t, buf.String(), "service=oauthgate")
				assert.Contains(t, buf.String(), "env=development")
			}
		})
	}
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	log := logger.Discard()
	ctx := logger.WithContext(context.Background(), log)
	assert.Same(t, log, logger.FromContext(ctx))
	assert.NotNil(t, logger.FromContext(context.Background()))
}
