package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthgate/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want environment.Environment
	}{
		{in: "development", want: environment.Development},
		{in: "dev", want: environment.Development},
		{in: "Staging", want: environment.Staging},
		{in: "stage", want: environment.Staging},
		{in: "PRODUCTION", want: environment.Production},
		{in: " prod ", want: environment.Production},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := environment.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		_, err := environment.Parse("qa")
		assert.ErrorIs(t, err, environment.ErrUnknown)

		_, err = environment.Parse("")
		assert.ErrorIs(t, err, environment.ErrUnknown)
	})
}

func TestUnmarshalText(t *testing.T) {
	t.Parallel()

	var env environment.Environment
	require.NoError(t, env.UnmarshalText([]byte("prod")))
	assert.True(t, env.IsProduction())
	assert.False(t, env.IsDevelopment())

	assert.Error(t, env.UnmarshalText([]byte("nope")))
	assert.Equal(t, environment.Production, env, "failed unmarshal must not change the value")
}
