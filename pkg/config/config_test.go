package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/snapline/pkg/config"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	assert.False(t, cfg.Record)
	assert.Equal(t, "Matches", cfg.Label)
	assert.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("copies are independent", func(t *testing.T) {
		original := config.Default()
		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)

		clone.Record = true
		assert.False(t, original.Record)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*config.Config) {},
		},
		{
			name:   "empty label allowed",
			mutate: func(c *config.Config) { c.Label = "" },
		},
		{
			name:    "unexported label rejected",
			mutate:  func(c *config.Config) { c.Label = "matches" },
			wantErr: "exported Go identifier",
		},
		{
			name:    "non-identifier label rejected",
			mutate:  func(c *config.Config) { c.Label = "Bad Label" },
			wantErr: "exported Go identifier",
		},
		{
			name:    "keyword label rejected",
			mutate:  func(c *config.Config) { c.Label = "func" },
			wantErr: "exported Go identifier",
		},
		{
			name:    "unknown log level rejected",
			mutate:  func(c *config.Config) { c.LogLevel = "loud" },
			wantErr: "unknown log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	t.Run("full config", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.FromYAML([]byte("record: true\nlabel: Expect\nlog_level: debug\n"))
		require.NoError(t, err)
		assert.True(t, cfg.Record)
		assert.Equal(t, "Expect", cfg.Label)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("empty input yields defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.FromYAML(nil)
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("unknown keys rejected", func(t *testing.T) {
		t.Parallel()

		_, err := config.FromYAML([]byte("recrod: true\n"))
		require.Error(t, err)
	})

	t.Run("round trips through ToYAML", func(t *testing.T) {
		t.Parallel()

		original := config.Default()
		original.Record = true

		data, err := original.ToYAML()
		require.NoError(t, err)

		parsed, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})
}
