package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "Test1 OK",
			args: []string{"-a", "http://127.0.0.1:9090/api/v1", "-d", "/tmp/x.db", "-i", "10", "-l", "debug"},
			expected: &Config{
				ServerBaseURL:       "http://127.0.0.1:9090/api/v1",
				StorePath:           "/tmp/x.db",
				OnlineCheckInterval: 10 * time.Second,
				LogLevel:            "debug",
			},
		},
		{name: "Test2 incorrect check interval", args: []string{"-i", "abc"}, wantErr: true},
		{name: "Test3 zero check interval", args: []string{"-i", "0"}, wantErr: true},
		{
			name:     "Test4 foreign flags ignored",
			args:     []string{"-c", "conf.json", "-x", "1", "-i", "7"},
			expected: &Config{OnlineCheckInterval: 7 * time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
