package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5, cfg.Report.OutlierCount)
	assert.Equal(t, 20, cfg.Report.TOCEntriesPerPage)
	assert.Equal(t, 500*1024, cfg.Report.MaxChunkBytes)
	assert.Equal(t, 50*1024*1024, cfg.Report.MaxPayloadBytes)
	assert.Equal(t, 200, cfg.Report.MaxChunkCount)
	assert.False(t, cfg.Report.YieldBetweenStages)
	assert.Equal(t, "data/input", cfg.Paths.InputDir)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero outlier count rejected",
			mutate:  func(c *Config) { c.Report.OutlierCount = 0 },
			wantErr: true,
		},
		{
			name:    "zero TOC density rejected",
			mutate:  func(c *Config) { c.Report.TOCEntriesPerPage = 0 },
			wantErr: true,
		},
		{
			name:    "negative chunk ceiling rejected",
			mutate:  func(c *Config) { c.Report.MaxChunkBytes = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HSC_REPORT_OUTLIER_COUNT", "3")
	t.Setenv("HSC_PATHS_INPUT_DIR", "testdata/in")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Report.OutlierCount)
	assert.Equal(t, "testdata/in", cfg.Paths.InputDir)
	// untouched fields keep their defaults
	assert.Equal(t, 20, cfg.Report.TOCEntriesPerPage)
}

func TestLogPath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "logs/hscreport.log", cfg.LogPath())

	cfg.Logging.FilePath = "/var/log/hscreport.log"
	assert.Equal(t, "/var/log/hscreport.log", cfg.LogPath())
}
