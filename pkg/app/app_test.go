package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenlens/pkg/analysis"
	"tokenlens/pkg/cache"
	"tokenlens/pkg/config"
	"tokenlens/pkg/intake"
	"tokenlens/pkg/keywords"
)

func TestBuildDefaults(t *testing.T) {
	a, err := Build(config.Config{}, nil)
	require.NoError(t, err)

	assert.Nil(t, a.Recognizer)
	assert.Nil(t, a.Cache)
	assert.NoError(t, a.Close())
	assert.Equal(t, analysis.DefaultBankConfig(), a.Banks)

	out, err := a.Intake.Analyze(context.Background(), intake.Submission{ManualText: "to the moon"})
	require.NoError(t, err)
	assert.Equal(t, analysis.HypeMedium, out.Report.HypeLevel)
}

func TestBuildWithBankOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("positive:\n  - wagmi\n"), 0o600))

	a, err := Build(config.Config{
		BanksFile: path,
		Cache:     config.CacheConfig{TTL: time.Minute, MaxEntries: 4},
		OCR:       config.OCRConfig{Endpoint: "http://127.0.0.1:1/ocr", MaxFailures: 1, ResetTimeout: time.Minute},
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, a.Recognizer)

	assert.Equal(t, 58, a.Analyzer.Sentiment("WAGMI").Score)
	assert.Equal(t, 50, a.Analyzer.Sentiment("bullish").Score)

	first, err := a.Intake.Analyze(context.Background(), intake.Submission{ManualText: "wagmi"})
	require.NoError(t, err)
	second, err := a.Intake.Analyze(context.Background(), intake.Submission{ManualText: "wagmi"})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)

	require.NotNil(t, a.Cache)
	require.NoError(t, a.Close())
	assert.True(t, errors.Is(a.Cache.Ping(context.Background()), cache.ErrCacheClosed))
}

func TestBuildRejectsMalformedBanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("risk:\n  - \"\"\n"), 0o600))

	_, err := Build(config.Config{BanksFile: path}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, keywords.ErrMalformedBank) || errors.Is(err, analysis.ErrBankConfig))
}
