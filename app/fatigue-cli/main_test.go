package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"adFatigue/business/fatigue"
	"adFatigue/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFormatCommand(t *testing.T) {
	out, err := run(t, `{"frequency":2.6,"days_active":8,"format":"reels"}`, "format")
	require.NoError(t, err)

	var res domain.FormatFatigue
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 0.0, res.Score)
}

func TestFormatCommand_InvalidFormat(t *testing.T) {
	_, err := run(t, `{"frequency":1,"days_active":1,"format":"banner"}`, "format")
	assert.ErrorIs(t, err, fatigue.ErrInvalidFormat)
}

func TestInstagramCommand_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ig.json")
	body := `{"impressions":10000,"saves":250,"profile_visits":500,"follows":30,"shares":60}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	out, err := run(t, "", "instagram", "--input", path)
	require.NoError(t, err)

	var res domain.InstagramValueScore
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 54.0, res.TotalValueScore)
}

func TestBlendCommand_WithConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "scoring.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("status:\n  warning_from: 45\n"), 0o600))

	out, err := run(t, `{"base":{"creative":40,"audience":50,"algorithm":50}}`, "blend", "-c", cfgPath)
	require.NoError(t, err)

	var res domain.FatigueScore
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 47, res.Total)
	assert.Equal(t, domain.StatusWarning, res.Status)
}

func TestFirstTimeCommand(t *testing.T) {
	out, err := run(t, `{"snapshots":[{"date_start":"2026-03-01T00:00:00Z","reach":100,"impressions":200}]}`, "first-time")
	require.NoError(t, err)

	var res domain.FirstTimeRatioEstimate
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1.0, res.Ratio)
	assert.Equal(t, domain.ConfidenceLow, res.Confidence)
}

func TestCommand_BadInput(t *testing.T) {
	_, err := run(t, `{not json`, "instagram")
	assert.Error(t, err)

	_, err = run(t, "", "format", "--input", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	out, err := run(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "Formats")
}
