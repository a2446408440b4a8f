package main

import (
	"bytes"
	"testing"

	"github.com/aretw0/sectionkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, "sectionkit version "+sectionkit.Version+"\n", execute(t, "version"))
}

func TestReplayCommand(t *testing.T) {
	out := execute(t, "replay", "--plain", "--quiet", "--log-level", "off", "../../internal/script/testdata/reset.json")
	assert.Contains(t, out, "#1 reload")
	assert.Contains(t, out, "#3 reload")
	assert.Contains(t, out, "b-2")
}

func TestReplayCommand_RequiresScenario(t *testing.T) {
	rootCmd.SetArgs([]string{"replay"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	assert.Error(t, rootCmd.Execute())
}
