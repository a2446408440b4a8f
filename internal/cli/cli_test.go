package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/sectionkit/pkg/adapters/headless"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedScenario = "../script/testdata/feed.yaml"

func TestReplay_PlainOutput(t *testing.T) {
	var out bytes.Buffer
	err := Replay(context.Background(), ReplayOptions{
		Path:     feedScenario,
		LogLevel: "off",
		Plain:    true,
		Quiet:    true,
		Out:      &out,
	})
	require.NoError(t, err)

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "#1 animated\n  + section stories\n  + section feed\n"), text)
	assert.Contains(t, text, "#6 immediate")
	assert.Contains(t, text, "impression feed/feed-p2")
	assert.Contains(t, text, "home feed")
	assert.Contains(t, text, "feed-p4")
}

func TestReplay_JSONLines(t *testing.T) {
	var out bytes.Buffer
	err := Replay(context.Background(), ReplayOptions{Path: feedScenario, LogLevel: "off", JSON: true, Out: &out})
	require.NoError(t, err)

	lines := bufio.NewScanner(&out)
	var frames []headless.Frame
	var last string
	for lines.Scan() {
		last = lines.Text()
		var f headless.Frame
		if err := json.Unmarshal([]byte(last), &f); err == nil && f.Seq > 0 {
			frames = append(frames, f)
		}
	}
	require.Len(t, frames, 6)
	assert.Equal(t, "animated", frames[0].ModeName)

	var summary jsonSummary
	require.NoError(t, json.Unmarshal([]byte(last), &summary))
	assert.Equal(t, 6, summary.Completions)
	require.Len(t, summary.Impressions, 1)
	assert.Equal(t, "feed-p2", summary.Impressions[0].Item)
}

func TestReplay_RedisImpressions(t *testing.T) {
	mr := miniredis.RunT(t)
	opts := ReplayOptions{Path: feedScenario, LogLevel: "off", JSON: true, RedisAddr: mr.Addr()}

	var first bytes.Buffer
	opts.Out = &first
	require.NoError(t, Replay(context.Background(), opts))
	members, err := mr.Members("sectionkit:impressions:section:home:feed")
	require.NoError(t, err)
	assert.Equal(t, []string{"feed-p2"}, members)

	// the record outlives the process: a second replay sees nothing new
	var second bytes.Buffer
	opts.Out = &second
	require.NoError(t, Replay(context.Background(), opts))
	assert.Contains(t, second.String(), `"impressions":null`)
}

func TestReplay_Errors(t *testing.T) {
	err := Replay(context.Background(), ReplayOptions{Path: "missing.yaml", Out: io.Discard})
	assert.Error(t, err)

	err = Replay(context.Background(), ReplayOptions{Path: feedScenario, LogLevel: "loud", Out: io.Discard})
	assert.ErrorContains(t, err, "unknown log level")

	err = Replay(context.Background(), ReplayOptions{Path: feedScenario, LogLevel: "off", RedisAddr: "127.0.0.1:1", Out: io.Discard})
	assert.ErrorContains(t, err, "failed to reach redis")
}

func TestReplay_CancelledIsNotAnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, Replay(ctx, ReplayOptions{Path: feedScenario, LogLevel: "off", Out: io.Discard}))
}

func TestServe_ExposesEngineAndMetrics(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	ready := make(chan string, 1)
	go func() {
		done <- Serve(ctx, ServeOptions{
			Path:     feedScenario,
			LogLevel: "off",
			Listener: ln,
			Ready:    func(addr string) { ready <- addr },
		})
	}()

	var addr string
	select {
	case addr = <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
	base := "http://" + addr

	// the scenario waits 200ms of wall time, so the list settles shortly
	require.Eventually(t, func() bool {
		body := fetch(t, base+"/status")
		return strings.Contains(body, `"busy":false`) && strings.Contains(body, `"items":6`)
	}, 5*time.Second, 20*time.Millisecond)

	metrics := fetch(t, base+"/metrics")
	assert.Contains(t, metrics, "sectionkit_operations_applied_total")
	assert.Contains(t, metrics, "go_goroutines")
	assert.Contains(t, fetch(t, base+"/snapshot"), "stories-s2")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func fetch(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestColorProfile(t *testing.T) {
	assert.Equal(t, termenv.Ascii, colorProfile(&bytes.Buffer{}, false))
	assert.Equal(t, termenv.Ascii, colorProfile(&bytes.Buffer{}, true))
}

func TestCreateLogger(t *testing.T) {
	for _, level := range []string{"", "debug", "warn", "off", "OFF"} {
		logger, err := createLogger(level)
		require.NoError(t, err, level)
		assert.NotNil(t, logger)
	}
	_, err := createLogger("verbose")
	assert.Error(t, err)
}
