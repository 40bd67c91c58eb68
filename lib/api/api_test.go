package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fosdem/trimix/lib/api"
	"github.com/fosdem/trimix/lib/config"
	"github.com/fosdem/trimix/lib/gpu/softgpu"
	"github.com/fosdem/trimix/lib/stats"
	"github.com/fosdem/trimix/lib/theatre"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*theatre.Theatre, *api.Api, *httptest.Server) {
	t.Helper()
	th, err := theatre.Load(config.Default())
	require.NoError(t, err)
	require.NoError(t, th.Build(softgpu.New(80, 60)))
	t.Cleanup(th.Release)

	a := api.New(&config.ApiCfg{Bind: "127.0.0.1:0"}, th, stats.New())
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return th, a, srv
}

func TestPrograms(t *testing.T) {
	_, _, srv := setup(t)

	resp, err := http.Get(srv.URL + "/api/programs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var reports []theatre.BuildReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "red", reports[0].Unit)
	assert.Equal(t, "green", reports[1].Unit)
	assert.True(t, reports[0].Linked)
}

func TestReload(t *testing.T) {
	th, _, srv := setup(t)

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodPost, "/api/reload", http.StatusAccepted},
		{http.MethodPost, "/api/reload/red", http.StatusAccepted},
		{http.MethodPost, "/api/reload/blue", http.StatusNotFound},
		{http.MethodGet, "/api/reload/red", http.StatusMethodNotAllowed},
	}
	for _, c := range cases {
		req, err := http.NewRequest(c.method, srv.URL+c.path, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, c.status, resp.StatusCode, "%s %s", c.method, c.path)
	}

	th.ApplyReloads()
	for _, r := range th.Reports() {
		assert.True(t, r.Linked)
	}
	assert.Equal(t, 3, th.Reports()[0].Builds, "red is rebuilt by both requests")
	assert.Equal(t, 2, th.Reports()[1].Builds)
}

func TestKill(t *testing.T) {
	th, _, srv := setup(t)

	resp, err := http.Post(srv.URL+"/api/kill", "", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, th.ShutdownRequested())
}

func TestStatsAndMetrics(t *testing.T) {
	_, a, srv := setup(t)
	a.Stats.Update(16*time.Millisecond, 2)

	resp, err := http.Get(srv.URL + "/api/stats")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	_ = resp.Body.Close()
	assert.EqualValues(t, 1, got["frames"])
	assert.EqualValues(t, 2, got["units"])
	assert.EqualValues(t, 16, got["frame_time_ms"])

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Contains(t, string(body), "trimix_program_links_total")
	assert.Contains(t, string(body), "trimix_shader_compiles_total")
}

func TestWebsocketBuildEvent(t *testing.T) {
	th, a, srv := setup(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.Eventually(t, func() bool { return a.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, th.RequestReload("green"))
	th.ApplyReloads()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, msg, err := ws.ReadMessage()
		require.NoError(t, err)

		var event theatre.EventDataBuild
		require.NoError(t, json.Unmarshal(msg, &event))
		if event.Event != "build" {
			continue
		}
		assert.Equal(t, "green", event.Unit)
		assert.True(t, event.Linked)
		assert.Equal(t, 2, event.Builds)
		break
	}

	_ = ws.Close()
	assert.Eventually(t, func() bool { return a.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWebsocketIdleClientDoesNotHoldUpOthers(t *testing.T) {
	th, a, srv := setup(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"

	idle, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer idle.Close()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()
	require.Eventually(t, func() bool { return a.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	for range 10 {
		require.NoError(t, th.RequestReload("green"))
		th.ApplyReloads()
	}

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	var builds []int
	for len(builds) < 10 {
		_, msg, err := ws.ReadMessage()
		require.NoError(t, err)

		var event theatre.EventDataBuild
		require.NoError(t, json.Unmarshal(msg, &event))
		if event.Event == "build" {
			builds = append(builds, event.Builds)
		}
	}
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, builds)
}
