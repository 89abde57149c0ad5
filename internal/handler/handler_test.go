package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trends-go/internal/service"
	"trends-go/pkg/api"
	"trends-go/pkg/charts"
	"trends-go/pkg/frame"
	"trends-go/pkg/gateway"
	"trends-go/pkg/normalize"
	"trends-go/pkg/storage"
)

type stubProvider struct {
	timeline *frame.Frame
	region   *frame.Frame
	related  api.RelatedQueries
}

func (p *stubProvider) BuildPayload(context.Context, []string, string, string) error { return nil }

func (p *stubProvider) InterestOverTime(context.Context) (*frame.Frame, error) {
	return p.timeline, nil
}

func (p *stubProvider) InterestByRegion(context.Context, api.Resolution) (*frame.Frame, error) {
	return p.region, nil
}

func (p *stubProvider) RelatedQueries(context.Context) (api.RelatedQueries, error) {
	return p.related, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	ts := frame.New("date", "Python", api.PartialColumn)
	require.NoError(t, ts.AppendRow("2024-01-01T00:00:00Z", 40, 0))
	require.NoError(t, ts.AppendRow("2024-01-08T00:00:00Z", 60, 1))
	region := frame.New("geoName", "Python")
	for i, name := range []string{"Nigeria", "Ghana", "Kenya", "India"} {
		require.NoError(t, region.AppendRow(name, 100-25*i))
	}
	top := frame.New("query", "value")
	require.NoError(t, top.AppendRow("python tutorial", 100))

	provider := &stubProvider{timeline: ts, region: region, related: api.RelatedQueries{"Python": {Top: top}}}
	gw := gateway.New(provider, gateway.Options{})
	analyzer := service.NewAnalyzer(gw, normalize.DefaultCountryDB(), charts.MustBuilder(charts.Options{}), service.Options{})

	sessions := storage.NewSessionStore(10, time.Hour)
	t.Cleanup(sessions.Close)

	page, err := ParsePage()
	require.NoError(t, err)

	ctl := NewController(analyzer, sessions, page, ControllerConfig{Title: "Trends", CookieName: "sid"})
	return NewApp(ctl, AppConfig{})
}

type client struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
}

func (c *client) do(method, path, body, contentType string) *http.Response {
	c.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == "sid" {
			c.cookie = ck
		}
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestIndexRendersDashboard(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}
	resp := c.do(http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	html := string(body)
	assert.Contains(t, html, "<title>Trends</title>")
	assert.Contains(t, html, `value="today 1-m" selected`)
	assert.Contains(t, html, "plotly")
	assert.NotNil(t, c.cookie)
}

func TestChartsEmptyBeforeAnalysis(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}

	for _, path := range []string{"/api/charts/time-series", "/api/charts/region-map", "/api/charts/top-regions"} {
		var body map[string]map[string]interface{}
		decode(t, c.do(http.MethodGet, path, "", ""), &body)
		assert.Empty(t, body["figure"], path)
	}

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodGet, "/api/download", "", "").StatusCode)
	assert.Equal(t, http.StatusNoContent, c.do(http.MethodGet, "/api/analysis", "", "").StatusCode)

	var view charts.TableView
	decode(t, c.do(http.MethodGet, "/api/related", "", ""), &view)
	assert.Empty(t, view.Data)
	assert.Empty(t, view.Note)
}

func TestAnalyzeNoKeywords(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}

	var resp AnalyzeResponse
	decode(t, c.do(http.MethodPost, "/api/analyze", `{"keywords":" , "}`, fiber.MIMEApplicationJSON), &resp)

	assert.True(t, resp.Alert.Open)
	assert.Equal(t, "Please enter at least one keyword.", resp.Alert.Message)
	assert.Equal(t, storage.StatusInvalid, resp.Status)
}

func TestAnalyzeThenRender(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}

	var resp AnalyzeResponse
	decode(t, c.do(http.MethodPost, "/api/analyze", "keywords=Python&timeframe=today+3-m&country=ng", fiber.MIMEApplicationForm), &resp)
	assert.False(t, resp.Alert.Open)
	assert.Equal(t, storage.StatusSuccess, resp.Status)

	var ts struct {
		Figure charts.Figure `json:"figure"`
	}
	decode(t, c.do(http.MethodGet, "/api/charts/time-series", "", ""), &ts)
	require.Len(t, ts.Figure.Data, 1)
	assert.Equal(t, "Python", ts.Figure.Data[0].Name)

	var top struct {
		Figure charts.Figure `json:"figure"`
	}
	decode(t, c.do(http.MethodGet, "/api/charts/top-regions?top_n=5&min_interest=50", "", ""), &top)
	require.Len(t, top.Figure.Data, 1)
	assert.Equal(t, []string{"Nigeria", "Ghana", "Kenya"}, top.Figure.Data[0].X)

	var view charts.TableView
	decode(t, c.do(http.MethodGet, "/api/related", "", ""), &view)
	assert.Equal(t, charts.NoteTop, view.Note)
	assert.Equal(t, 10, view.PageSize)
	require.Len(t, view.Data, 1)

	dl := c.do(http.MethodGet, "/api/download", "", "")
	require.Equal(t, http.StatusOK, dl.StatusCode)
	assert.Contains(t, dl.Header.Get("Content-Disposition"), "interest_over_time.csv")
	csv, _ := io.ReadAll(dl.Body)
	assert.Equal(t, "Date,Python\n2024-01-01T00:00:00Z,40\n2024-01-08T00:00:00Z,60\n", string(csv))

	var analysis map[string]json.RawMessage
	decode(t, c.do(http.MethodGet, "/api/analysis", "", ""), &analysis)
	f, err := frame.Decode(analysis["time_series"])
	require.NoError(t, err)
	assert.Equal(t, []string{"Python"}, f.Columns)
	assert.Equal(t, "date", f.IndexName)
}

func TestSessionsAreIsolated(t *testing.T) {
	app := newTestApp(t)
	alice := &client{t: t, app: app}
	bob := &client{t: t, app: app}

	alice.do(http.MethodPost, "/api/analyze", `{"keywords":"Python"}`, fiber.MIMEApplicationJSON)
	bob.do(http.MethodGet, "/", "", "")

	assert.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/api/download", "", "").StatusCode)
	assert.Equal(t, http.StatusNoContent, bob.do(http.MethodGet, "/api/download", "", "").StatusCode)
}

func TestAnalyzeRejectsBadBody(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}
	resp := c.do(http.MethodPost, "/api/analyze", `{"keywords":`, fiber.MIMEApplicationJSON)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "invalid analyze request", body["error"])
}

func TestHealthTimeframesAndMetrics(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}

	var health StatusResponse
	decode(t, c.do(http.MethodGet, "/healthz", "", ""), &health)
	assert.Equal(t, "ok", health.Status)

	var tf struct {
		Default string                      `json:"default"`
		Options []normalize.TimeframeOption `json:"options"`
	}
	decode(t, c.do(http.MethodGet, "/api/timeframes", "", ""), &tf)
	assert.Equal(t, "today 1-m", tf.Default)
	assert.Len(t, tf.Options, 8)

	metrics := c.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, metrics.StatusCode)
	body, _ := io.ReadAll(metrics.Body)
	assert.Contains(t, string(body), "trends_active_sessions")
}
