package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/moonwatch/internal/domain/moonview"
	"github.com/yanqian/moonwatch/internal/domain/session"
	"github.com/yanqian/moonwatch/internal/infra/assets"
	"github.com/yanqian/moonwatch/internal/infra/config"
	"github.com/yanqian/moonwatch/internal/infra/sessionstore"
)

var sampleResult = moonview.AstronomyResult{
	Moonrise:     "18:42",
	Moonset:      "06:10",
	MoonPhase:    "WAXING_GIBBOUS",
	MoonAltitude: "12.3",
	MoonAzimuth:  "45",
}

func TestRouter_QueryLoaded(t *testing.T) {
	client := &stubClient{result: sampleResult}
	b := newBrowser(t, client)

	rec := b.do(http.MethodPost, "/api/v1/query", `{"location":"Tokyo"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeState(t, rec)
	require.Equal(t, moonview.StatusLoaded, got.View.Status)
	require.Equal(t, "Tokyo", got.View.Location)
	require.Equal(t, sampleResult, *got.View.Result)
	require.Empty(t, got.View.Error)
	require.Equal(t, "45.0°", got.Compass.Label)
	require.Equal(t, "rotate(45deg)", got.Compass.Rotation)
	require.Len(t, got.Facts, 5)
	require.Equal(t, "12.3°", got.Facts[3].Value)
	require.Equal(t, []string{"Tokyo"}, client.locations())
}

func TestRouter_QueryFailureIsErroredView(t *testing.T) {
	client := &stubClient{err: errors.New("boom")}
	b := newBrowser(t, client)

	rec := b.do(http.MethodPost, "/api/v1/query", `{"location":"Atlantis"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeState(t, rec)
	require.Equal(t, moonview.StatusErrored, got.View.Status)
	require.Equal(t, moonview.MsgFetchFailed, got.View.Error)
	require.Nil(t, got.View.Result)
	require.Empty(t, got.Facts)
	require.Equal(t, "0.0°", got.Compass.Label)
}

func TestRouter_BlankLocationSkipsProvider(t *testing.T) {
	client := &stubClient{result: sampleResult}
	b := newBrowser(t, client)

	rec := b.do(http.MethodPost, "/api/v1/query", `{"location":"   "}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeState(t, rec)
	require.Equal(t, moonview.StatusErrored, got.View.Status)
	require.Equal(t, moonview.MsgEmptyLocation, got.View.Error)
	require.Empty(t, client.locations())
}

func TestRouter_SessionCookieKeepsState(t *testing.T) {
	client := &stubClient{result: sampleResult}
	b := newBrowser(t, client)

	rec := b.do(http.MethodPut, "/api/v1/location", `{"location":"Paris"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, b.cookies)

	rec = b.do(http.MethodPost, "/api/v1/query", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"Paris"}, client.locations())

	rec = b.do(http.MethodGet, "/api/v1/state", "")
	got := decodeState(t, rec)
	require.Equal(t, "Paris", got.Query.LocationText)
	require.Equal(t, moonview.StatusLoaded, got.View.Status)

	other := newBrowserWith(t, b.server)
	rec = other.do(http.MethodGet, "/api/v1/state", "")
	require.Equal(t, moonview.StatusIdle, decodeState(t, rec).View.Status)
}

func TestRouter_SetLocationRequiresField(t *testing.T) {
	b := newBrowser(t, &stubClient{})

	rec := b.do(http.MethodPut, "/api/v1/location", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_HidingPanelResetsAudio(t *testing.T) {
	b := newBrowser(t, &stubClient{})

	got := decodeState(t, b.do(http.MethodPost, "/api/v1/view3d/toggle", ""))
	require.True(t, got.Decoration.Visible)

	got = decodeState(t, b.do(http.MethodPost, "/api/v1/audio/toggle", ""))
	require.True(t, got.Decoration.Audio.Playing)

	got = decodeState(t, b.do(http.MethodPut, "/api/v1/audio/position", `{"position":42.5}`))
	require.Equal(t, 42.5, got.Decoration.Audio.Position)

	got = decodeState(t, b.do(http.MethodPost, "/api/v1/view3d/toggle", ""))
	require.False(t, got.Decoration.Visible)
	require.Equal(t, moonview.Playback{}, got.Decoration.Audio)
}

func TestRouter_SeekRequiresPosition(t *testing.T) {
	b := newBrowser(t, &stubClient{})

	rec := b.do(http.MethodPut, "/api/v1/audio/position", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_CompassSVG(t *testing.T) {
	b := newBrowser(t, &stubClient{})

	rec := b.do(http.MethodGet, "/api/v1/compass.svg?angle=90", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "image/svg+xml")
	require.Contains(t, rec.Body.String(), "rotate(90 80 80)")
	require.Contains(t, rec.Body.String(), "Moon Direction: 90.0°")

	rec = b.do(http.MethodGet, "/api/v1/compass.svg?angle=north", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_input", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_CompassSVGUsesSessionAngle(t *testing.T) {
	b := newBrowser(t, &stubClient{result: sampleResult})
	b.do(http.MethodPost, "/api/v1/query", `{"location":"Tokyo"}`)

	rec := b.do(http.MethodGet, "/api/v1/compass.svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "rotate(45 80 80)")
}

func TestRouter_Sphere(t *testing.T) {
	b := newBrowser(t, &stubClient{})

	rec := b.do(http.MethodGet, "/api/v1/sphere", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got moonview.Sphere
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, moonview.DefaultSphere("https://example.com/moon.jpg"), got)
}

func TestRouter_AssetRedirect(t *testing.T) {
	b := newBrowser(t, &stubClient{})

	rec := b.do(http.MethodGet, "/assets/background", "")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/static/bg.jpg", rec.Header().Get("Location"))

	rec = b.do(http.MethodGet, "/assets/audio", "")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/static/moon.mp3", rec.Header().Get("Location"))

	rec = b.do(http.MethodGet, "/assets/secrets", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_IndexPage(t *testing.T) {
	b := newBrowser(t, &stubClient{result: sampleResult})

	rec := b.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "🌙 Personalized Moon Viewing")
	require.Contains(t, body, "View Moon Info")
	require.Contains(t, body, "View 3D Moon")
	require.Contains(t, body, "IP Geolocation Astronomy API")
	require.NotContains(t, body, `id="moon3d"`)

	rec = b.form("/query", "location=Tokyo")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	rec = b.form("/view3d", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)

	body = b.do(http.MethodGet, "/", "").Body.String()
	require.Contains(t, body, "<h2>Tokyo</h2>")
	require.Contains(t, body, "Moon Phase: WAXING_GIBBOUS")
	require.Contains(t, body, "Moon Azimuth: 45°")
	require.Contains(t, body, "Moon Direction: 45.0°")
	require.Contains(t, body, "Hide 3D Moon")
	require.Contains(t, body, `id="moon3d"`)
}

func TestRouter_IndexPageShowsError(t *testing.T) {
	b := newBrowser(t, &stubClient{})

	b.form("/query", "location=")
	body := b.do(http.MethodGet, "/", "").Body.String()
	require.Contains(t, body, moonview.MsgEmptyLocation)
	require.NotContains(t, body, "Moon Direction:")
}

func TestRouter_InvalidCookieStartsNewSession(t *testing.T) {
	b := newBrowser(t, &stubClient{})
	b.cookies = []*http.Cookie{{Name: "moonwatch_session", Value: "forged"}}

	rec := b.do(http.MethodGet, "/api/v1/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Result().Cookies())
}

func TestRouter_Health(t *testing.T) {
	b := newBrowser(t, &stubClient{})

	rec := b.do(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}

type browser struct {
	t       *testing.T
	server  *http.Server
	cookies []*http.Cookie
}

func newBrowser(t *testing.T, client moonview.AstronomyClient) *browser {
	t.Helper()
	return newBrowserWith(t, newRouterUnderTest(t, client))
}

func newBrowserWith(t *testing.T, server *http.Server) *browser {
	return &browser{t: t, server: server}
}

func (b *browser) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return b.send(req)
}

func (b *browser) form(path, values string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.send(req)
}

func (b *browser) send(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.server.Handler.ServeHTTP(rec, req)
	if set := rec.Result().Cookies(); len(set) > 0 {
		b.cookies = set
	}
	return rec
}

func newRouterUnderTest(t *testing.T, client moonview.AstronomyClient) *http.Server {
	t.Helper()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Session: config.SessionConfig{
			CookieName:  "moonwatch_session",
			Secret:      "test-secret",
			TTL:         time.Hour,
			IdleTimeout: time.Hour,
		},
		Assets: config.AssetsConfig{
			Dir:        t.TempDir(),
			Background: "bg.jpg",
			Audio:      "moon.mp3",
			TextureURL: "https://example.com/moon.jpg",
		},
	}
	logger := newTestLogger()
	sessCfg := session.Config{Secret: cfg.Session.Secret, TTL: cfg.Session.TTL, IdleTimeout: cfg.Session.IdleTimeout}
	issuer, err := session.NewIssuer(sessCfg)
	require.NoError(t, err)
	registry := session.NewRegistry(sessCfg, client, sessionstore.NewMemoryStore(), logger)
	handler := NewHandler(cfg, registry, assets.NewLocalResolver(cfg.Assets.Dir, StaticPrefix), logger)
	return NewRouter(cfg, handler, issuer, logger)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubClient struct {
	result moonview.AstronomyResult
	err    error
	seen   []string
}

func (s *stubClient) Fetch(_ context.Context, location string) (moonview.AstronomyResult, error) {
	s.seen = append(s.seen, location)
	if s.err != nil {
		return moonview.AstronomyResult{}, s.err
	}
	return s.result, nil
}

func (s *stubClient) locations() []string {
	return s.seen
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) stateResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got stateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
