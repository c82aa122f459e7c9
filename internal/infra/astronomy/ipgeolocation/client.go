package ipgeolocation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/yanqian/moonwatch/internal/domain/moonview"
	apperrors "github.com/yanqian/moonwatch/pkg/errors"
)

const defaultBaseURL = "https://api.ipgeolocation.io/astronomy"

// Client fetches moon data from the IP Geolocation astronomy API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds an API client. A zero timeout keeps the http.Client
// default of no explicit deadline.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	return &Client{
		baseURL:    endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves moon data for a free-form location.
func (c *Client) Fetch(ctx context.Context, location string) (moonview.AstronomyResult, error) {
	endpoint, err := c.endpoint(location)
	if err != nil {
		return moonview.AstronomyResult{}, apperrors.Wrap(apperrors.CodeAstronomyUnavailable, "build astronomy request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return moonview.AstronomyResult{}, apperrors.Wrap(apperrors.CodeAstronomyUnavailable, "build astronomy request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return moonview.AstronomyResult{}, apperrors.Wrap(apperrors.CodeAstronomyUnavailable, "astronomy request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return moonview.AstronomyResult{}, apperrors.Wrap(apperrors.CodeAstronomyStatus,
			fmt.Sprintf("astronomy request error: status=%d body=%s", resp.StatusCode, upstreamMessage(payload)), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return moonview.AstronomyResult{}, apperrors.Wrap(apperrors.CodeAstronomyUnavailable, "read astronomy response", err)
	}

	result, err := decodeResult(body)
	if err != nil {
		return moonview.AstronomyResult{}, apperrors.Wrap(apperrors.CodeAstronomyDecode, "decode astronomy response", err)
	}
	return result, nil
}

func (c *Client) endpoint(location string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("apiKey", c.apiKey)
	q.Set("location", location)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

type apiResponse struct {
	Moonrise     json.RawMessage `json:"moonrise"`
	Moonset      json.RawMessage `json:"moonset"`
	MoonPhase    json.RawMessage `json:"moon_phase"`
	MoonAltitude json.RawMessage `json:"moon_altitude"`
	MoonAzimuth  json.RawMessage `json:"moon_azimuth"`
}

type apiError struct {
	Message string `json:"message"`
}

func decodeResult(body []byte) (moonview.AstronomyResult, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return moonview.AstronomyResult{}, fmt.Errorf("expected a JSON object")
	}
	var raw apiResponse
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return moonview.AstronomyResult{}, err
	}

	var (
		result moonview.AstronomyResult
		err    error
	)
	fields := []struct {
		name string
		raw  json.RawMessage
		dst  *string
	}{
		{"moonrise", raw.Moonrise, &result.Moonrise},
		{"moonset", raw.Moonset, &result.Moonset},
		{"moon_phase", raw.MoonPhase, &result.MoonPhase},
		{"moon_altitude", raw.MoonAltitude, &result.MoonAltitude},
		{"moon_azimuth", raw.MoonAzimuth, &result.MoonAzimuth},
	}
	for _, f := range fields {
		if *f.dst, err = coerceString(f.raw); err != nil {
			return moonview.AstronomyResult{}, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return result, nil
}

// coerceString accepts a JSON string, number or boolean and returns its text.
// null and missing fields yield "".
func coerceString(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return "", nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case '{', '[':
		return "", fmt.Errorf("unsupported value %s", string(trimmed))
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}

func upstreamMessage(payload []byte) string {
	var body apiError
	if err := json.Unmarshal(payload, &body); err == nil && strings.TrimSpace(body.Message) != "" {
		return body.Message
	}
	return string(payload)
}
