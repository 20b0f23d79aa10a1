// Package bhoonidhi talks to ISRO's Bhoonidhi STAC API. The client runs
// either against the real service or in simulation mode, which serves a
// fixed two-scene archive so the pipeline works without live credentials.
package bhoonidhi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"netra/internal/logger"
	"netra/internal/mission"
	"netra/internal/providers"
)

const (
	DefaultBaseURL = "https://bhoonidhi-api.nrsc.gov.in"

	// Token handed out by a simulated login.
	SimulationToken = "fake_simulation_token_123"

	DefaultCollection = "R2_LISS3_STD_L1"
	DefaultDatetime   = "2023-01-01T00:00:00Z/2023-01-30T23:59:59Z"
	DefaultLimit      = 5

	defaultLoginTimeout  = 10 * time.Second
	defaultSearchTimeout = 20 * time.Second
)

type Mode int

const (
	ModeReal Mode = iota
	ModeSimulated
)

func (m Mode) String() string {
	if m == ModeSimulated {
		return "simulated"
	}
	return "real"
}

type Options struct {
	Username string
	Password string
	BaseURL  string
	Mode     Mode

	SimulatedDelay time.Duration
	LoginTimeout   time.Duration
	SearchTimeout  time.Duration
	HTTPClient     *http.Client
}

// Client is used for one mission: at most one Login, then SearchL3.
type Client struct {
	username string
	password string
	baseURL  string
	mode     Mode
	token    string

	simulatedDelay time.Duration
	loginTimeout   time.Duration
	searchTimeout  time.Duration
	http           *http.Client
}

func NewClient(opts Options) *Client {
	c := &Client{
		username:       opts.Username,
		password:       opts.Password,
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		mode:           opts.Mode,
		simulatedDelay: opts.SimulatedDelay,
		loginTimeout:   opts.LoginTimeout,
		searchTimeout:  opts.SearchTimeout,
		http:           opts.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.loginTimeout <= 0 {
		c.loginTimeout = defaultLoginTimeout
	}
	if c.searchTimeout <= 0 {
		c.searchTimeout = defaultSearchTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c
}

func (c *Client) Mode() Mode { return c.mode }

func (c *Client) Authenticated() bool { return c.token != "" }

// Login authenticates against /auth/token. In simulation mode it always
// succeeds with SimulationToken.
func (c *Client) Login(ctx context.Context) error {
	if c.mode == ModeSimulated {
		logger.Log.Warn().Msg("Bhoonidhi simulation mode: skipping real login")
		c.token = SimulationToken
		return nil
	}

	logger.Log.Info().Str("base_url", c.baseURL).Msg("connecting to Bhoonidhi")
	ctx, cancel := context.WithTimeout(ctx, c.loginTimeout)
	defer cancel()

	body, err := json.Marshal(tokenRequest{UserID: c.username, Password: c.password})
	if err != nil {
		return fmt.Errorf("encode login request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := providers.CheckResponse("login", resp)
		if err == nil {
			err = &providers.StatusError{Op: "login", Status: resp.StatusCode}
		}
		logger.Log.Error().Err(err).Msg("Bhoonidhi access denied")
		return err
	}

	var tok tokenResponse
	if err := providers.DecodeJSON(resp, &tok); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if tok.AccessToken == "" {
		return errors.New("login: response has no access_token")
	}
	c.token = tok.AccessToken
	logger.Log.Info().Msg("Bhoonidhi access granted")
	return nil
}

// SearchL3 returns (nil, nil) with a logged warning when Login has not
// succeeded; the caller decides whether that is a mission error.
func (c *Client) SearchL3(ctx context.Context, bbox mission.BBox) (*FeatureCollection, error) {
	if !c.Authenticated() {
		logger.Log.Warn().Msg("Bhoonidhi search skipped: no token, log in first")
		return nil, nil
	}

	if c.mode == ModeSimulated {
		logger.Log.Info().Floats64("bbox", bbox[:]).Msg("simulated Bhoonidhi archive scan")
		if err := sleep(ctx, c.simulatedDelay); err != nil {
			return nil, err
		}
		return simulatedCollection(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.searchTimeout)
	defer cancel()

	body, err := json.Marshal(searchRequest{
		Collections: []string{DefaultCollection},
		Datetime:    DefaultDatetime,
		BBox:        bbox,
		Limit:       DefaultLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stac/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if err := providers.CheckResponse("search", resp); err != nil {
			return nil, err
		}
		return nil, &providers.StatusError{Op: "search", Status: resp.StatusCode}
	}

	var fc FeatureCollection
	if err := providers.DecodeJSON(resp, &fc); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return &fc, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func simulatedCollection() *FeatureCollection {
	return &FeatureCollection{
		Type: "FeatureCollection",
		Features: []Feature{
			{
				ID:   "R2_LISS3_STD_20230115_103022",
				Type: "Feature",
				Properties: Properties{
					Date:       "2023-01-15",
					Sensor:     "LISS-3",
					CloudCover: float64(rand.IntN(21)),
				},
				Assets: map[string]Asset{
					"thumbnail": {Href: "https://bhoonidhi.nrsc.gov.in/thumbnail_fake.jpg"},
				},
			},
			{
				ID:   "R2_LISS3_STD_20230118_103022",
				Type: "Feature",
				Properties: Properties{
					Date:       "2023-01-18",
					Sensor:     "LISS-3",
					CloudCover: float64(rand.IntN(21)),
				},
			},
		},
	}
}
