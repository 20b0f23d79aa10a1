// Package esa searches Sentinel-2 products in the Copernicus Data Space
// catalogue.
package esa

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"netra/internal/config"
	"netra/internal/logger"
	"netra/internal/mission"
	"netra/internal/providers"
)

const (
	SourceName = "ESA (Sentinel-2)"

	DefaultBaseURL     = "https://catalogue.dataspace.copernicus.eu"
	DefaultAuthURL     = "https://identity.dataspace.copernicus.eu/auth/realms/CDSE/protocol/openid-connect/token"
	DefaultProductType = "S2MSI1C"
	DefaultClientID    = "cdse-public"

	searchPath     = "/resto/api/collections/Sentinel2/search.json"
	maxRecords     = 20
	defaultTimeout = 20 * time.Second
)

type Options struct {
	Username    string
	Password    string
	BaseURL     string
	AuthURL     string
	ProductType string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

type Client struct {
	opts  Options
	http  *http.Client
	token string
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.AuthURL == "" {
		opts.AuthURL = DefaultAuthURL
	}
	if opts.ProductType == "" {
		opts.ProductType = DefaultProductType
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{opts: opts, http: hc}
}

// Login runs the OIDC password grant against the Data Space identity
// service.
func (c *Client) Login(ctx context.Context) error {
	if strings.TrimSpace(c.opts.Username) == "" || strings.TrimSpace(c.opts.Password) == "" {
		return providers.ErrMissingCredentials
	}
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {DefaultClientID},
		"username":   {c.opts.Username},
		"password":   {c.opts.Password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()
	if err := providers.CheckResponse("token", resp); err != nil {
		return err
	}

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := providers.DecodeJSON(resp, &tok); err != nil {
		return fmt.Errorf("token: %w", err)
	}
	if tok.AccessToken == "" {
		return errors.New("token: response has no access_token")
	}
	c.token = tok.AccessToken
	return nil
}

// Search returns scenes in catalogue order.
func (c *Client) Search(ctx context.Context, params mission.Parameters) ([]mission.Scene, error) {
	if c.token == "" {
		return nil, providers.ErrUnauthenticated
	}
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(params), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()
	if err := providers.CheckResponse("search", resp); err != nil {
		return nil, err
	}

	var fc featureCollection
	if err := providers.DecodeJSON(resp, &fc); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	scenes := make([]mission.Scene, 0, len(fc.Features))
	for _, f := range fc.Features {
		scenes = append(scenes, f.scene())
	}
	return scenes, nil
}

func (c *Client) searchURL(params mission.Parameters) string {
	b := params.BBox
	q := url.Values{}
	q.Set("productType", c.opts.ProductType)
	q.Set("startDate", params.StartDate+"T00:00:00Z")
	q.Set("completionDate", params.EndDate+"T23:59:59Z")
	q.Set("box", strings.Join([]string{fmtCoord(b.MinLon()), fmtCoord(b.MinLat()), fmtCoord(b.MaxLon()), fmtCoord(b.MaxLat())}, ","))
	q.Set("maxRecords", strconv.Itoa(maxRecords))
	q.Set("sortParam", "startDate")
	q.Set("sortOrder", "descending")
	return c.opts.BaseURL + searchPath + "?" + q.Encode()
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string `json:"id"`
	Properties struct {
		Title     string `json:"title"`
		StartDate string `json:"startDate"`
		Thumbnail string `json:"thumbnail"`
	} `json:"properties"`
}

func (f feature) scene() mission.Scene {
	s := mission.Scene{
		Source:    SourceName,
		ID:        f.Properties.Title,
		Date:      f.Properties.StartDate,
		Thumbnail: f.Properties.Thumbnail,
	}
	if s.ID == "" {
		s.ID = "Unknown"
	}
	if s.Date == "" {
		s.Date = "Unknown"
	}
	return s
}

// Provider builds a fresh client per Search so a token never outlives the
// mission.
type Provider struct {
	opts Options
}

func NewProvider(opts Options) *Provider {
	return &Provider{opts: opts}
}

func FromConfig(cfg config.ESAConfig) *Provider {
	return NewProvider(Options{
		Username:    cfg.Username,
		Password:    cfg.Password,
		BaseURL:     cfg.BaseURL,
		AuthURL:     cfg.AuthURL,
		ProductType: cfg.ProductType,
		Timeout:     cfg.Timeout,
	})
}

func (p *Provider) Name() string { return "ESA" }

func (p *Provider) Search(ctx context.Context, params mission.Parameters) ([]mission.Scene, error) {
	c := NewClient(p.opts)
	if err := c.Login(ctx); err != nil {
		if errors.Is(err, providers.ErrMissingCredentials) {
			logger.Log.Warn().Msg("ESA credentials missing")
			return nil, err
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}
	scenes, err := c.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(scenes) == 0 {
		logger.Log.Warn().Msg("ESA: no images found")
	} else {
		logger.Log.Info().Int("count", len(scenes)).Msg("ESA search finished")
	}
	return scenes, nil
}
