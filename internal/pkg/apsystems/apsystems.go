package apsystems

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/apsystems-integration/internal/pkg/model"
	"github.com/anicoll/apsystems-integration/pkg/signer"
)

const DefaultBaseURL = "https://api.apsystemsema.com:9282"

const dateLayout = "2006-01-02"

// Client talks to the APsystems OpenAPI for a single system and ECU.
// Every call is a single signed request; nothing is cached between calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	signer     *signer.Signer
	creds      model.Credentials
	loc        *time.Location
	now        func() time.Time
	logger     *zap.Logger
}

func New(creds model.Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
		signer:     signer.New(creds.AppID, creds.AppSecret),
		creds:      creds,
		loc:        time.Local,
		now:        time.Now,
		logger:     zap.L(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) FetchSystemSummary(ctx context.Context) (*model.SystemSummary, error) {
	path := fmt.Sprintf("/user/api/v2/systems/summary/%s", url.PathEscape(c.creds.SystemID))
	data, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeSummary(data)
}

// FetchMinutelyEnergy returns today's minutely series for the ECU.
func (c *Client) FetchMinutelyEnergy(ctx context.Context) (*model.MinutelyEnergy, error) {
	path := fmt.Sprintf("/user/api/v2/systems/%s/devices/ecu/energy/%s",
		url.PathEscape(c.creds.SystemID),
		url.PathEscape(c.creds.ECUID),
	)
	query := url.Values{}
	query.Set("energy_level", "minutely")
	query.Set("date_range", c.now().In(c.loc).Format(dateLayout))

	data, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return decodeMinutely(data)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	c.logger.Debug("requesting", zap.String("request_path", path), zap.String("query", query.Encode()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	c.signer.Apply(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: http.MethodGet, URL: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: http.MethodGet, URL: path, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Method: http.MethodGet, URL: path, StatusCode: resp.StatusCode}
	}
	return decodeEnvelope(body)
}
