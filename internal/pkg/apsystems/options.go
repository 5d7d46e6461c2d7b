package apsystems

import (
	"net/http"
	"strings"
	"time"
)

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLocation sets the zone used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		c.loc = loc
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}
