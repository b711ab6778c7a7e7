// ilp/http.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package ilp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/medifly/dispatch/geo"
	"github.com/medifly/dispatch/log"
	"github.com/medifly/dispatch/util"
)

// HTTPClient fetches platform collections over plain GET requests
// returning JSON arrays.
type HTTPClient struct {
	base   string
	client *http.Client
	lg     *log.Logger
}

// NewHTTPClient returns a Client that talks to the platform at the given
// base URL.
func NewHTTPClient(base string, lg *log.Logger) *HTTPClient {
	return &HTTPClient{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 30 * time.Second},
		lg:     lg,
	}
}

func getJSON[T any](ctx context.Context, c *HTTPClient, path string) ([]T, error) {
	url := c.base + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: returned status %d", url, resp.StatusCode)
	}

	var items []T
	if err := util.UnmarshalJSON(resp.Body, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}

	c.lg.Debug("fetched platform collection", "url", url, "items", len(items),
		"elapsed", time.Since(start))
	return items, nil
}

func (c *HTTPClient) Drones(ctx context.Context) ([]Drone, error) {
	return getJSON[Drone](ctx, c, "/drones")
}

func (c *HTTPClient) ServicePoints(ctx context.Context) ([]ServicePoint, error) {
	return getJSON[ServicePoint](ctx, c, "/service-points")
}

func (c *HTTPClient) DronesForServicePoints(ctx context.Context) ([]ServicePointDrones, error) {
	return getJSON[ServicePointDrones](ctx, c, "/drones-for-service-points")
}

func (c *HTTPClient) RestrictedAreas(ctx context.Context) ([]geo.Region, error) {
	return getJSON[geo.Region](ctx, c, "/restricted-areas")
}
