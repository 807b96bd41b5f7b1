// Package auth sends authenticated requests to the device management API.
package auth

import (
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/mwuertinger/nest-events/pkg/config"
	"github.com/mwuertinger/nest-events/pkg/payload"
	"github.com/pkg/errors"
)

const DefaultAPIURL = "https://smartdevicemanagement.googleapis.com/v1"

// Client implements trait.Auth with a static OAuth access token.
type Client struct {
	http *resty.Client
}

func New(sdmConfig config.Sdm) *Client {
	baseURL := sdmConfig.APIURL
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	r := resty.New()
	r.SetBaseURL(baseURL)
	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("Accept", "application/json")
	r.SetAuthToken(sdmConfig.AccessToken)

	return &Client{http: r}
}

// Request sends body to path relative to the API URL and returns the decoded
// response object.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}) (payload.Object, error) {
	var result payload.Object

	req := c.http.R().
		SetContext(ctx).
		SetResult(&result)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, "/"+path)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	if resp.IsError() {
		return nil, errors.Errorf("%s %s failed: %s: %s", method, path, resp.Status(), resp.String())
	}

	if result == nil {
		result = payload.Object{}
	}
	return result, nil
}
