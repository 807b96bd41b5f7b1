package trait

import (
	"context"
	"net/http"

	"github.com/mwuertinger/nest-events/pkg/payload"
	"github.com/pkg/errors"
)

// Auth sends authenticated requests to the device management API. path is
// relative to the API base URL.
type Auth interface {
	Request(ctx context.Context, method, path string, body interface{}) (payload.Object, error)
}

// Command issues device commands on behalf of a single device.
type Command struct {
	device string
	auth   Auth
}

func NewCommand(device string, auth Auth) *Command {
	return &Command{device: device, auth: auth}
}

func (c *Command) Device() string {
	return c.device
}

// Execute runs the named command with params and returns the command results.
func (c *Command) Execute(ctx context.Context, name string, params map[string]interface{}) (payload.Object, error) {
	if c.auth == nil {
		return nil, errors.New("command: no auth configured")
	}
	if params == nil {
		params = map[string]interface{}{}
	}
	body := map[string]interface{}{
		"command": name,
		"params":  params,
	}
	resp, err := c.auth.Request(ctx, http.MethodPost, c.device+":executeCommand", body)
	if err != nil {
		return nil, errors.Wrapf(err, "execute %s on %s", name, c.device)
	}
	return resp, nil
}
