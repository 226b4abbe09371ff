// Package apis holds what the remote API clients share.
package apis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"stratos/manager"
)

const userAgent = "stratos/1.0"

// NewClient returns a resty client with the common headers and a request timeout.
func NewClient(timeout time.Duration) *resty.Client {
	client := resty.New().SetHeader("User-Agent", userAgent)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return client
}

// StatusError reports a non-success response, indenting a JSON body when it
// is one.
func StatusError(response *resty.Response) error {
	buf := &bytes.Buffer{}
	if err := json.Indent(buf, response.Body(), "", "  "); err != nil {
		buf.Reset()
		buf.Write(response.Body())
	}
	return fmt.Errorf("%w: status code: %d\n%s", manager.ErrTransport, response.StatusCode(), buf.String())
}

// TransportError wraps a failed request or an unparseable body.
func TransportError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", manager.ErrTransport, op, err)
}
