package definition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-formguard/pkg/form"
)

const maxRevalidateBody = 1 << 20

// HTTPRevalidator returns a revalidate hook that POSTs {"name","value"} to
// endpoint and accepts the value when the JSON response carries
// "valid": true. Non-2xx responses and responses without a boolean valid
// member are errors.
func HTTPRevalidator(client *http.Client, endpoint, name string, timeout time.Duration) form.Revalidator {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, value string) (bool, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		body, err := json.Marshal(map[string]string{"name": name, "value": value})
		if err != nil {
			return false, fmt.Errorf("definition: revalidate encode: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return false, fmt.Errorf("definition: revalidate request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return false, fmt.Errorf("definition: revalidate %s: %w", endpoint, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxRevalidateBody))
		if err != nil {
			return false, fmt.Errorf("definition: revalidate read: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return false, fmt.Errorf("definition: revalidate %s: unexpected status %d", endpoint, resp.StatusCode)
		}

		valid := gjson.GetBytes(data, "valid")
		if valid.Type != gjson.True && valid.Type != gjson.False {
			return false, fmt.Errorf("definition: revalidate %s: response has no boolean valid field", endpoint)
		}
		return valid.Bool(), nil
	}
}
