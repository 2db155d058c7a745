package convert

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// fetch gets a remote image, retrying transport errors and 5xx or 429
// answers up to the configured number of times with a linear backoff.
func (r *Resolver) fetch(ctx context.Context, target string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			r.logger.Debug("retrying image fetch",
				"url", target,
				"attempt", attempt,
				"error", lastErr)

			t := time.NewTimer(time.Duration(attempt) * r.backoff)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
		}

		data, retry, err := r.get(ctx, target)
		if err == nil {
			return data, nil
		}

		lastErr = err
		if !retry {
			break
		}
	}

	return nil, lastErr
}

// get makes a single request. The boolean reports whether a failure may be
// retried.
func (r *Resolver) get(ctx context.Context, target string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, err
	}

	res, err := r.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		retry := res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests
		return nil, retry, fmt.Errorf("%w: %s", ErrBadStatus, res.Status)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}

	return data, false, nil
}
