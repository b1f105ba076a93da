package services

import (
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
)

const DEFAULT_HTTP_TIMEOUT = 10 * time.Second

// ServiceHTTP hands out heimdall clients for upstream calls. Every outbound
// request gets an explicit timeout and bounded retries so a wedged
// collaborator surfaces as ErrUpstreamUnavailable instead of hanging the
// request.
type ServiceHTTP struct{}

func (service *ServiceHTTP) httpClient(timeout time.Duration) *httpclient.Client {
	if timeout == 0 {
		timeout = DEFAULT_HTTP_TIMEOUT
	}

	backoff := heimdall.NewConstantBackoff(500*time.Millisecond, 100*time.Millisecond)
	return httpclient.NewClient(
		httpclient.WithHTTPTimeout(timeout),
		httpclient.WithRetrier(heimdall.NewRetrier(backoff)),
		httpclient.WithRetryCount(2),
	)
}
