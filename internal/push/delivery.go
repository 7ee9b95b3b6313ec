package push

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-logr/logr"
)

// maxRetries and the backoff schedule match spec.md §4.3 exactly: "retry
// with exponential backoff (1 s, 2 s, 4 s ... up to 3 retries)".
const maxRetries = 3

var backoffSchedule = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// EventType tags the kind of outbound notification body.
type EventType string

const (
	EventState    EventType = "state"
	EventProgress EventType = "progress"
	EventResult   EventType = "result"
	EventError    EventType = "error"
)

// Body is the JSON payload posted to a callback URL.
type Body struct {
	TaskID    string      `json:"taskId"`
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Deliverer posts signed webhook bodies with retry-on-5xx, per spec.md
// §4.3.
type Deliverer struct {
	secret []byte
	client *http.Client
	log    logr.Logger
	sleep  func(time.Duration)
}

// NewDeliverer constructs a Deliverer bound to the process push secret.
func NewDeliverer(secret []byte, log logr.Logger) *Deliverer {
	return &Deliverer{
		secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
		sleep:  time.Sleep,
	}
}

// Deliver posts body to callbackURL, signing it with X-XActions-Signature.
// On HTTP 5xx or transport error it retries per backoffSchedule; on any
// HTTP 4xx it gives up immediately; success is any 2xx.
func (d *Deliverer) Deliver(ctx context.Context, callbackURL string, body Body) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	signature := SignBody(d.secret, raw)

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			d.sleep(backoffSchedule[attempt-1])
		}

		status, err := d.post(ctx, callbackURL, raw, signature)
		if err == nil && status >= 200 && status < 300 {
			return nil
		}
		if err == nil && status >= 400 && status < 500 {
			d.log.V(0).Info("push delivery rejected, not retrying", "url", callbackURL, "status", status)
			return errStatus(status)
		}

		lastErr = err
		if lastErr == nil {
			lastErr = errStatus(status)
		}
		d.log.V(1).Info("push delivery attempt failed", "url", callbackURL, "attempt", attempt, "error", lastErr.Error())
	}
	return lastErr
}

func (d *Deliverer) post(ctx context.Context, url string, body []byte, signature string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-XActions-Signature", signature)

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

type httpStatusError int

func (e httpStatusError) Error() string {
	return "push callback returned non-2xx status"
}

func errStatus(status int) error { return httpStatusError(status) }
