package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"ytwatch/internal/retry"
	"ytwatch/internal/structures"

	json "github.com/goccy/go-json"
)

const maxResendBody = 1 << 20

// SendError is a non-2xx answer from the email API.
type SendError struct {
	Status  int
	Name    string
	Message string
}

func (e *SendError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("email api: %d %s: %s", e.Status, e.Name, e.Message)
	}
	return fmt.Sprintf("email api: %d %s", e.Status, http.StatusText(e.Status))
}

func (e *SendError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

type resendResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ResendNotifier posts messages to the Resend HTTP API.
type ResendNotifier struct {
	http    *http.Client
	baseURL string
	apiKey  string
	retry   retry.Config
}

func NewResendNotifier(conf *structures.Config) *ResendNotifier {
	return &ResendNotifier{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(conf.Notify.BaseURL, "/"),
		apiKey:  conf.Notify.APIKey,
		retry: retry.Config{
			Attempts:       conf.Retry.Attempts,
			BaseDelay:      conf.Retry.BaseDelay,
			MaxDelay:       conf.Retry.MaxDelay,
			MaxElapsed:     conf.Retry.MaxElapsed,
			JitterFraction: 0.2,
			Retryable: func(err error) bool {
				var se *SendError
				return errors.As(err, &se) && se.Temporary()
			},
		},
	}
}

// Send returns the provider message ID.
func (r *ResendNotifier) Send(ctx context.Context, msg *Message) (string, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("encode email: %w", err)
	}
	return retry.Do(ctx, r.retry, func(ctx context.Context) (string, error) {
		return r.post(ctx, payload)
	})
}

func (r *ResendNotifier) post(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	var out resendResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxResendBody)).Decode(&out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &SendError{Status: resp.StatusCode, Name: out.Name, Message: out.Message}
	}
	return out.ID, nil
}
