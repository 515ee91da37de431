package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"ytwatch/internal/providers"
	"ytwatch/internal/retry"
	"ytwatch/internal/structures"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const maxAPIBody = 4 << 20

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

type channelItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title string `json:"title"`
	} `json:"snippet"`
	ContentDetails struct {
		RelatedPlaylists struct {
			Uploads string `json:"uploads"`
		} `json:"relatedPlaylists"`
	} `json:"contentDetails"`
}

type channelListResponse struct {
	Items []channelItem `json:"items"`
}

type searchResponse struct {
	Items []struct {
		ID struct {
			ChannelID string `json:"channelId"`
		} `json:"id"`
		Snippet struct {
			ChannelID string `json:"channelId"`
		} `json:"snippet"`
	} `json:"items"`
}

type playlistItem struct {
	Snippet struct {
		Title       string `json:"title"`
		PublishedAt string `json:"publishedAt"`
		ResourceID  struct {
			VideoID string `json:"videoId"`
		} `json:"resourceId"`
	} `json:"snippet"`
}

type playlistItemsResponse struct {
	Items []playlistItem `json:"items"`
}

// Client talks to the YouTube Data API v3. Every call is rate limited and
// retried on transient failures.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	retry   retry.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) *Client {
	limit := rate.Inf
	if conf.YouTube.RequestsPerSecond > 0 {
		limit = rate.Limit(conf.YouTube.RequestsPerSecond)
	}
	return &Client{
		http:    &http.Client{Timeout: conf.YouTube.Timeout},
		baseURL: strings.TrimRight(conf.YouTube.BaseURL, "/"),
		apiKey:  conf.YouTube.APIKey,
		limiter: rate.NewLimiter(limit, max(int(conf.YouTube.RequestsPerSecond), 1)),
		retry: retry.Config{
			Attempts:       conf.Retry.Attempts,
			BaseDelay:      conf.Retry.BaseDelay,
			MaxDelay:       conf.Retry.MaxDelay,
			MaxElapsed:     conf.Retry.MaxElapsed,
			JitterFraction: 0.2,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// ChannelByUsername looks up a legacy username. Empty result means no match.
func (c *Client) ChannelByUsername(ctx context.Context, username string) (string, error) {
	var out channelListResponse
	err := c.get(ctx, "channels.forUsername", "channels", url.Values{
		"part":        {"id"},
		"forUsername": {username},
	}, &out)
	if err != nil || len(out.Items) == 0 {
		return "", err
	}
	return out.Items[0].ID, nil
}

// ChannelByHandle looks up an "@handle".
func (c *Client) ChannelByHandle(ctx context.Context, handle string) (string, error) {
	var out channelListResponse
	err := c.get(ctx, "channels.forHandle", "channels", url.Values{
		"part":      {"id"},
		"forHandle": {handle},
	}, &out)
	if err != nil || len(out.Items) == 0 {
		return "", err
	}
	return out.Items[0].ID, nil
}

// SearchChannel returns the best guess channel for a free-text query.
func (c *Client) SearchChannel(ctx context.Context, query string) (string, error) {
	var out searchResponse
	err := c.get(ctx, "search", "search", url.Values{
		"part":       {"snippet"},
		"type":       {"channel"},
		"maxResults": {"1"},
		"q":          {query},
	}, &out)
	if err != nil || len(out.Items) == 0 {
		return "", err
	}
	if id := out.Items[0].ID.ChannelID; id != "" {
		return id, nil
	}
	return out.Items[0].Snippet.ChannelID, nil
}

func (c *Client) channelDetails(ctx context.Context, channelID string) (*channelItem, error) {
	var out channelListResponse
	err := c.get(ctx, "channels", "channels", url.Values{
		"part": {"snippet,contentDetails"},
		"id":   {channelID},
	}, &out)
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}
	return &out.Items[0], nil
}

func (c *Client) playlistItems(ctx context.Context, playlistID string, maxResults int) ([]playlistItem, error) {
	var out playlistItemsResponse
	err := c.get(ctx, "playlistItems", "playlistItems", url.Values{
		"part":       {"snippet"},
		"playlistId": {playlistID},
		"maxResults": {strconv.Itoa(maxResults)},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + "/" + path + "?" + params.Encode()

	cfg := c.retry
	cfg.Retryable = IsRetryable
	cfg.OnRetry = func(attempt int, err error, wait time.Duration) {
		c.metrics.IncUpstreamRetries(op)
		c.logger.Warnf(providers.TypePoll, "%s attempt %d failed, retrying in %s: %s", op, attempt, wait, err)
	}

	_, err := retry.Do(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.do(ctx, op, endpoint, out)
	})
	return err
}

func (c *Client) do(ctx context.Context, op, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error carries the request URL, which contains the API key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return &UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxAPIBody)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(op, resp.StatusCode, body)
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func classifyStatus(op string, status int, body io.Reader) error {
	var envelope apiError
	_ = json.NewDecoder(body).Decode(&envelope)

	reason := ""
	if len(envelope.Error.Errors) > 0 {
		reason = envelope.Error.Errors[0].Reason
	}
	if status == http.StatusUnauthorized || credentialReasons[reason] {
		return fmt.Errorf("%s: %w (%d %s)", op, ErrInvalidCredentials, status, reason)
	}
	return &UpstreamError{
		Op:      op,
		Status:  status,
		Reason:  reason,
		Message: envelope.Error.Message,
	}
}
