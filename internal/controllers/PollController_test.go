package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"ytwatch/internal/models"
	"ytwatch/internal/services"
	"ytwatch/internal/testutil"
	"ytwatch/internal/youtube"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDispatcher struct {
	report    *models.Report
	runErr    error
	snap      *models.ChannelSnapshot
	videosErr error
	lastRaw   string
	runCtxErr error
}

func (m *mockDispatcher) Run(ctx context.Context) (*models.Report, error) {
	m.runCtxErr = ctx.Err()
	return m.report, m.runErr
}

func (m *mockDispatcher) Videos(_ context.Context, raw string) (*models.ChannelSnapshot, error) {
	m.lastRaw = raw
	return m.snap, m.videosErr
}

type mockMailer struct {
	err   error
	calls int
}

func (m *mockMailer) SendTest(context.Context) error {
	m.calls++
	return m.err
}

func newController(d *mockDispatcher, m *mockMailer) *PollController {
	return NewPollController(&testutil.MockLogger{}, d, m)
}

func TestCheckChannels_ReturnsReport(t *testing.T) {
	d := &mockDispatcher{report: &models.Report{
		OK:        true,
		RunID:     "run-1",
		SentCount: 1,
		Results: []*models.ChannelResult{
			{Input: "@a", ChannelID: "UCa", Outcome: models.OutcomeNotified, VideoID: "v3"},
			{Input: "@b", Outcome: models.OutcomeError, Detail: "channel could not be resolved"},
		},
	}}
	rr := httptest.NewRecorder()
	newController(d, &mockMailer{}).CheckChannels(rr, httptest.NewRequest(http.MethodGet, "/check-channels", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, float64(1), resp["sentCount"])
	results := resp["results"].([]interface{})
	require.Len(t, results, 2)
	assert.Equal(t, "notified", results[0].(map[string]interface{})["outcome"])
	assert.Equal(t, "error", results[1].(map[string]interface{})["outcome"])
}

func TestCheckChannels_ClientDisconnectDoesNotCancelPoll(t *testing.T) {
	d := &mockDispatcher{report: &models.Report{OK: true, RunID: "run-1"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/check-channels", nil).WithContext(ctx)

	rr := httptest.NewRecorder()
	newController(d, &mockMailer{}).CheckChannels(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NoError(t, d.runCtxErr)
}

func TestCheckChannels_Misconfigured(t *testing.T) {
	d := &mockDispatcher{runErr: fmt.Errorf("%w: missing youtube api key", services.ErrMisconfigured)}
	rr := httptest.NewRecorder()
	newController(d, &mockMailer{}).CheckChannels(rr, httptest.NewRequest(http.MethodGet, "/check-channels", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "youtube api key")
}

func TestCheckChannels_MethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	newController(&mockDispatcher{}, &mockMailer{}).CheckChannels(rr, httptest.NewRequest(http.MethodDelete, "/check-channels", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestVideos_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		err    error
		status int
	}{
		{"missing param", "", nil, http.StatusBadRequest},
		{"blank param", "?channel=%20%20", nil, http.StatusBadRequest},
		{"invalid reference", "?channel=x", youtube.ErrInvalidReference, http.StatusBadRequest},
		{"unresolved", "?channel=x", fmt.Errorf("%w: %q", youtube.ErrResolutionFailed, "x"), http.StatusNotFound},
		{"gone", "?channel=x", youtube.ErrChannelNotFound, http.StatusNotFound},
		{"upstream", "?channel=x", &youtube.UpstreamError{Op: "channels", Status: 503}, http.StatusInternalServerError},
		{"ok", "?channel=%40Example", nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &mockDispatcher{
				snap:      &models.ChannelSnapshot{ID: "UCx", Title: "X", Uploads: []models.VideoSummary{{ID: "v1"}}},
				videosErr: tt.err,
			}
			rr := httptest.NewRecorder()
			newController(d, &mockMailer{}).Videos(rr, httptest.NewRequest(http.MethodGet, "/videos"+tt.query, nil))
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestVideos_ReturnsSnapshot(t *testing.T) {
	d := &mockDispatcher{snap: &models.ChannelSnapshot{ID: "UCx", Title: "X", Uploads: []models.VideoSummary{{ID: "v1", Title: "One"}}}}
	rr := httptest.NewRecorder()
	newController(d, &mockMailer{}).Videos(rr, httptest.NewRequest(http.MethodGet, "/videos?channel=%40Example", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "@Example", d.lastRaw)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "UCx", resp["channelId"])
	assert.Len(t, resp["videos"], 1)
}

func TestTestEmail(t *testing.T) {
	m := &mockMailer{}
	rr := httptest.NewRecorder()
	newController(&mockDispatcher{}, m).TestEmail(rr, httptest.NewRequest(http.MethodPost, "/test-email", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, m.calls)

	m = &mockMailer{err: errors.New("401 invalid api key")}
	rr = httptest.NewRecorder()
	newController(&mockDispatcher{}, m).TestEmail(rr, httptest.NewRequest(http.MethodPost, "/test-email", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "api key")

	rr = httptest.NewRecorder()
	newController(&mockDispatcher{}, m).TestEmail(rr, httptest.NewRequest(http.MethodGet, "/test-email", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
