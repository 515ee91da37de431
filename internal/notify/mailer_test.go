package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"
	"ytwatch/internal/models"
	"ytwatch/internal/structures"
	"ytwatch/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []*Message
	err  error
}

func (r *recordingNotifier) Send(_ context.Context, msg *Message) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return "msg-1", nil
}

func mailerConfig(tz string) *structures.Config {
	return &structures.Config{
		Notify: structures.NotifyConfig{
			Provider: "resend",
			From:     "Tracker <alerts@example.com>",
			To:       []string{"me@example.com"},
			Timezone: tz,
		},
	}
}

func TestMailer_NotifyNewVideos(t *testing.T) {
	rec := &recordingNotifier{}
	metrics := &testutil.MockMetrics{}
	m := NewMailer(mailerConfig("Asia/Ho_Chi_Minh"), rec, &testutil.MockLogger{}, metrics)

	videos := []models.VideoSummary{
		{ID: "V3", Title: "Newest <one>", PublishedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "V2", Title: "Older", PublishedAt: time.Date(2025, 2, 28, 23, 30, 0, 0, time.UTC)},
	}
	require.NoError(t, m.NotifyNewVideos(context.Background(), "Example", videos))

	require.Len(t, rec.msgs, 1)
	msg := rec.msgs[0]
	assert.Equal(t, "YouTube: Example has a new video", msg.Subject)
	assert.Equal(t, []string{"me@example.com"}, msg.To)
	assert.Equal(t, "Tracker <alerts@example.com>", msg.From)
	assert.Contains(t, msg.HTML, "Newest &lt;one&gt;")
	assert.Contains(t, msg.HTML, "17:00 01/03/2025")
	assert.Contains(t, msg.HTML, "06:30 01/03/2025")
	assert.Contains(t, msg.HTML, "https://www.youtube.com/watch?v=V3")
	assert.Contains(t, msg.HTML, "https://www.youtube.com/watch?v=V2")
	assert.Contains(t, msg.Text, "Older")
	assert.Equal(t, 1, metrics.Notifications)
}

func TestMailer_SingleVideoHasNoSecondaryList(t *testing.T) {
	rec := &recordingNotifier{}
	m := NewMailer(mailerConfig(""), rec, &testutil.MockLogger{}, &testutil.MockMetrics{})

	err := m.NotifyNewVideos(context.Background(), "Example", []models.VideoSummary{{ID: "V1", Title: "Only"}})
	require.NoError(t, err)
	assert.NotContains(t, rec.msgs[0].HTML, "<ul>")
	assert.Contains(t, rec.msgs[0].HTML, "unknown")
}

func TestMailer_NoVideos(t *testing.T) {
	rec := &recordingNotifier{}
	m := NewMailer(mailerConfig(""), rec, &testutil.MockLogger{}, &testutil.MockMetrics{})

	assert.Error(t, m.NotifyNewVideos(context.Background(), "Example", nil))
	assert.Empty(t, rec.msgs)
}

func TestMailer_SendFailure(t *testing.T) {
	rec := &recordingNotifier{err: errors.New("smtp down")}
	metrics := &testutil.MockMetrics{}
	m := NewMailer(mailerConfig(""), rec, &testutil.MockLogger{}, metrics)

	err := m.SendTest(context.Background())
	assert.ErrorContains(t, err, "smtp down")
	assert.Zero(t, metrics.Notifications)
}

func TestMailer_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	logger := &testutil.MockLogger{}
	m := NewMailer(mailerConfig("Mars/Olympus"), &recordingNotifier{}, logger, &testutil.MockMetrics{})
	assert.Equal(t, time.UTC, m.loc)
	assert.Equal(t, 1, logger.Count("warn"))
}

func TestLogNotifier(t *testing.T) {
	logger := &testutil.MockLogger{}
	n := NewNotifier(&structures.Config{Notify: structures.NotifyConfig{Provider: "log"}}, logger)

	id, err := n.Send(context.Background(), &Message{To: []string{"a@b.c"}, Subject: "hi"})
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, 1, logger.Count("info"))
}
