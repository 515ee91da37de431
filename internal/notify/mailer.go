package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"
	"ytwatch/internal/models"
	"ytwatch/internal/providers"
	"ytwatch/internal/structures"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

const timeLayout = "15:04 02/01/2006"

var newVideosTemplate = template.Must(template.New("new-videos").Parse(`<div style="font-family:Arial,sans-serif">
<h2>New upload on {{.Channel}}</h2>
<p><b>{{.Newest.Title}}</b></p>
<p>Published: {{.NewestAt}}</p>
<p><a href="{{.Newest.URL}}">Watch on YouTube</a></p>
{{- if .Others}}
<hr/>
<p>Also new since the last email:</p>
<ul>
{{- range .Others}}
<li><a href="{{.URL}}">{{.Title}}</a> ({{.At}})</li>
{{- end}}
</ul>
{{- end}}
</div>`))

const testEmailHTML = `<p>Hello! Email delivery for ytwatch is working.</p>`

type templateVideo struct {
	Title string
	URL   string
	At    string
}

type newVideosData struct {
	Channel  string
	Newest   templateVideo
	NewestAt string
	Others   []templateVideo
}

// Mailer builds the notification emails and sends them through a Notifier.
type Mailer struct {
	notifier Notifier
	from     string
	to       []string
	loc      *time.Location
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewMailer(conf *structures.Config, notifier Notifier, logger providers.Logger, metrics providers.MetricsProviderInterface) *Mailer {
	loc := time.UTC
	if conf.Notify.Timezone != "" {
		l, err := time.LoadLocation(conf.Notify.Timezone)
		if err != nil {
			logger.Warnf(providers.TypeApp, "unknown notify timezone %q, using UTC: %s", conf.Notify.Timezone, err)
		} else {
			loc = l
		}
	}
	return &Mailer{
		notifier: notifier,
		from:     conf.Notify.From,
		to:       conf.Notify.To,
		loc:      loc,
		logger:   logger,
		metrics:  metrics,
	}
}

func (m *Mailer) format(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.In(m.loc).Format(timeLayout)
}

// NotifyNewVideos sends one email for a channel. videos must be non-empty and
// newest first; the first one is the headline.
func (m *Mailer) NotifyNewVideos(ctx context.Context, channelTitle string, videos []models.VideoSummary) error {
	if len(videos) == 0 {
		return fmt.Errorf("notify %s: no videos", channelTitle)
	}

	data := newVideosData{
		Channel:  channelTitle,
		Newest:   templateVideo{Title: videos[0].Title, URL: videos[0].URL()},
		NewestAt: m.format(videos[0].PublishedAt),
	}
	for _, v := range videos[1:] {
		data.Others = append(data.Others, templateVideo{Title: v.Title, URL: v.URL(), At: m.format(v.PublishedAt)})
	}

	var buf bytes.Buffer
	if err := newVideosTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	return m.send(ctx, fmt.Sprintf("YouTube: %s has a new video", channelTitle), buf.String())
}

// SendTest sends a fixed message to check delivery settings.
func (m *Mailer) SendTest(ctx context.Context) error {
	return m.send(ctx, "ytwatch test email", testEmailHTML)
}

func (m *Mailer) send(ctx context.Context, subject, html string) error {
	msg := &Message{
		From:    m.from,
		To:      m.to,
		Subject: subject,
		HTML:    html,
	}
	if text, err := htmltomarkdown.ConvertString(html); err == nil {
		msg.Text = text
	} else {
		m.logger.Debugf(providers.TypePoll, "plain-text body for %q: %s", subject, err)
	}

	id, err := m.notifier.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("send %q: %w", subject, err)
	}
	m.metrics.IncNotificationsSent()
	m.logger.Infof(providers.TypePoll, "email sent: %q id=%s", subject, id)
	return nil
}
