package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"ytwatch/internal/providers"
	"ytwatch/internal/services"
	"ytwatch/internal/youtube"

	json "github.com/goccy/go-json"
)

type TestMailer interface {
	SendTest(ctx context.Context) error
}

type PollController struct {
	logger     providers.Logger
	dispatcher services.DispatcherInterface
	mailer     TestMailer
}

func NewPollController(logger providers.Logger, dispatcher services.DispatcherInterface, mailer TestMailer) *PollController {
	return &PollController{
		logger:     logger,
		dispatcher: dispatcher,
		mailer:     mailer,
	}
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// CheckChannels runs one poll. Channel failures are part of the 200 report.
// The poll runs to completion even if the client disconnects.
func (pc *PollController) CheckChannels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	report, err := pc.dispatcher.Run(context.WithoutCancel(r.Context()))
	if err != nil {
		pc.logger.Errorf(providers.TypeGet, "check-channels: %s", err)
		if errors.Is(err, services.ErrMisconfigured) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "poll failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Videos lists the recent uploads of one channel without notifying.
func (pc *PollController) Videos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	raw := r.URL.Query().Get("channel")
	if strings.TrimSpace(raw) == "" {
		writeError(w, http.StatusBadRequest, "channel query parameter is required")
		return
	}

	snap, err := pc.dispatcher.Videos(r.Context(), raw)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, snap)
	case errors.Is(err, youtube.ErrInvalidReference):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, youtube.ErrResolutionFailed), errors.Is(err, youtube.ErrChannelNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		pc.logger.Errorf(providers.TypeGet, "videos %q: %s", raw, err)
		writeError(w, http.StatusInternalServerError, "upstream request failed")
	}
}

func (pc *PollController) TestEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := pc.mailer.SendTest(r.Context()); err != nil {
		pc.logger.Errorf(providers.TypePost, "test email: %s", err)
		writeError(w, http.StatusInternalServerError, "email could not be sent")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
