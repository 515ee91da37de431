package controllers

import (
	"fmt"
	"net/http"
	"time"
	"ytwatch/internal/structures"
)

type HealthController struct {
	config    *structures.Config
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Channels      int     `json:"channels"`
	Store         string  `json:"store"`
	Polling       bool    `json:"polling"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Channels:      len(hc.config.Poll.Channels),
		Store:         hc.config.Store.Driver,
		Polling:       hc.config.Poll.Enabled,
	})
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(config *structures.Config) *HealthController {
	return &HealthController{
		config:    config,
		startTime: time.Now(),
	}
}
