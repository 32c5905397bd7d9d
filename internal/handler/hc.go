package handler

import (
	"net/http"
	"time"

	"github.com/carlmjohnson/versioninfo"
)

// Health returns the GET /hc handler reporting version, commit and uptime
func Health(version string) http.HandlerFunc {
	started := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"version": version,
			"commit":  versioninfo.Short(),
			"uptime":  time.Since(started).Round(time.Second).String(),
		})
	}
}
