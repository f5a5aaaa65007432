// Package responses defines response types used by the mdwiki HTTP handlers.
package responses

import "time"

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Version   string       `json:"version"`
	Uptime    float64      `json:"uptime"`
	Root      string       `json:"root"`
	LastBuild *BuildStatus `json:"last_build,omitempty"`
}

// BuildStatus summarizes the most recent build of the served tree.
type BuildStatus struct {
	BuildID     string    `json:"build_id"`
	Outcome     string    `json:"outcome"`
	Rendered    int       `json:"rendered"`
	Fresh       int       `json:"fresh"`
	Failed      int       `json:"failed"`
	CompletedAt time.Time `json:"completed_at"`
}
