package utils

import (
	"time"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Status    string          `json:"status"`
	Redis     map[string]bool `json:"redis,omitempty"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// NewHealthStatus summarizes per-client Redis pings. Any failed ping marks
// the service degraded.
func NewHealthStatus(redis map[string]bool) HealthStatus {
	status := "ok"
	for _, up := range redis {
		if !up {
			status = "degraded"
		}
	}
	return HealthStatus{Status: status, Redis: redis, CheckedAt: time.Now()}
}
