package types

// HealthCheck is the body of GET /api/health.
type HealthCheck struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	DB      string `json:"db"`
	Time    string `json:"time"`
}

type HealthStatus string

const (
	HealthStatusUp   HealthStatus = "UP"
	HealthStatusDown HealthStatus = "DOWN"
)

// Readiness is the body of GET /health/readiness.
type Readiness struct {
	Status        HealthStatus `json:"status"`
	Details       string       `json:"details,omitempty"`
	SQLiteVersion string       `json:"sqlite_version,omitempty"`
	Version       string       `json:"version"`
	Uptime        string       `json:"uptime"`
}
