package services

import (
	"context"
	"time"

	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/types"
	"go.uber.org/zap"
)

// Pinger reports database reachability and engine version.
type Pinger interface {
	Ping(ctx context.Context) (string, error)
	Path() string
}

type HealthService struct {
	db          Pinger
	serviceName string
	version     string
	startTime   time.Time
	now         func() time.Time
	log         *zap.SugaredLogger
}

func NewHealthService(db Pinger, serviceName, version string) *HealthService {
	return &HealthService{
		db:          db,
		serviceName: serviceName,
		version:     version,
		startTime:   time.Now(),
		now:         time.Now,
		log:         logger.GetLogger(),
	}
}

// CheckHealth reports liveness. It never touches the database, so it
// succeeds whenever the process can serve requests.
func (h *HealthService) CheckHealth() types.HealthCheck {
	return types.HealthCheck{
		OK:      true,
		Service: h.serviceName,
		DB:      h.db.Path(),
		Time:    h.now().UTC().Format(time.RFC3339),
	}
}

// CheckReadiness pings the database.
func (h *HealthService) CheckReadiness(ctx context.Context) types.Readiness {
	version, err := h.db.Ping(ctx)
	if err != nil {
		h.log.Errorw("Database readiness check failed", "error", err)
		return types.Readiness{
			Status:  types.HealthStatusDown,
			Details: "Database connection failed",
			Version: h.version,
			Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		}
	}
	return types.Readiness{
		Status:        types.HealthStatusUp,
		SQLiteVersion: version,
		Version:       h.version,
		Uptime:        time.Since(h.startTime).Round(time.Second).String(),
	}
}
