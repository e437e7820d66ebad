package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/rs/zerolog"

	"jobtrack-engine/internal/config"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/service"
)

type Deps struct {
	DB  *sql.DB
	Hub *events.Hub
	Log zerolog.Logger

	Svc *service.Service

	// Atomic stores
	CfgVal     *atomic.Value // stores config.Config
	PollStatus *atomic.Value // stores httpapi.PollStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Injected for testability
	RunPollOnce func(ctx context.Context, cfg config.Config) (added int, err error)
	SweepOnce   func(ctx context.Context) (int, error)
}
