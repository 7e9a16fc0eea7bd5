package trucks

import (
	"context"

	apphttp "foodtruck_backend/internal/http"
	"foodtruck_backend/internal/trucks/handler"
	"foodtruck_backend/internal/trucks/registry"
	"foodtruck_backend/internal/trucks/service"
	"foodtruck_backend/platform/apperr"
	"foodtruck_backend/platform/logger"
	"foodtruck_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
	store   *registry.Store
}

func NewModule(store *registry.Store, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(store)
	h := handler.New(svc, val, log)

	return &Module{handler: h, store: store}
}

func (m *Module) Name() string {
	return "trucks"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Root.Group("/search")
	m.handler.RegisterRoutes(group)
}

// Health reports the size and age of the active snapshot.
func (m *Module) Health(_ context.Context) (apphttp.HealthReport, error) {
	snap := m.store.Current()
	if snap == nil {
		return apphttp.HealthReport{}, apperr.Unavailable("truck registry is not loaded yet")
	}
	return apphttp.HealthReport{
		Records:  snap.Len(),
		Source:   snap.Source(),
		LoadedAt: snap.LoadedAt(),
	}, nil
}

var (
	_ apphttp.Module        = (*Module)(nil)
	_ apphttp.HealthChecker = (*Module)(nil)
)
