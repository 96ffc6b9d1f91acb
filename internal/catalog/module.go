// Package catalog provides the catalog bounded context module.
package catalog

import (
	"storebot_backend/internal/catalog/handler"
	"storebot_backend/internal/catalog/repository"
	"storebot_backend/internal/catalog/service"
	"storebot_backend/internal/events"
	apphttp "storebot_backend/internal/http"
	"storebot_backend/platform/config"
	"storebot_backend/platform/logger"
	"storebot_backend/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module with the file-backed
// store.
func NewModule(cfg interface {
	config.StoreConfig
	config.BotConfig
}, val *validator.Validator, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.NewFile(cfg.GetProductsFile(), log)
	svc := service.New(repo, val, bus, log, cfg.GetBotName())

	return &Module{
		handler: handler.New(repo),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/catalog/products", m.handler.ListProducts)
	ctx.Protected.GET("/catalog/products/:name", m.handler.GetProductByName)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
