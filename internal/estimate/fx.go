package estimate

import (
	"github.com/autotech/workshop/internal/estimate/repository"
	"github.com/autotech/workshop/internal/estimate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("estimate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
