package vehicle

import (
	"github.com/autotech/workshop/internal/vehicle/repository"
	"github.com/autotech/workshop/internal/vehicle/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vehicle.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
