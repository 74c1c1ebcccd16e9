package repairorder

import (
	"github.com/autotech/workshop/internal/repairorder/repository"
	"github.com/autotech/workshop/internal/repairorder/service"
	"go.uber.org/fx"
)

var Module = fx.Module("repairorder.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
