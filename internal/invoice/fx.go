package invoice

import (
	"github.com/autotech/workshop/internal/invoice/repository"
	"github.com/autotech/workshop/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
