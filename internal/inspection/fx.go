package inspection

import (
	"github.com/autotech/workshop/internal/inspection/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inspection.service",
	fx.Provide(service.New),
)
