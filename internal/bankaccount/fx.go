package bankaccount

import (
	"github.com/autotech/workshop/internal/bankaccount/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bankaccount.service",
	fx.Provide(service.New),
)
