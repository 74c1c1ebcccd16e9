package client

import (
	"github.com/autotech/workshop/internal/client/repository"
	"github.com/autotech/workshop/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
