package main

import (
	"github.com/autotech/workshop/internal/config"
	"github.com/autotech/workshop/internal/migration"
	"github.com/autotech/workshop/internal/server"
	"github.com/autotech/workshop/pkg/db"
	"github.com/autotech/workshop/pkg/log"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

// RegisterSnowflake provides the shared ID generator node.
func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}
