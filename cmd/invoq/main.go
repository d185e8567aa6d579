package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/invoq/invoq/internal/config"
	"github.com/invoq/invoq/internal/logger"
	"github.com/invoq/invoq/internal/migration"
	"github.com/invoq/invoq/internal/server"
	"github.com/invoq/invoq/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
