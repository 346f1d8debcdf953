package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/smallbiznis/enrolla/internal/catalog"
	"github.com/smallbiznis/enrolla/internal/config"
	"github.com/smallbiznis/enrolla/internal/observability"
	"github.com/smallbiznis/enrolla/internal/pricing"
	"github.com/smallbiznis/enrolla/internal/quote"
	"github.com/smallbiznis/enrolla/internal/server"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),

		// Functional domains
		catalog.Module,
		pricing.Module,
		quote.Module,

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
