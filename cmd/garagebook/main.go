package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/garagebook/internal/account"
	"github.com/smallbiznis/garagebook/internal/attachment"
	"github.com/smallbiznis/garagebook/internal/auth"
	"github.com/smallbiznis/garagebook/internal/clock"
	"github.com/smallbiznis/garagebook/internal/config"
	"github.com/smallbiznis/garagebook/internal/customer"
	"github.com/smallbiznis/garagebook/internal/dashboard"
	"github.com/smallbiznis/garagebook/internal/invoice"
	"github.com/smallbiznis/garagebook/internal/jobitem"
	"github.com/smallbiznis/garagebook/internal/jobsheet"
	"github.com/smallbiznis/garagebook/internal/migration"
	"github.com/smallbiznis/garagebook/internal/observability"
	"github.com/smallbiznis/garagebook/internal/providers"
	"github.com/smallbiznis/garagebook/internal/ratelimit"
	"github.com/smallbiznis/garagebook/internal/server"
	"github.com/smallbiznis/garagebook/internal/vehicle"
	"github.com/smallbiznis/garagebook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),

		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		auth.Module,
		ratelimit.Module,
		providers.Module,

		// Functional Domains
		account.Module,
		customer.Module,
		vehicle.Module,
		jobsheet.Module,
		jobitem.Module,
		attachment.Module,
		invoice.Module,
		dashboard.Module,

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
