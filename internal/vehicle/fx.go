package vehicle

import (
	"github.com/smallbiznis/garagebook/internal/vehicle/repository"
	"github.com/smallbiznis/garagebook/internal/vehicle/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vehicle.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
