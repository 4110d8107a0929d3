package jobsheet

import (
	"github.com/smallbiznis/garagebook/internal/jobsheet/repository"
	"github.com/smallbiznis/garagebook/internal/jobsheet/service"
	"go.uber.org/fx"
)

var Module = fx.Module("jobsheet.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
