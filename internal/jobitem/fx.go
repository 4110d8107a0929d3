package jobitem

import (
	"github.com/smallbiznis/garagebook/internal/jobitem/repository"
	"github.com/smallbiznis/garagebook/internal/jobitem/service"
	"go.uber.org/fx"
)

var Module = fx.Module("jobitem.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
