package schedule

import (
	"github.com/storekeeplabs/storekeep/internal/schedule/repository"
	"github.com/storekeeplabs/storekeep/internal/schedule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("schedule.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
