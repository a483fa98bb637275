package task

import (
	"github.com/storekeeplabs/storekeep/internal/task/repository"
	"github.com/storekeeplabs/storekeep/internal/task/service"
	"go.uber.org/fx"
)

var Module = fx.Module("task.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
