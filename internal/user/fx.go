package user

import (
	"github.com/storekeeplabs/storekeep/internal/user/repository"
	"github.com/storekeeplabs/storekeep/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
