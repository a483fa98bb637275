package auth

import (
	"github.com/storekeeplabs/storekeep/internal/auth/repository"
	"github.com/storekeeplabs/storekeep/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
