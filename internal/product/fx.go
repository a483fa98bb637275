package product

import (
	"github.com/storekeeplabs/storekeep/internal/product/repository"
	"github.com/storekeeplabs/storekeep/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
