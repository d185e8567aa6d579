package invoice

import (
	"github.com/invoq/invoq/internal/invoice/repository"
	"github.com/invoq/invoq/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
