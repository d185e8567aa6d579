package customer

import (
	"github.com/invoq/invoq/internal/customer/repository"
	"github.com/invoq/invoq/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
