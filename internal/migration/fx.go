package migration

import (
	auditdomain "github.com/invoq/invoq/internal/audit/domain"
	companydomain "github.com/invoq/invoq/internal/company/domain"
	"github.com/invoq/invoq/internal/config"
	customerdomain "github.com/invoq/invoq/internal/customer/domain"
	invoicedomain "github.com/invoq/invoq/internal/invoice/domain"
	"github.com/invoq/invoq/internal/sequence"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if !cfg.MigrateOnStart {
			return nil
		}

		// Versioned migrations target postgres. The sqlite path exists for
		// local single-binary runs and derives the schema from the models.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&companydomain.Company{},
				&customerdomain.Customer{},
				&invoicedomain.Invoice{},
				&invoicedomain.InvoiceItem{},
				&invoicedomain.AdditionalCharge{},
				&sequence.Counter{},
				&auditdomain.AuditLog{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
