package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/servis-automat/servis/internal/infrastructure/persistence/models"
	"github.com/servis-automat/servis/internal/shared/logger"
)

// AutoMigrateModels lists every persisted model.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.ClubModel{},
		&models.MachineModel{},
		&models.UserModel{},
		&models.TicketModel{},
		&models.TicketStatusHistoryModel{},
		&models.TicketAttachmentModel{},
		&models.RequestNumberSequenceModel{},
	}
}

// GormAutoMigrateStrategy derives the schema from the models. It never drops
// columns, so it is only used for local development.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.gorm"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	list := AutoMigrateModels()
	s.logger.Infow("starting gorm auto migration", "models_count", len(list))

	if err := db.AutoMigrate(list...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	s.logger.Infow("gorm auto migration completed")
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
