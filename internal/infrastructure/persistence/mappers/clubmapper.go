package mappers

import (
	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/infrastructure/persistence/models"
)

// Clubs and machines carry no invariants of their own, so mapping is a
// plain field copy.
func ClubToDomain(model *models.ClubModel) *club.Club {
	return &club.Club{ID: model.ID, Name: model.Name, City: model.City, Address: model.Address}
}

func ClubToModel(c *club.Club) *models.ClubModel {
	return &models.ClubModel{ID: c.ID, Name: c.Name, City: c.City, Address: c.Address}
}

func MachineToDomain(model *models.MachineModel) *club.Machine {
	return &club.Machine{ID: model.ID, ClubID: model.ClubID, Number: model.Number, Model: model.Model}
}

func MachineToModel(m *club.Machine) *models.MachineModel {
	return &models.MachineModel{ID: m.ID, ClubID: m.ClubID, Number: m.Number, Model: m.Model}
}
