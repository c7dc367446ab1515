package dto

import "github.com/servis-automat/servis/internal/domain/club"

type ClubDTO struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	Address string `json:"address,omitempty"`
}

type MachineDTO struct {
	ID     uint   `json:"id"`
	ClubID uint   `json:"club_id"`
	Number string `json:"number"`
	Model  string `json:"model"`
	Label  string `json:"label"`
}

// MachineLabelDTO is a printable QR sticker for one machine.
type MachineLabelDTO struct {
	MachineID uint
	Filename  string
	PNG       []byte
}

func FromClub(c *club.Club) *ClubDTO {
	return &ClubDTO{ID: c.ID, Name: c.Name, City: c.City, Address: c.Address}
}

func FromMachine(m *club.Machine) *MachineDTO {
	return &MachineDTO{ID: m.ID, ClubID: m.ClubID, Number: m.Number, Model: m.Model, Label: m.Label()}
}
