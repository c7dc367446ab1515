// Package club holds the read-mostly reference data tickets point at: the
// service clubs and the machines installed in them.
package club

import (
	"context"
	"fmt"
	"strings"
)

type Club struct {
	ID      uint
	Name    string
	City    string
	Address string
}

type Machine struct {
	ID     uint
	ClubID uint
	Number string
	Model  string
}

// Label is the short human name of a machine, e.g. "#12 EGT Multigame".
func (m *Machine) Label() string {
	return strings.TrimSpace(fmt.Sprintf("#%s %s", m.Number, m.Model))
}

type Repository interface {
	// GetClub returns nil, nil when the club does not exist.
	GetClub(ctx context.Context, id uint) (*Club, error)
	GetClubsByIDs(ctx context.Context, ids []uint) ([]*Club, error)
	ListClubs(ctx context.Context) ([]*Club, error)
	CreateClub(ctx context.Context, c *Club) error

	// GetMachine returns nil, nil when the machine does not exist.
	GetMachine(ctx context.Context, id uint) (*Machine, error)
	GetMachinesByIDs(ctx context.Context, ids []uint) ([]*Machine, error)
	ListMachines(ctx context.Context, clubID uint) ([]*Machine, error)
	CreateMachine(ctx context.Context, m *Machine) error
}
