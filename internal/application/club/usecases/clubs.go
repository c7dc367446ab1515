package usecases

import (
	"context"
	"fmt"

	"github.com/servis-automat/servis/internal/application/club/dto"
	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/domain/permission"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
)

// LabelRenderer encodes the new-ticket link of a machine as a PNG.
type LabelRenderer interface {
	PNG(clubID, machineID uint) ([]byte, error)
}

type ListClubsUseCase struct {
	clubRepo club.Repository
	policy   permission.Policy
	logger   logger.Interface
}

func NewListClubsUseCase(clubRepo club.Repository, policy permission.Policy, logger logger.Interface) *ListClubsUseCase {
	return &ListClubsUseCase{clubRepo: clubRepo, policy: policy, logger: logger}
}

// Execute returns every club to staff and only the caller's own club to club users.
func (uc *ListClubsUseCase) Execute(ctx context.Context, identity authorization.Identity) ([]*dto.ClubDTO, error) {
	var clubs []*club.Club
	if identity.Role.IsClub() {
		if !uc.policy.CanPerform(identity, permission.ActionReadClubs, permission.ClubResource(identity.ClubIDValue())) {
			return nil, errors.NewForbiddenError("not allowed to read clubs")
		}
		c, err := uc.clubRepo.GetClub(ctx, identity.ClubIDValue())
		if err != nil {
			return nil, errors.FromStoreError(err, "failed to list clubs")
		}
		if c != nil {
			clubs = append(clubs, c)
		}
	} else {
		if !uc.policy.CanPerform(identity, permission.ActionReadClubs, permission.ClubResource(0)) {
			return nil, errors.NewForbiddenError("not allowed to read clubs")
		}
		var err error
		clubs, err = uc.clubRepo.ListClubs(ctx)
		if err != nil {
			uc.logger.Errorw("failed to list clubs", "error", err)
			return nil, errors.FromStoreError(err, "failed to list clubs")
		}
	}

	result := make([]*dto.ClubDTO, 0, len(clubs))
	for _, c := range clubs {
		result = append(result, dto.FromClub(c))
	}
	return result, nil
}

type ListMachinesUseCase struct {
	clubRepo club.Repository
	policy   permission.Policy
	logger   logger.Interface
}

func NewListMachinesUseCase(clubRepo club.Repository, policy permission.Policy, logger logger.Interface) *ListMachinesUseCase {
	return &ListMachinesUseCase{clubRepo: clubRepo, policy: policy, logger: logger}
}

func (uc *ListMachinesUseCase) Execute(ctx context.Context, identity authorization.Identity, clubID uint) ([]*dto.MachineDTO, error) {
	if clubID == 0 {
		return nil, errors.NewValidationError("invalid fields: club_id", "club_id")
	}
	if !uc.policy.CanPerform(identity, permission.ActionReadClubs, permission.ClubResource(clubID)) {
		return nil, errors.NewForbiddenError("not allowed to read this club")
	}

	c, err := uc.clubRepo.GetClub(ctx, clubID)
	if err != nil {
		return nil, errors.FromStoreError(err, "failed to list machines")
	}
	if c == nil {
		return nil, errors.NewNotFoundError("club not found")
	}

	machines, err := uc.clubRepo.ListMachines(ctx, clubID)
	if err != nil {
		uc.logger.Errorw("failed to list machines", "club_id", clubID, "error", err)
		return nil, errors.FromStoreError(err, "failed to list machines")
	}

	result := make([]*dto.MachineDTO, 0, len(machines))
	for _, m := range machines {
		result = append(result, dto.FromMachine(m))
	}
	return result, nil
}

type MachineLabelUseCase struct {
	clubRepo club.Repository
	labels   LabelRenderer
	policy   permission.Policy
	logger   logger.Interface
}

func NewMachineLabelUseCase(clubRepo club.Repository, labels LabelRenderer, policy permission.Policy, logger logger.Interface) *MachineLabelUseCase {
	return &MachineLabelUseCase{clubRepo: clubRepo, labels: labels, policy: policy, logger: logger}
}

func (uc *MachineLabelUseCase) Execute(ctx context.Context, identity authorization.Identity, machineID uint) (*dto.MachineLabelDTO, error) {
	if machineID == 0 {
		return nil, errors.NewValidationError("invalid fields: machine_id", "machine_id")
	}

	m, err := uc.clubRepo.GetMachine(ctx, machineID)
	if err != nil {
		return nil, errors.FromStoreError(err, "failed to load machine")
	}
	if m == nil {
		return nil, errors.NewNotFoundError("machine not found")
	}
	if !uc.policy.CanPerform(identity, permission.ActionReadClubs, permission.ClubResource(m.ClubID)) {
		return nil, errors.NewForbiddenError("not allowed to read this club")
	}

	png, err := uc.labels.PNG(m.ClubID, m.ID)
	if err != nil {
		uc.logger.Errorw("failed to render machine label", "machine_id", m.ID, "error", err)
		return nil, errors.NewInternalError("failed to render machine label")
	}

	return &dto.MachineLabelDTO{
		MachineID: m.ID,
		Filename:  fmt.Sprintf("machine-%d.png", m.ID),
		PNG:       png,
	}, nil
}
