package handlers

import (
	"context"

	clubdto "github.com/servis-automat/servis/internal/application/club/dto"
	reportdto "github.com/servis-automat/servis/internal/application/report/dto"
	"github.com/servis-automat/servis/internal/shared/authorization"
)

// Use case interfaces for handlers whose use cases take the caller directly.

type listClubsUseCase interface {
	Execute(ctx context.Context, identity authorization.Identity) ([]*clubdto.ClubDTO, error)
}

type listMachinesUseCase interface {
	Execute(ctx context.Context, identity authorization.Identity, clubID uint) ([]*clubdto.MachineDTO, error)
}

type machineLabelUseCase interface {
	Execute(ctx context.Context, identity authorization.Identity, machineID uint) (*clubdto.MachineLabelDTO, error)
}

type weeklyReportUseCase interface {
	Execute(ctx context.Context, identity authorization.Identity) (*reportdto.WeeklyReportDTO, error)
}

type sendWeeklyReportUseCase interface {
	Execute(ctx context.Context, identity authorization.Identity) (*reportdto.SendWeeklyReportResult, error)
}
