package usecases

import (
	"context"
	"fmt"

	"github.com/servis-automat/servis/internal/application/ticket/dto"
	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/domain/ticket"
	"github.com/servis-automat/servis/internal/domain/user"
)

// Enricher resolves the related records of tickets with one batched lookup
// per related entity type.
type Enricher struct {
	clubRepo       club.Repository
	userRepo       user.Repository
	attachmentRepo ticket.AttachmentRepository
}

func NewEnricher(
	clubRepo club.Repository,
	userRepo user.Repository,
	attachmentRepo ticket.AttachmentRepository,
) *Enricher {
	return &Enricher{
		clubRepo:       clubRepo,
		userRepo:       userRepo,
		attachmentRepo: attachmentRepo,
	}
}

// Enrich maps tickets to DTOs preserving their order.
func (e *Enricher) Enrich(ctx context.Context, tickets []*ticket.Ticket) ([]*dto.TicketDTO, error) {
	if len(tickets) == 0 {
		return []*dto.TicketDTO{}, nil
	}

	var clubIDs, machineIDs, userIDs, ticketIDs idSet
	for _, t := range tickets {
		ticketIDs.add(t.ID())
		clubIDs.add(t.ClubID())
		machineIDs.add(t.MachineID())
		userIDs.add(t.CreatedByUserID())
		if id := t.AssignedTechnicianID(); id != nil {
			userIDs.add(*id)
		}
	}

	clubs, err := e.clubsByID(ctx, clubIDs.ids)
	if err != nil {
		return nil, err
	}
	machines, err := e.machinesByID(ctx, machineIDs.ids)
	if err != nil {
		return nil, err
	}
	users, err := e.usersByID(ctx, userIDs.ids)
	if err != nil {
		return nil, err
	}
	attachments, err := e.attachmentRepo.ListByTicketIDs(ctx, ticketIDs.ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load attachments: %w", err)
	}
	byTicket := make(map[uint][]dto.AttachmentDTO, len(tickets))
	for _, a := range attachments {
		byTicket[a.TicketID] = append(byTicket[a.TicketID], dto.FromAttachment(a))
	}

	out := make([]*dto.TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		d := dto.FromTicket(t)
		d.Club = dto.NewClubRef(clubs[t.ClubID()])
		d.Machine = dto.NewMachineRef(machines[t.MachineID()])
		d.CreatedBy = dto.NewUserRef(users[t.CreatedByUserID()])
		if id := t.AssignedTechnicianID(); id != nil {
			d.AssignedTechnician = dto.NewUserRef(users[*id])
		}
		if list, ok := byTicket[t.ID()]; ok {
			d.Attachments = list
		}
		out = append(out, d)
	}
	return out, nil
}

// EnrichOne is Enrich for a single ticket.
func (e *Enricher) EnrichOne(ctx context.Context, t *ticket.Ticket) (*dto.TicketDTO, error) {
	list, err := e.Enrich(ctx, []*ticket.Ticket{t})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

// EnrichHistory resolves the user behind every entry.
func (e *Enricher) EnrichHistory(ctx context.Context, entries []*ticket.StatusHistoryEntry) ([]*dto.HistoryEntryDTO, error) {
	var userIDs idSet
	for _, entry := range entries {
		userIDs.add(entry.ChangedBy)
	}
	users, err := e.usersByID(ctx, userIDs.ids)
	if err != nil {
		return nil, err
	}

	out := dto.FromHistory(entries)
	for _, d := range out {
		d.Changer = dto.NewUserRef(users[d.ChangedBy])
	}
	return out, nil
}

func (e *Enricher) clubsByID(ctx context.Context, ids []uint) (map[uint]*club.Club, error) {
	out := make(map[uint]*club.Club, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	clubs, err := e.clubRepo.GetClubsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load clubs: %w", err)
	}
	for _, c := range clubs {
		out[c.ID] = c
	}
	return out, nil
}

func (e *Enricher) machinesByID(ctx context.Context, ids []uint) (map[uint]*club.Machine, error) {
	out := make(map[uint]*club.Machine, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	machines, err := e.clubRepo.GetMachinesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load machines: %w", err)
	}
	for _, m := range machines {
		out[m.ID] = m
	}
	return out, nil
}

func (e *Enricher) usersByID(ctx context.Context, ids []uint) (map[uint]*user.User, error) {
	out := make(map[uint]*user.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := e.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		out[u.ID()] = u
	}
	return out, nil
}

// idSet collects distinct non-zero IDs in first-seen order.
type idSet struct {
	seen map[uint]struct{}
	ids  []uint
}

func (s *idSet) add(id uint) {
	if id == 0 {
		return
	}
	if s.seen == nil {
		s.seen = make(map[uint]struct{})
	}
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
}
