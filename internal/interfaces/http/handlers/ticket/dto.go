package ticket

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/servis-automat/servis/internal/application/ticket/usecases"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/errors"
)

const defaultMimeType = "application/octet-stream"

type AttachmentRequest struct {
	FileName string `json:"file_name" binding:"required,max=255"`
	FileData string `json:"file_data" binding:"required"`
	MimeType string `json:"mime_type,omitempty"`
}

type CreateTicketRequest struct {
	ClubID               uint                `json:"club_id" binding:"required"`
	MachineID            uint                `json:"machine_id" binding:"required"`
	Title                string              `json:"title" binding:"required,max=200"`
	Description          string              `json:"description" binding:"max=5000"`
	EmployeeName         string              `json:"employee_name" binding:"max=100"`
	Manufacturer         string              `json:"manufacturer" binding:"max=100"`
	GameName             string              `json:"game_name" binding:"max=100"`
	CanPlay              string              `json:"can_play"`
	AssignedTechnicianID *uint               `json:"assigned_technician_id,omitempty"`
	Attachments          []AttachmentRequest `json:"attachments,omitempty" binding:"max=10,dive"`
}

func (r *CreateTicketRequest) ToCommand(identity authorization.Identity) (usecases.CreateTicketCommand, error) {
	attachments := make([]usecases.AttachmentInput, 0, len(r.Attachments))
	for i, a := range r.Attachments {
		input, err := decodeAttachment(a)
		if err != nil {
			return usecases.CreateTicketCommand{}, errors.NewValidationError(
				"invalid attachment", fmt.Sprintf("attachments[%d]: %v", i, err))
		}
		attachments = append(attachments, input)
	}

	return usecases.CreateTicketCommand{
		Identity:             identity,
		ClubID:               r.ClubID,
		MachineID:            r.MachineID,
		Title:                r.Title,
		Description:          r.Description,
		EmployeeName:         r.EmployeeName,
		Manufacturer:         r.Manufacturer,
		GameName:             r.GameName,
		CanPlay:              r.CanPlay,
		AssignedTechnicianID: r.AssignedTechnicianID,
		Attachments:          attachments,
	}, nil
}

// decodeAttachment accepts either a data URL ("data:image/png;base64,...")
// or bare standard base64. An explicit mime_type wins over the data URL one.
func decodeAttachment(a AttachmentRequest) (usecases.AttachmentInput, error) {
	payload := a.FileData
	mimeType := strings.TrimSpace(a.MimeType)

	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		header, data, found := strings.Cut(rest, ",")
		if !found {
			return usecases.AttachmentInput{}, fmt.Errorf("malformed data URL")
		}
		mediaType, isBase64 := strings.CutSuffix(header, ";base64")
		if !isBase64 {
			return usecases.AttachmentInput{}, fmt.Errorf("data URL must be base64 encoded")
		}
		if mimeType == "" {
			mimeType = mediaType
		}
		payload = data
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return usecases.AttachmentInput{}, fmt.Errorf("invalid base64 payload")
	}
	if len(data) == 0 {
		return usecases.AttachmentInput{}, fmt.Errorf("empty file")
	}
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	return usecases.AttachmentInput{
		Filename: a.FileName,
		MimeType: mimeType,
		Data:     data,
	}, nil
}

type ChangeStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment" binding:"max=2000"`
}

type AssignTicketRequest struct {
	TechnicianID uint `json:"technician_id" binding:"required"`
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}
