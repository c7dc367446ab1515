package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/servis-automat/servis/internal/application/report/dto"
	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
	"github.com/servis-automat/servis/internal/domain/user"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
	"github.com/servis-automat/servis/internal/shared/services/markdown"
)

const reportDateLayout = "02.01.2006"

// Mailer delivers one message to a list of recipients.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, plainBody, htmlBody string) error
}

type WeeklyReportBuilder interface {
	Execute(ctx context.Context, identity authorization.Identity) (*dto.WeeklyReportDTO, error)
}

// SendWeeklyReportUseCase mails the weekly report to every admin. Each admin
// gets a separate message; a failed delivery does not stop the others.
type SendWeeklyReportUseCase struct {
	builder  WeeklyReportBuilder
	userRepo user.Repository
	renderer markdown.Renderer
	mailer   Mailer
	logger   logger.Interface
}

func NewSendWeeklyReportUseCase(
	builder WeeklyReportBuilder,
	userRepo user.Repository,
	renderer markdown.Renderer,
	mailer Mailer,
	logger logger.Interface,
) *SendWeeklyReportUseCase {
	return &SendWeeklyReportUseCase{
		builder:  builder,
		userRepo: userRepo,
		renderer: renderer,
		mailer:   mailer,
		logger:   logger,
	}
}

func (uc *SendWeeklyReportUseCase) Execute(ctx context.Context, identity authorization.Identity) (*dto.SendWeeklyReportResult, error) {
	report, err := uc.builder.Execute(ctx, identity)
	if err != nil {
		return nil, err
	}

	admins, err := uc.userRepo.ListByRole(ctx, authorization.RoleAdmin)
	if err != nil {
		uc.logger.Errorw("failed to list admins", "error", err)
		return nil, errors.FromStoreError(err, "failed to send weekly report")
	}

	body := RenderWeeklyMarkdown(report)
	html, err := uc.renderer.ToHTMLSanitized(body)
	if err != nil {
		uc.logger.Errorw("failed to render weekly report", "error", err)
		return nil, errors.NewInternalError("failed to render weekly report")
	}
	subject := fmt.Sprintf("Weekly report: repair requests (%s)", report.PeriodEnd.Format(reportDateLayout))

	result := &dto.SendWeeklyReportResult{Report: report, Recipients: len(admins)}
	for _, admin := range admins {
		if err := uc.mailer.Send(ctx, []string{admin.Email()}, subject, body, html); err != nil {
			uc.logger.Warnw("failed to send weekly report", "email", admin.Email(), "error", err)
			result.Failed = append(result.Failed, admin.Email())
			continue
		}
		result.Sent++
	}

	uc.logger.Infow("weekly report sent", "sent", result.Sent, "recipients", result.Recipients)
	return result, nil
}

// RenderWeeklyMarkdown lays the report out as Markdown. Ticket text is
// escaped so it cannot break the table.
func RenderWeeklyMarkdown(r *dto.WeeklyReportDTO) string {
	var b strings.Builder

	b.WriteString("# Weekly report: repair requests\n\n")
	fmt.Fprintf(&b, "**Period:** %s - %s\n\n",
		r.PeriodStart.Format(reportDateLayout), r.PeriodEnd.Format(reportDateLayout))

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- **Total requests:** %d\n", r.Total)
	fmt.Fprintf(&b, "- **Created this week:** %d\n", r.CreatedThisWeek)
	fmt.Fprintf(&b, "- **Closed this week:** %d\n", r.ClosedThisWeek)
	fmt.Fprintf(&b, "- **Average resolution time:** %.1f h\n\n", r.AverageResolutionHours)

	b.WriteString("## By status\n\n")
	for _, s := range statusOrder(r.ByStatus) {
		fmt.Fprintf(&b, "- **%s:** %d\n", s, r.ByStatus[s])
	}
	b.WriteString("\n")

	writeBreakdown(&b, "By club", r.ByClub)
	writeBreakdown(&b, "By technician", r.ByTechnician)

	b.WriteString("## Requests\n\n")
	if len(r.Tickets) == 0 {
		b.WriteString("No requests were created this week.\n")
		return b.String()
	}
	b.WriteString("| Number | Title | Club | Status | Employee | Technician | Created |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, t := range r.Tickets {
		tech := t.Technician
		if tech == "" {
			tech = "Unassigned"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			cell(t.RequestNumber), cell(t.Title), cell(t.Club), cell(t.StatusLabel),
			cell(t.EmployeeName), cell(tech), t.CreatedAt.Format(reportDateLayout))
	}
	return b.String()
}

func writeBreakdown(b *strings.Builder, title string, rows []dto.NamedCount) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(rows) == 0 {
		b.WriteString("- none\n\n")
		return
	}
	for _, row := range rows {
		fmt.Fprintf(b, "- **%s:** %d\n", cell(row.Name), row.Count)
	}
	b.WriteString("\n")
}

var markdownEscaper = strings.NewReplacer(
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"\n", " ",
	"\r", " ",
)

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return markdownEscaper.Replace(s)
}

func statusOrder(byStatus map[string]int64) []string {
	keys := make([]string, 0, len(byStatus))
	for _, s := range vo.AllStatuses {
		if _, ok := byStatus[s.String()]; ok {
			keys = append(keys, s.String())
		}
	}
	return keys
}
