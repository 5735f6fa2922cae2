package service

import (
	"context"
	"fmt"
	"time"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/lib/job"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

type rsvpStore interface {
	Upsert(ctx context.Context, scope database.Scope, req *model.CreateRSVPRequest, userID *string) (*model.RSVP, error)
	Summary(ctx context.Context, scope database.Scope, eventID string) (*model.RSVPSummary, error)
	List(ctx context.Context, scope database.Scope, eventID string) ([]model.RSVP, error)
	Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error
}

type RSVPService struct {
	repo   rsvpStore
	jobs   jobDispatcher
	logger *zerolog.Logger
}

func NewRSVPService(repo rsvpStore, jobs jobDispatcher, logger *zerolog.Logger) *RSVPService {
	return &RSVPService{repo: repo, jobs: jobs, logger: logger}
}

// Submit stores the RSVP, replacing an earlier one from the same address for
// the same event, queues the confirmation email and the admin push, and
// returns the updated event totals.
func (s *RSVPService) Submit(ctx context.Context, scope database.Scope, req *model.CreateRSVPRequest, userID string) (*model.RSVPSummary, error) {
	var owner *string
	if userID != "" {
		owner = &userID
	}

	rsvp, err := s.repo.Upsert(ctx, scope, req, owner)
	if err != nil {
		return nil, err
	}

	s.jobs.RSVPConfirmation(ctx, job.RSVPConfirmationPayload{
		To:               rsvp.Email,
		Name:             rsvp.Name,
		Attendees:        rsvp.Attendees,
		EventID:          rsvp.EventID,
		Message:          rsvp.Message,
		WhatsAppInterest: rsvp.WhatsappInterest,
	})
	s.jobs.AdminPush(ctx, job.AdminPushPayload{
		Kind:    "rsvp",
		Heading: "Nueva confirmación",
		Content: fmt.Sprintf("%s confirma %d asistente(s)", rsvp.Name, rsvp.Attendees),
		URL:     "/admin",
	})

	return s.repo.Summary(ctx, scope, rsvp.EventID)
}

func (s *RSVPService) Summary(ctx context.Context, scope database.Scope, eventID string) (*model.RSVPSummary, error) {
	return s.repo.Summary(ctx, scope, eventID)
}

func (s *RSVPService) List(ctx context.Context, scope database.Scope, eventID string) ([]model.RSVP, error) {
	return s.repo.List(ctx, scope, eventID)
}

func (s *RSVPService) Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error {
	return s.repo.Delete(ctx, scope, id)
}

var rsvpExportHeader = []any{"Nombre", "Email", "Asistentes", "WhatsApp", "Mensaje", "Fecha"}

// Export renders the RSVPs of an event as an XLSX workbook.
func (s *RSVPService) Export(ctx context.Context, scope database.Scope, eventID string) ([]byte, error) {
	rsvps, err := s.repo.List(ctx, scope, eventID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("closing rsvp workbook")
		}
	}()

	const sheet = "RSVPs"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &rsvpExportHeader); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "F1", bold); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}

	total := 0
	for i, r := range rsvps {
		whatsapp := "No"
		if r.WhatsappInterest {
			whatsapp = "Sí"
		}
		row := []any{r.Name, r.Email, r.Attendees, whatsapp, r.Message, r.CreatedAt.UTC().Format(time.DateTime)}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
		total += r.Attendees
	}

	footer := []any{"Total", "", total}
	cell, err := excelize.CoordinatesToCellName(1, len(rsvps)+3)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, cell, &footer); err != nil {
		return nil, fmt.Errorf("writing total: %w", err)
	}

	if err := f.SetColWidth(sheet, "A", "B", 30); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "E", "E", 50); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}
