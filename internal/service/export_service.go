package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/repository"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
	"github.com/noah-isme/cohort-api/pkg/export"
)

var rosterHeaders = []string{"Name", "Email", "Status", "Payment", "Progress", "Mentor", "Last activity"}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, doc export.Document) ([]byte, error)
}

// ExportFile is a rendered document ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders cohort rosters. Files are produced synchronously
// and never stored.
type ExportService struct {
	store  repository.Store
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(store repository.Store, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{store: store, csv: csv, pdf: pdf, logger: logger}
}

type rosterSnapshot struct {
	program  *models.Program
	cohort   *models.Cohort
	mentors  map[string]string
	students []models.Student
}

// Roster renders the full roster of a cohort in the requested format.
func (s *ExportService) Roster(ctx context.Context, cohortID, rawFormat string) (*ExportFile, error) {
	format, err := export.ParseFormat(strings.ToLower(rawFormat))
	if err != nil {
		return nil, appErrors.Validation(err, "format must be csv or pdf")
	}

	snap, err := s.snapshot(ctx, cohortID)
	if err != nil {
		return nil, storeErr(err, "load roster")
	}
	dataset := rosterDataset(snap)

	var data []byte
	switch format {
	case export.FormatCSV:
		data, err = s.csv.Render(dataset)
	case export.FormatPDF:
		data, err = s.pdf.Render(dataset, export.Document{
			Title: fmt.Sprintf("%s: %s", snap.program.Name, snap.cohort.Name),
			Subtitle: []string{
				fmt.Sprintf("Status %s, %d of %d seats taken", snap.cohort.Status, snap.cohort.StudentCount, snap.cohort.Capacity),
				fmt.Sprintf("%s to %s", snap.cohort.StartDate.Format("2006-01-02"), snap.cohort.EndDate.Format("2006-01-02")),
			},
		})
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render roster")
	}

	s.logger.Info("roster exported", zap.String("cohort_id", cohortID), zap.String("format", string(format)), zap.Int("rows", len(dataset.Rows)))
	return &ExportFile{
		Filename:    fmt.Sprintf("roster-%s.%s", cohortID, format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

func (s *ExportService) snapshot(ctx context.Context, cohortID string) (*rosterSnapshot, error) {
	snap := &rosterSnapshot{mentors: map[string]string{}}
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		if snap.cohort, err = getCohort(ctx, tx, cohortID); err != nil {
			return err
		}
		if snap.program, err = getProgram(ctx, tx, snap.cohort.ProgramID); err != nil {
			return err
		}
		snap.students, err = all(func(page, size int) ([]models.Student, int, error) {
			return tx.ListStudents(ctx, models.StudentFilter{CohortID: cohortID, Page: page, PageSize: size})
		})
		if err != nil {
			return err
		}
		for _, st := range snap.students {
			if st.MentorID == nil {
				continue
			}
			if _, seen := snap.mentors[*st.MentorID]; seen {
				continue
			}
			mentor, err := getMentor(ctx, tx, *st.MentorID)
			if err != nil {
				return err
			}
			snap.mentors[mentor.ID] = mentor.Name
		}
		return nil
	})
	return snap, err
}

func rosterDataset(snap *rosterSnapshot) export.Dataset {
	rows := make([]map[string]string, 0, len(snap.students))
	for _, st := range snap.students {
		row := map[string]string{
			"Name":     st.Name,
			"Email":    st.Email,
			"Status":   string(st.Status),
			"Payment":  string(st.PaymentStatus),
			"Progress": strconv.Itoa(st.Progress) + "%",
		}
		if st.MentorID != nil {
			row["Mentor"] = snap.mentors[*st.MentorID]
		}
		if st.LastActivityAt != nil {
			row["Last activity"] = st.LastActivityAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: rosterHeaders, Rows: rows}
}
