package reconciliation

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"property-management-backend/internal/ledger"
	"property-management-backend/internal/models"
	"property-management-backend/internal/repository"
	"property-management-backend/internal/services/matching"
)

// Report is the outcome of one reconciliation pass. It is never
// persisted; each upload produces a fresh report.
type Report struct {
	Platform    models.Platform          `json:"platform"`
	From        time.Time                `json:"from"`
	To          time.Time                `json:"to"`
	Filename    string                   `json:"filename"`
	LedgerRows  int                      `json:"ledger_rows"`
	DroppedRows int                      `json:"dropped_rows"`
	StoredRows  int                      `json:"stored_rows"`
	Groups      []matching.PropertyGroup `json:"groups"`
	Rows        []matching.Row           `json:"rows"`

	CSVTotal  decimal.Decimal `json:"csv_total"`
	DBTotal   decimal.Decimal `json:"db_total"`
	SafeTotal decimal.Decimal `json:"safe_total"`
}

type Service struct {
	bookingRepo *repository.BookingRepository
	predicate   matching.Predicate
}

func NewService(bookingRepo *repository.BookingRepository) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		predicate:   matching.MatchContains,
	}
}

// Reconcile fetches the stored bookings checking out in [from, to] for
// one platform, parses the uploaded settlement file, and runs the
// matcher. A nil pred uses the service default (containment). The pass
// is synchronous; datasets are one settlement file and one query window.
func (s *Service) Reconcile(platform models.Platform, from, to time.Time, propertyID *uuid.UUID, filename string, file io.Reader, pred matching.Predicate) (*Report, error) {
	if pred == nil {
		pred = s.predicate
	}
	parsed, err := ledger.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing ledger %s: %w", filename, err)
	}

	cancelled := models.StatusCancelled
	start := repository.StartOfDay(from)
	end := repository.EndOfDay(to)
	bookings, err := s.bookingRepo.Find(repository.BookingFilter{
		CheckOutFrom:  &start,
		CheckOutTo:    &end,
		Platform:      &platform,
		PropertyID:    propertyID,
		ExcludeStatus: &cancelled,
	})
	if err != nil {
		return nil, fmt.Errorf("loading bookings for %s: %w", platform, err)
	}

	result := matching.Reconcile(bookings, parsed.Rows, pred)

	report := &Report{
		Platform:    platform,
		From:        start,
		To:          end,
		Filename:    filename,
		LedgerRows:  len(parsed.Rows),
		DroppedRows: parsed.Dropped,
		StoredRows:  len(bookings),
		Groups:      result.Groups,
		Rows:        result.Rows,
		CSVTotal:    decimal.Zero,
		DBTotal:     decimal.Zero,
		SafeTotal:   decimal.Zero,
	}
	for _, g := range result.Groups {
		report.CSVTotal = report.CSVTotal.Add(g.CSVTotal)
		report.DBTotal = report.DBTotal.Add(g.DBTotal)
		report.SafeTotal = report.SafeTotal.Add(g.SafeTotal)
	}
	return report, nil
}
