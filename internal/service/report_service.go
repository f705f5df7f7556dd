package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/addisware/procure-api/internal/dto"
	"github.com/addisware/procure-api/internal/models"
	"github.com/addisware/procure-api/internal/repository"
)

var rangePattern = regexp.MustCompile(`^([0-9]+)([dwm])$`)

// ReportService produces the admin summary and CSV exports, optionally
// restricted to a trailing window expressed as N days/weeks/months.
type ReportService interface {
	Summary(ctx context.Context, rangeSpec string) (dto.ReportSummaryResponse, error)
	TendersCSV(ctx context.Context, rangeSpec string) (string, error)
	BidsCSV(ctx context.Context, rangeSpec string) (string, error)
	EvaluationsCSV(ctx context.Context, rangeSpec string) (string, error)
}

type reportService struct {
	tenders     repository.TenderRepository
	bids        repository.BidRepository
	evaluations repository.EvaluationRepository
	stats       repository.StatsRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewReportService constructs a ReportService instance.
func NewReportService(tenders repository.TenderRepository, bids repository.BidRepository, evaluations repository.EvaluationRepository, stats repository.StatsRepository, logger zerolog.Logger) ReportService {
	return &reportService{
		tenders:     tenders,
		bids:        bids,
		evaluations: evaluations,
		stats:       stats,
		logger:      logger.With().Str("component", "report_service").Logger(),
		now:         time.Now,
	}
}

// parseRange interprets "N[dwm]"; malformed or empty specs mean no window,
// matching the lenient behavior callers expect from the reports endpoints.
func (s *reportService) parseRange(rangeSpec string) *time.Time {
	match := rangePattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(rangeSpec)))
	if match == nil {
		return nil
	}

	n, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}

	now := s.now()
	var from time.Time
	switch match[2] {
	case "d":
		from = now.AddDate(0, 0, -n)
	case "w":
		from = now.AddDate(0, 0, -n*7)
	case "m":
		from = now.AddDate(0, -n, 0)
	default:
		return nil
	}

	return &from
}

func (s *reportService) Summary(ctx context.Context, rangeSpec string) (dto.ReportSummaryResponse, error) {
	from := s.parseRange(rangeSpec)

	open, err := s.stats.CountTenders(ctx, models.TenderStatusOpen, from)
	if err != nil {
		return dto.ReportSummaryResponse{}, err
	}
	closed, err := s.stats.CountTenders(ctx, models.TenderStatusClosed, from)
	if err != nil {
		return dto.ReportSummaryResponse{}, err
	}
	cancelled, err := s.stats.CountTenders(ctx, models.TenderStatusCancelled, from)
	if err != nil {
		return dto.ReportSummaryResponse{}, err
	}
	bids, err := s.stats.CountBids(ctx, from)
	if err != nil {
		return dto.ReportSummaryResponse{}, err
	}
	evaluations, err := s.stats.CountEvaluations(ctx, from)
	if err != nil {
		return dto.ReportSummaryResponse{}, err
	}

	return dto.ReportSummaryResponse{
		Open:        open,
		Closed:      closed,
		Cancelled:   cancelled,
		Bids:        bids,
		Evaluations: evaluations,
		From:        from,
	}, nil
}

func (s *reportService) TendersCSV(ctx context.Context, rangeSpec string) (string, error) {
	tenders, err := s.tenders.ListSince(ctx, s.parseRange(rangeSpec))
	if err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(tenders))
	for _, tender := range tenders {
		rows = append(rows, []string{
			formatUint(tender.ID),
			tender.Title,
			tender.Status,
			tender.Deadline.Format(time.RFC3339),
			tender.CreatedAt.Format(time.RFC3339),
			formatUintPtr(tender.WinningBidID),
			formatTimePtr(tender.AwardedAt),
		})
	}

	return renderCSV([]string{"id", "title", "status", "deadline", "createdAt", "winningBidId", "awardedAt"}, rows)
}

func (s *reportService) BidsCSV(ctx context.Context, rangeSpec string) (string, error) {
	bids, err := s.bids.ListSince(ctx, s.parseRange(rangeSpec))
	if err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(bids))
	for _, bid := range bids {
		evaluated := "no"
		score := ""
		if bid.Evaluation != nil {
			evaluated = "yes"
			score = strconv.Itoa(bid.Evaluation.TotalScore)
		}
		rows = append(rows, []string{
			formatUint(bid.ID),
			formatUint(bid.TenderID),
			formatUint(bid.VendorID),
			bid.Status,
			bid.CreatedAt.Format(time.RFC3339),
			evaluated,
			score,
		})
	}

	return renderCSV([]string{"id", "tenderId", "vendorId", "status", "createdAt", "evaluated", "score"}, rows)
}

func (s *reportService) EvaluationsCSV(ctx context.Context, rangeSpec string) (string, error) {
	evaluations, err := s.evaluations.ListSince(ctx, s.parseRange(rangeSpec))
	if err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(evaluations))
	for _, evaluation := range evaluations {
		rows = append(rows, []string{
			formatUint(evaluation.ID),
			formatUint(evaluation.BidID),
			strconv.Itoa(evaluation.TotalScore),
			strconv.FormatFloat(evaluation.TechnicalScore, 'f', -1, 64),
			strconv.FormatFloat(evaluation.FinancialScore, 'f', -1, 64),
			evaluation.CreatedAt.Format(time.RFC3339),
		})
	}

	return renderCSV([]string{"id", "bidId", "score", "technicalScore", "financialScore", "createdAt"}, rows)
}

// renderCSV emits a header row plus data rows, double-quote-escaping any
// field containing a comma, quote or newline.
func renderCSV(headers []string, rows [][]string) (string, error) {
	var builder strings.Builder
	writer := csv.NewWriter(&builder)

	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return builder.String(), nil
}

func formatUint(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}

func formatUintPtr(value *uint) string {
	if value == nil {
		return ""
	}
	return formatUint(*value)
}

func formatTimePtr(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(time.RFC3339)
}
