package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/addisware/procure-api/internal/dto"
	"github.com/addisware/procure-api/internal/handler"
)

type mockReportService struct {
	summary   dto.ReportSummaryResponse
	csv       string
	lastRange string
}

func (m *mockReportService) Summary(_ context.Context, rangeSpec string) (dto.ReportSummaryResponse, error) {
	m.lastRange = rangeSpec
	return m.summary, nil
}

func (m *mockReportService) TendersCSV(_ context.Context, rangeSpec string) (string, error) {
	m.lastRange = rangeSpec
	return m.csv, nil
}

func (m *mockReportService) BidsCSV(_ context.Context, rangeSpec string) (string, error) {
	m.lastRange = rangeSpec
	return m.csv, nil
}

func (m *mockReportService) EvaluationsCSV(_ context.Context, rangeSpec string) (string, error) {
	m.lastRange = rangeSpec
	return m.csv, nil
}

func TestReportHandlerSummaryPassesRange(t *testing.T) {
	svc := &mockReportService{summary: dto.ReportSummaryResponse{Open: 2, Bids: 5}}
	app := fiber.New()
	handler.NewReportHandler(svc, zerolog.Nop()).Register(app.Group("/reports"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/reports/summary?range=7d", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "7d", svc.lastRange)

	var response struct {
		Data dto.ReportSummaryResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, int64(2), response.Data.Open)
}

func TestReportHandlerCSVHeaders(t *testing.T) {
	svc := &mockReportService{csv: "id,title\n1,Roads\n"}
	app := fiber.New()
	handler.NewReportHandler(svc, zerolog.Nop()).Register(app.Group("/reports"))

	for _, target := range []string{"/reports/tenders.csv", "/reports/bids.csv", "/reports/evaluations.csv"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Equal(t, "text/csv; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
		require.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")

		payload, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, svc.csv, string(payload))
	}
}
