package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/colornode/internal/api/models"
	"github.com/smazurov/colornode/internal/logging"
)

// registerLogRoutes exposes the diagnostic ring buffer.
func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Recent Logs",
		Description: "Recent diagnostic log entries, oldest first",
		Tags:        []string{"logs"},
	}, func(_ context.Context, input *models.LogsRequest) (*models.LogsResponse, error) {
		resp := &models.LogsResponse{}
		resp.Body.Entries = []models.LogEntry{}

		buffer := logging.GetBuffer()
		if buffer == nil {
			return resp, nil
		}

		for _, entry := range buffer.Last(input.Limit) {
			resp.Body.Entries = append(resp.Body.Entries, models.LogEntry{
				Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		}
		resp.Body.Total = buffer.Count()
		return resp, nil
	})
}
