package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/colornode/internal/api/models"
	"github.com/smazurov/colornode/internal/colors"
	"github.com/smazurov/colornode/internal/events"
)

func (s *Server) registerColorRoutes() {
	if s.options.Dispatcher == nil {
		s.logger.Debug("No dispatcher configured, skipping color routes")
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-color",
		Method:      http.MethodGet,
		Path:        "/api/color",
		Summary:     "Get Color",
		Description: "Get the color currently shown on every LED position",
		Tags:        []string{"color"},
	}, func(_ context.Context, _ *struct{}) (*models.ColorResponse, error) {
		return s.colorResponse(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-color",
		Method:      http.MethodPost,
		Path:        "/api/color",
		Summary:     "Set Color",
		Description: "Apply a color to every LED position. Accepts RRGGBB with an optional leading #.",
		Tags:        []string{"color"},
		Errors:      []int{422, 500},
	}, func(_ context.Context, input *models.SetColorRequest) (*models.ColorResponse, error) {
		c, err := colors.Parse(input.Body.Color)
		if err != nil {
			s.options.Dispatcher.Reject(input.Body.Color, err, events.SourceAPI)
			return nil, huma.Error422UnprocessableEntity("Invalid color", err)
		}
		if err := s.options.Dispatcher.Apply(c, events.SourceAPI); err != nil {
			return nil, huma.Error500InternalServerError("Failed to apply color", err)
		}
		return s.colorResponse(), nil
	})
}

func (s *Server) colorResponse() *models.ColorResponse {
	array := s.options.Dispatcher.Array()
	c := array.Current()
	return &models.ColorResponse{
		Body: models.ColorData{
			Hex:       c.String(),
			Color:     c,
			Positions: array.Len(),
		},
	}
}
