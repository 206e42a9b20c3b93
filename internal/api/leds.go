package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/colornode/internal/api/models"
)

// registerLEDRoutes exposes the board LEDs. The strip itself is driven
// through the color routes. Boards without controllable LEDs get no routes.
func (s *Server) registerLEDRoutes() {
	ctrl := s.options.LEDController
	if ctrl == nil || len(ctrl.Available()) == 0 {
		s.logger.Debug("Board LED controller not available, skipping LED routes")
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "control-led",
		Method:      http.MethodPost,
		Path:        "/api/leds",
		Summary:     "Control Board LED",
		Description: "Switch a board LED on or off with an optional pattern. Roles are board-specific.",
		Tags:        []string{"leds"},
		Errors:      []int{400},
	}, func(_ context.Context, input *models.LEDRequest) (*struct{}, error) {
		pattern := ""
		if input.Body.Pattern != nil {
			pattern = *input.Body.Pattern
		}
		if err := ctrl.Set(input.Body.Role, input.Body.On, pattern); err != nil {
			return nil, huma.Error400BadRequest("Failed to control LED", err)
		}
		return &struct{}{}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-led-capabilities",
		Method:      http.MethodGet,
		Path:        "/api/leds/capabilities",
		Summary:     "Get Board LED Capabilities",
		Description: "List the board LED roles and patterns available on this board",
		Tags:        []string{"leds"},
	}, func(_ context.Context, _ *struct{}) (*models.LEDCapabilitiesResponse, error) {
		return &models.LEDCapabilitiesResponse{
			Body: models.LEDCapabilitiesData{
				AvailableRoles:    ctrl.Available(),
				AvailablePatterns: ctrl.Patterns(),
			},
		}, nil
	})

	s.logger.Info("Board LED routes registered")
}
