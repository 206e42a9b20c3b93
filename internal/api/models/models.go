// Package models holds the request and response bodies of the HTTP API.
package models

import "github.com/smazurov/colornode/internal/colors"

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit SHA"`
	BuildDate string `json:"build_date" example:"2024-12-15 14:30" doc:"Build timestamp"`
	BuildID   string `json:"build_id" example:"a1b2c3d4" doc:"Unique build identifier"`
	GoVersion string `json:"go_version" example:"go1.24.0" doc:"Go compiler version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Compiler used"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Color models
type ColorData struct {
	Hex       string       `json:"hex" example:"00FF00" doc:"Current color in wire format"`
	Color     colors.Color `json:"color" doc:"Current color channels"`
	Positions int          `json:"positions" example:"16" doc:"Number of LED positions"`
}

type ColorResponse struct {
	Body ColorData
}

type SetColorRequest struct {
	Body struct {
		Color string `json:"color" minLength:"1" maxLength:"16" example:"#00ff00" doc:"Color as six hex digits, optionally prefixed with #"`
	}
}

// Board LED models
type LEDRequest struct {
	Body struct {
		Role    string  `json:"role" example:"status" doc:"LED role (status, activity)"`
		On      bool    `json:"on" example:"true" doc:"Whether the LED should be on"`
		Pattern *string `json:"pattern,omitempty" example:"solid" doc:"Optional pattern (solid, blink)"`
	}
}

type LEDCapabilitiesData struct {
	AvailableRoles    []string `json:"available_roles" doc:"LED roles mapped on this board"`
	AvailablePatterns []string `json:"available_patterns" doc:"Patterns the board LEDs accept"`
}

type LEDCapabilitiesResponse struct {
	Body LEDCapabilitiesData
}

// Log models
type LogEntry struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-27T10:30:00.123Z" doc:"Entry time"`
	Level      string         `json:"level" example:"warn" doc:"Log level"`
	Module     string         `json:"module" example:"dispatch" doc:"Logger module"`
	Message    string         `json:"message" example:"Rejected color" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured attributes"`
}

type LogsRequest struct {
	Limit int `query:"limit" minimum:"1" maximum:"500" default:"100" doc:"Maximum number of entries, newest last"`
}

type LogsResponse struct {
	Body struct {
		Entries []LogEntry `json:"entries" doc:"Recent log entries"`
		Total   int        `json:"total" doc:"Entries held in the buffer"`
	}
}
