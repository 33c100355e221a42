package dispatch

import (
	"fmt"
	"strings"

	"camctl/pkg/models"
)

// Command is one operator intent. Every command goes through
// Dispatcher.Dispatch and produces exactly one request/response exchange.
type Command interface {
	// Kind names the command for logs and metrics.
	Kind() string
}

// PTZ moves, zooms, stops or homes the bound camera.
type PTZ struct {
	Token string
}

func (c PTZ) Kind() string { return "ptz" }

// GetInfo reads the bound camera's absolute position.
type GetInfo struct{}

func (GetInfo) Kind() string { return "info" }

// Delete removes the camera shown on a grid card, after confirmation.
type Delete struct {
	CameraID int
}

func (Delete) Kind() string { return "delete" }

// Move builds the PTZ command for a pan/tilt direction token.
func Move(direction string) PTZ { return PTZ{Token: direction} }

// Zoom builds zoom_in or zoom_out.
func Zoom(in bool) PTZ {
	if in {
		return PTZ{Token: models.ZoomIn}
	}
	return PTZ{Token: models.ZoomOut}
}

func Stop() PTZ { return PTZ{Token: models.Stop} }

func Home() PTZ { return PTZ{Token: models.Home} }

// Parse maps an operator token to a command. PTZ tokens may be written
// with dashes (pan-left) or underscores (pan_left); "info" queries the
// position. Deletion is never parsed from a token.
func Parse(token string) (Command, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "info" {
		return GetInfo{}, nil
	}

	token = strings.ReplaceAll(token, "-", "_")
	if !models.IsCommandToken(token) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, token)
	}
	return PTZ{Token: token}, nil
}
