package models

// PTZ command tokens understood by POST /api/ptz_command.
const (
	PanLeft  = "pan_left"
	PanRight = "pan_right"
	TiltUp   = "tilt_up"
	TiltDown = "tilt_down"
	ZoomIn   = "zoom_in"
	ZoomOut  = "zoom_out"
	Stop     = "stop"
	Home     = "home"
)

// CommandTokens is the closed set of accepted PTZ tokens.
var CommandTokens = []string{PanLeft, PanRight, TiltUp, TiltDown, ZoomIn, ZoomOut, Stop, Home}

// IsCommandToken reports whether token belongs to the closed PTZ set.
func IsCommandToken(token string) bool {
	for _, t := range CommandTokens {
		if t == token {
			return true
		}
	}
	return false
}

// PTZPayload is the JSON body of POST /api/ptz_command
type PTZPayload struct {
	CamID   int    `json:"cam_id"`
	Command string `json:"command"`
}
