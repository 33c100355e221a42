package models

import "fmt"

// APIResponse is the envelope every control endpoint answers with.
// Status is "success" or "error"; Data is only set by get_camera_info.
type APIResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    *Position `json:"data,omitempty"`
}

// Position is the absolute PTZ position reported by the camera gateway.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p Position) String() string {
	return fmt.Sprintf("x=%v y=%v z=%v", p.X, p.Y, p.Z)
}

// Result is the tagged outcome of one control request.
// OK results carry the server message and, for info queries, a Position.
// Failed results carry the server message, a fallback, or the transport error text.
type Result struct {
	OK       bool      `json:"ok"`
	Message  string    `json:"message"`
	Position *Position `json:"data,omitempty"`
}

// Ok builds a successful result.
func Ok(message string, pos *Position) Result {
	return Result{OK: true, Message: message, Position: pos}
}

// Err builds a failed result.
func Err(message string) Result {
	return Result{Message: message}
}
