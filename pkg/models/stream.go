package models

// Channel namespace and event names of the live stream.
const (
	CameraNamespace  = "/camera"
	EventStartStream = "start_stream"
	EventVideoFrame  = "video_frame"
)

// FrameURIPrefix turns a base64 JPEG payload into a displayable image source.
const FrameURIPrefix = "data:image/jpeg;base64,"

// StartStream is the client->server payload of start_stream.
type StartStream struct {
	CamID int `json:"cam_id"`
}

// VideoFrame is the server->client payload of video_frame.
type VideoFrame struct {
	Image string `json:"image"`
}
