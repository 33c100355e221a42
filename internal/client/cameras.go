package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"camctl/pkg/models"
)

// SendPTZCommand posts one PTZ token for the camera.
// The returned error is set only when the exchange never completed;
// any HTTP answer is folded into the Result.
func (c *CameraClient) SendPTZCommand(ctx context.Context, camID int, command string) (models.Result, error) {
	req := c.HTTP.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.PTZPayload{CamID: camID, Command: command})

	return c.exchange(req, http.MethodPost, "/api/ptz_command")
}

// GetCameraInfo reads the current absolute PTZ position.
func (c *CameraClient) GetCameraInfo(ctx context.Context, camID int) (models.Result, error) {
	req := c.HTTP.R().
		SetContext(ctx).
		SetPathParam("cam_id", strconv.Itoa(camID))

	return c.exchange(req, http.MethodGet, "/api/get_camera_info/{cam_id}")
}

// DeleteCamera removes the camera from the server's registry.
func (c *CameraClient) DeleteCamera(ctx context.Context, camID int) (models.Result, error) {
	req := c.HTTP.R().
		SetContext(ctx).
		SetPathParam("cam_id", strconv.Itoa(camID))

	return c.exchange(req, http.MethodDelete, "/api/delete_camera/{cam_id}")
}

func (c *CameraClient) exchange(req *resty.Request, method, path string) (models.Result, error) {
	var ok, fail models.APIResponse

	resp, err := req.
		SetResult(&ok).
		SetError(&fail).
		Execute(method, path)

	if err != nil {
		return models.Result{}, err
	}

	if resp.IsSuccess() {
		return models.Ok(ok.Message, ok.Data), nil
	}

	msg := fail.Message
	if msg == "" {
		msg = FallbackMessage
	}
	return models.Err(msg), nil
}

// RegisterCamera submits the registration form. The server answers with a
// redirect either way: back to /register on rejection, to the grid on success.
func (c *CameraClient) RegisterCamera(ctx context.Context, reg models.Registration) error {
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html").
		SetFormData(map[string]string{
			"name":       reg.Name,
			"broker_uri": reg.BrokerURI,
			"gateway_id": strconv.Itoa(reg.GatewayID),
		}).
		Post("/register")

	if err != nil {
		return err
	}

	if resp.IsError() {
		return fmt.Errorf("failed to register camera: %s", resp.Status())
	}

	if final := resp.RawResponse.Request.URL.Path; final == "/register" {
		return fmt.Errorf("failed to register camera %q: rejected by server", reg.Name)
	}

	return nil
}
