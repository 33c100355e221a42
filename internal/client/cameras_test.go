package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camctl/pkg/models"
)

func newTestClient(t *testing.T, h http.Handler) *CameraClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(ClientConfig{BaseURL: srv.URL, Logger: zerolog.Nop()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSendPTZCommand(t *testing.T) {
	var got models.PTZPayload
	var requestID string

	api := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ptz_command", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		requestID = r.Header.Get(RequestIDHeader)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Comando enviado com sucesso."})
	}))

	res, err := api.SendPTZCommand(context.Background(), 7, models.PanLeft)
	require.NoError(t, err)
	require.Equal(t, models.Ok("Comando enviado com sucesso.", nil), res)
	require.Equal(t, models.PTZPayload{CamID: 7, Command: "pan_left"}, got)
	require.NotEmpty(t, requestID)
}

func TestSendPTZCommandFailure(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		body    any
		message string
	}{
		{name: "server message", code: http.StatusInternalServerError, body: map[string]string{"status": "error", "message": "camera offline"}, message: "camera offline"},
		{name: "bad request", code: http.StatusBadRequest, body: map[string]string{"message": "Dados incompletos."}, message: "Dados incompletos."},
		{name: "no message", code: http.StatusBadGateway, body: map[string]string{}, message: FallbackMessage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.code, tc.body)
			}))

			res, err := api.SendPTZCommand(context.Background(), 1, models.ZoomIn)
			require.NoError(t, err)
			require.False(t, res.OK)
			require.Equal(t, tc.message, res.Message)
		})
	}
}

func TestSendPTZCommandNonJSONError(t *testing.T) {
	api := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<h1>Internal Server Error</h1>", http.StatusInternalServerError)
	}))

	res, err := api.SendPTZCommand(context.Background(), 1, models.Stop)
	require.NoError(t, err)
	require.Equal(t, models.Err(FallbackMessage), res)
}

func TestSendPTZCommandNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	api := New(ClientConfig{BaseURL: srv.URL, Logger: zerolog.Nop()})
	_, err := api.SendPTZCommand(context.Background(), 1, models.Stop)
	require.Error(t, err)
}

func TestGetCameraInfo(t *testing.T) {
	api := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/get_camera_info/7", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "Informações obtidas com sucesso.",
			"data":    map[string]float64{"x": -150, "y": 50, "z": 12.5},
		})
	}))

	res, err := api.GetCameraInfo(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Equal(t, &models.Position{X: -150, Y: 50, Z: 12.5}, res.Position)
}

func TestGetCameraInfoFailure(t *testing.T) {
	api := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": "Não foi possível obter a posição atual da câmera."})
	}))

	res, err := api.GetCameraInfo(context.Background(), 7)
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Nil(t, res.Position)
	require.Equal(t, "Não foi possível obter a posição atual da câmera.", res.Message)
}

func TestDeleteCamera(t *testing.T) {
	api := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		switch r.URL.Path {
		case "/api/delete_camera/7":
			writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "deleted"})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"status": "error", "message": "Câmera não encontrada."})
		}
	}))

	res, err := api.DeleteCamera(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, models.Ok("deleted", nil), res)

	res, err = api.DeleteCamera(context.Background(), 8)
	require.NoError(t, err)
	require.Equal(t, models.Err("Câmera não encontrada."), res)
}

func TestRegisterCamera(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte("<form></form>"))
			return
		}
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("name") == "" {
			http.Redirect(w, r, "/register", http.StatusFound)
			return
		}
		assert.Equal(t, "amqp://10.0.0.9:5672", r.PostForm.Get("broker_uri"))
		assert.Equal(t, "2", r.PostForm.Get("gateway_id"))
		http.Redirect(w, r, "/", http.StatusFound)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	})
	api := newTestClient(t, mux)

	err := api.RegisterCamera(context.Background(), models.Registration{Name: "Dock", BrokerURI: "amqp://10.0.0.9:5672", GatewayID: 2})
	require.NoError(t, err)

	err = api.RegisterCamera(context.Background(), models.Registration{BrokerURI: "amqp://10.0.0.9:5672", GatewayID: 2})
	require.Error(t, err)
}
