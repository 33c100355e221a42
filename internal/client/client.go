package client

import (
	"crypto/tls"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FallbackMessage is surfaced when a failed response carries no message.
const FallbackMessage = "server error"

// RequestIDHeader correlates a control request with server logs.
const RequestIDHeader = "X-Request-Id"

type CameraClient struct {
	HTTP   *resty.Client
	Config ClientConfig
}

type ClientConfig struct {
	BaseURL string
	// Timeout bounds a whole request. Zero waits for the server indefinitely.
	Timeout time.Duration
	// InsecureTLS skips certificate checks for self-signed on-prem servers.
	InsecureTLS bool
	Logger      zerolog.Logger
}

func New(cfg ClientConfig) *CameraClient {
	r := resty.New()
	r.SetBaseURL(cfg.BaseURL)

	r.SetHeader("Accept", "application/json")
	r.SetTimeout(cfg.Timeout)
	r.SetLogger(&restyLogger{log: cfg.Logger})

	if cfg.InsecureTLS {
		r.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	r.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader(RequestIDHeader, uuid.NewString())
		return nil
	})

	return &CameraClient{
		HTTP:   r,
		Config: cfg,
	}
}

// restyLogger routes resty's own diagnostics into zerolog.
type restyLogger struct {
	log zerolog.Logger
}

func (l *restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error().Msgf(format, v...)
}

func (l *restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn().Msgf(format, v...)
}

func (l *restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug().Msgf(format, v...)
}
