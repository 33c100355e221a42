package models

// Camera is one entry of the camera grid. Field names follow the server's
// cameras.json store so the same shape round-trips through the local config.
type Camera struct {
	ID        int    `json:"id" mapstructure:"id" yaml:"id"`
	Name      string `json:"name" mapstructure:"name" yaml:"name"`
	BrokerURI string `json:"broker_uri,omitempty" mapstructure:"broker_uri" yaml:"broker_uri,omitempty"`
	GatewayID int    `json:"gateway_id,omitempty" mapstructure:"gateway_id" yaml:"gateway_id,omitempty"`
}

// Registration is the form submitted to POST /register
type Registration struct {
	Name      string
	BrokerURI string
	GatewayID int
}
