package configuration

import "fmt"

type ApiConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
}

// ListenAddress is the address the api server binds to
func (c ApiConfig) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ClientAddress is the address a local client reaches the api at.
// Wildcard and empty hosts resolve to localhost.
func (c ApiConfig) ClientAddress() string {
	host := c.Host
	if len(host) <= 0 || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("%s:%d", host, c.Port)
}
