package network

import (
	"strings"
	"time"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
)

// ServerConfig is read from the query of the bind endpoint, eg.
// `https://0.0.0.0:12345?TLSCertFile=c.pem&TLSKeyFile=k.pem&WriteTimeout=10s`.
type ServerConfig struct {
	Endpoint *common.Endpoint
	Addr     string

	ReadTimeout,
	ReadHeaderTimeout,
	WriteTimeout,
	IdleTimeout time.Duration

	TLSCertFile,
	TLSKeyFile string
}

func NewServerConfigFromEndpoint(endpoint *common.Endpoint) (config *ServerConfig, err error) {
	query := endpoint.Query()

	config = &ServerConfig{
		Endpoint:    endpoint,
		Addr:        endpoint.Host,
		TLSCertFile: query.Get("TLSCertFile"),
		TLSKeyFile:  query.Get("TLSKeyFile"),
	}

	durations := []struct {
		name string
		v    *time.Duration
	}{
		{"ReadTimeout", &config.ReadTimeout},
		{"ReadHeaderTimeout", &config.ReadHeaderTimeout},
		{"WriteTimeout", &config.WriteTimeout},
		{"IdleTimeout", &config.IdleTimeout},
	}
	for _, d := range durations {
		s := query.Get(d.name)
		if len(s) < 1 {
			continue
		}

		var v time.Duration
		if v, err = time.ParseDuration(s); err != nil || v < 0 {
			return nil, errors.BadRequestParameter.Clone().SetData(d.name, s)
		}
		*d.v = v
	}

	switch strings.ToLower(endpoint.Scheme) {
	case "http":
	case "https":
		if !config.IsHTTPS() {
			return nil, errors.New("HTTPS needs `TLSCertFile` and `TLSKeyFile`")
		}
	default:
		return nil, errors.New("unsupported scheme: " + endpoint.Scheme)
	}

	return
}

func (config ServerConfig) IsHTTPS() bool {
	return len(config.TLSCertFile) > 0 && len(config.TLSKeyFile) > 0
}
