package storage

import (
	"net/url"
	"strings"

	"boscoin.io/tokenpoll/lib/errors"
)

// Config selects the leveldb backend: "file:///path/to/db" or "memory://".
type Config struct {
	Scheme string
	Path   string
}

func NewConfigFromString(s string) (*Config, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, errors.FailedToParseStorageConfig.Clone().SetData("error", err.Error())
	}

	config := &Config{Scheme: u.Scheme}
	switch u.Scheme {
	case "memory":
	case "file":
		config.Path = u.Path
		if len(u.Host) > 0 {
			config.Path = u.Host + u.Path
		}
		if len(strings.TrimSpace(config.Path)) < 1 {
			return nil, errors.FailedToParseStorageConfig.Clone().SetData("path", s)
		}
	default:
		return nil, errors.FailedToParseStorageConfig.Clone().SetData("scheme", u.Scheme)
	}

	return config, nil
}

func NewStorage(config *Config) (*LevelDBBackend, error) {
	st := &LevelDBBackend{}
	if err := st.Init(config); err != nil {
		return nil, err
	}

	return st, nil
}

func (c Config) String() string {
	if c.Scheme == "memory" {
		return "memory://"
	}

	return (&url.URL{Scheme: c.Scheme, Path: c.Path}).String()
}

type IterItem struct {
	N     uint64
	Key   []byte
	Value []byte
}

type Item struct {
	Key   string
	Value interface{}
}
