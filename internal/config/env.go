package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envSource resolves environment fallbacks: the process environment first,
// then the optional .env file that sits next to the config file. The .env
// values are never exported into the process environment.
type envSource map[string]string

func loadEnv(path string) (envSource, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return envSource{}, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return envSource(values), nil
}

func (e envSource) lookup(key string) (string, bool) {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value), true
	}
	if value, ok := e[key]; ok {
		return strings.TrimSpace(value), true
	}
	return "", false
}
