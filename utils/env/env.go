package env

import (
	"errors"
	"os"
)

var ErrEnvVarEmpty = errors.New("getenv: environment variable empty")

func GetStr(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return v, ErrEnvVarEmpty
	}
	return v, nil
}
