package env

import (
	"errors"
	"testing"
)

func TestGetStr(t *testing.T) {
	t.Setenv("GRADEBOOK_ENV_TEST", "value")
	if v, err := GetStr("GRADEBOOK_ENV_TEST"); err != nil || v != "value" {
		t.Errorf("GetStr() = %q, %v", v, err)
	}

	t.Setenv("GRADEBOOK_ENV_TEST", "")
	if _, err := GetStr("GRADEBOOK_ENV_TEST"); !errors.Is(err, ErrEnvVarEmpty) {
		t.Errorf("expected ErrEnvVarEmpty, got %v", err)
	}
}
