package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetString(t *testing.T) {
	t.Setenv("PAINEL_TEST_ADDR", ":9090")
	assert.Equal(t, ":9090", GetString("PAINEL_TEST_ADDR", ":8080"))
	assert.Equal(t, ":8080", GetString("PAINEL_TEST_UNSET", ":8080"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("PAINEL_TEST_INT", "42")
	t.Setenv("PAINEL_TEST_BAD_INT", "many")
	assert.Equal(t, 42, GetInt("PAINEL_TEST_INT", 1))
	assert.Equal(t, 1, GetInt("PAINEL_TEST_BAD_INT", 1))
	assert.Equal(t, 1, GetInt("PAINEL_TEST_UNSET", 1))
}

func TestGetDuration(t *testing.T) {
	t.Setenv("PAINEL_TEST_TIMEOUT", "45s")
	t.Setenv("PAINEL_TEST_BAD_TIMEOUT", "soon")
	t.Setenv("PAINEL_TEST_NEG_TIMEOUT", "-1s")
	assert.Equal(t, 45*time.Second, GetDuration("PAINEL_TEST_TIMEOUT", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("PAINEL_TEST_BAD_TIMEOUT", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("PAINEL_TEST_NEG_TIMEOUT", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("PAINEL_TEST_UNSET", time.Minute))
}
