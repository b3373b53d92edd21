package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpec = `openapi: 3.0.3
info:
  title: Test
  version: "1"
paths:
  /healthz:
    get:
      responses:
        "200":
          description: ok
`

func TestSwaggerHandler(t *testing.T) {
	h, err := NewSwaggerHandler("Bot Radar", []byte(testSpec))
	require.NoError(t, err)

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	ui := do(t, r, http.MethodGet, "/docs", "")
	assert.Equal(t, http.StatusOK, ui.Code)
	assert.Contains(t, ui.Body.String(), "Bot Radar - API Documentation")

	spec := do(t, r, http.MethodGet, "/docs/openapi.yaml", "")
	assert.Equal(t, testSpec, spec.Body.String())

	js := do(t, r, http.MethodGet, "/docs/openapi.json", "")
	var doc map[string]any
	require.NoError(t, json.Unmarshal(js.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
}

func TestSwaggerHandlerRejectsInvalidSpec(t *testing.T) {
	_, err := NewSwaggerHandler("x", []byte("openapi: [unterminated"))
	assert.Error(t, err)
}
