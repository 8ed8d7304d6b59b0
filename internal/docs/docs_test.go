package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredDocIsValidJSON(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Swagger string                    `json:"swagger"`
		Info    map[string]any            `json:"info"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc), raw)

	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "Mappo Toolkit API", doc.Info["title"])

	routes := map[string]string{
		"/camera":                          "get",
		"/camera/activate":                 "post",
		"/camera/capture":                  "post",
		"/camera/confirm":                  "post",
		"/scanner/start":                   "post",
		"/scanner/events":                  "post",
		"/calendar/events":                 "post",
		"/comms/call":                      "post",
		"/comms/whatsapp":                  "post",
		"/home":                            "get",
		"/permissions":                     "get",
		"/permissions/{capability}/ensure": "post",
	}
	for path, method := range routes {
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "falta %s", path) {
			assert.Contains(t, ops, method, path)
		}
	}
}
