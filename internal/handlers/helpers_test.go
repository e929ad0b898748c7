package handlers_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Domain  string            `json:"domain"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal([]byte(body), &out), "Ответ не JSON: %s", body)
	return out
}
