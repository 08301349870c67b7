package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_RejectsArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "one argument", args: []string{"httpserver", "x"}},
		{name: "several arguments", args: []string{"httpserver", "--port", "4000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// an unreadable config would fail first if it were loaded
			t.Setenv("PORT", "invalid")
			var out bytes.Buffer

			code := run(tt.args, &out)

			assert.Equal(t, 1, code)
			assert.Equal(t, usage+"\n", out.String())
		})
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongodb")
	t.Setenv("MONGO_CONNECTION_STRING", "")
	var out bytes.Buffer

	code := run([]string{"httpserver"}, &out)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "Invalid config")
	assert.Contains(t, out.String(), "MONGO_CONNECTION_STRING")
	assert.Contains(t, out.String(), usage)
}
