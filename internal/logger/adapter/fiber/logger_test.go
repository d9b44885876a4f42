package fiber_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/MeetingMinder/MeetingMinder/internal/logger/adapter/fiber"

	"github.com/MeetingMinder/MeetingMinder/internal/logger"
)

type accessLine struct {
	IP        string `json:"IP"`
	Status    int    `json:"status"`
	URI       string `json:"URI"`
	Method    string `json:"method"`
	Host      string `json:"host"`
	RequestID string `json:"requestID"`
	Error     string `json:"error"`
}

func TestNew(t *testing.T) {
	consoleJSON := logger.Log{
		EnableAccessLogToConsole: true,
		Console:                  logger.Console{Enabled: true},
	}

	tests := []struct {
		name       string
		config     adapter.Config
		targetPath string
		want       *accessLine
	}{
		{
			name:       "no writer no output",
			targetPath: "/",
		},
		{
			name:       "console without access log switch",
			targetPath: "/",
			config: adapter.Config{
				Config: logger.Log{Console: logger.Console{Enabled: true}},
			},
		},
		{
			name:       "get / logged as json",
			targetPath: "/",
			config:     adapter.Config{Config: consoleJSON},
			want: &accessLine{
				IP:     "0.0.0.0",
				Status: fiber.StatusOK,
				URI:    "/",
				Method: fiber.MethodGet,
				Host:   "example.com",
			},
		},
		{
			name:       "query string kept",
			targetPath: "/?page=2&size=5",
			config:     adapter.Config{Config: consoleJSON},
			want: &accessLine{
				IP:     "0.0.0.0",
				Status: fiber.StatusOK,
				URI:    "/?page=2&size=5",
				Method: fiber.MethodGet,
				Host:   "example.com",
			},
		},
		{
			name:       "request id from locals",
			targetPath: "/",
			config:     adapter.Config{Config: consoleJSON, RequestIDLocal: "requestID"},
			want: &accessLine{
				IP:        "0.0.0.0",
				Status:    fiber.StatusOK,
				URI:       "/",
				Method:    fiber.MethodGet,
				Host:      "example.com",
				RequestID: "req-1",
			},
		},
		{
			name:       "handler error is logged with its status",
			targetPath: "/missing",
			config:     adapter.Config{Config: consoleJSON},
			want: &accessLine{
				IP:     "0.0.0.0",
				Status: fiber.StatusNotFound,
				URI:    "/missing",
				Method: fiber.MethodGet,
				Host:   "example.com",
				Error:  "gone",
			},
		},
		{
			name:       "check alive skipped",
			targetPath: "/checkalive",
			config: adapter.Config{
				Config: logger.Log{
					EnableAccessLogToConsole: true,
					DisableCheckAlive:        true,
					Console:                  logger.Console{Enabled: true},
				},
				CheckAliveURI: "/checkalive",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := serveOnce(t, tt.targetPath, tt.config)

			if tt.want == nil {
				assert.Empty(t, output)
				return
			}

			var got accessLine

			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(output)), &got), output)
			assert.Equal(t, *tt.want, got)
		})
	}
}

func serveOnce(t *testing.T, targetPath string, cfg adapter.Config) string {
	t.Helper()

	stdout, stderr := os.Stdout, os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	app := fiber.New(fiber.Config{CaseSensitive: true, Immutable: true})

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestID", "req-1")
		return c.Next()
	})
	app.Use(adapter.New(cfg))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("hello test")
	})
	app.Get("/checkalive", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/missing", func(_ *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "gone")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, targetPath, nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(adapter.HeaderPerformance))

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	return <-outC
}
