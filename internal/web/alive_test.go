package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeetingMinder/MeetingMinder/internal/booking"
	"github.com/MeetingMinder/MeetingMinder/internal/config"
)

func TestCheckAliveFailsWhileDraining(t *testing.T) {
	s, err := New(&config.Config{Title: "MeetingMinder"}, &booking.Services{})
	require.NoError(t, err)

	status := func() int {
		resp, errTest := s.App.Test(httptest.NewRequest(http.MethodGet, CheckAlivePath, nil))
		require.NoError(t, errTest)
		require.NoError(t, resp.Body.Close())

		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, status())

	s.alive.Store(false)
	assert.Equal(t, http.StatusServiceUnavailable, status())
}
