package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Every protected handler rejects a request whose context never went
// through the auth middleware before touching its service.
func TestHandlersRejectUnauthenticated(t *testing.T) {
	profileHandler := NewProfileHandler(nil)
	sessionHandler := NewSessionHandler(nil)
	statsHandler := NewStatsHandler(nil)
	groupHandler := NewGroupHandler(nil)
	feedHandler := NewFeedHandler(nil)

	cases := []struct {
		name    string
		method  string
		handler http.HandlerFunc
	}{
		{"GetProfile", http.MethodGet, profileHandler.GetProfile},
		{"UpdateProfile", http.MethodPut, profileHandler.UpdateProfile},
		{"DeleteAccount", http.MethodDelete, profileHandler.DeleteAccount},
		{"StartSession", http.MethodPost, sessionHandler.StartSession},
		{"GetActiveSession", http.MethodGet, sessionHandler.GetActiveSession},
		{"GetUserStats", http.MethodGet, statsHandler.GetUserStats},
		{"GetWeeklyStats", http.MethodGet, statsHandler.GetWeeklyStats},
		{"GetCalendar", http.MethodGet, statsHandler.GetCalendar},
		{"CreateGroup", http.MethodPost, groupHandler.CreateGroup},
		{"GetMyGroups", http.MethodGet, groupHandler.GetMyGroups},
		{"GetDiscovery", http.MethodGet, groupHandler.GetDiscovery},
		{"GetFeed", http.MethodGet, feedHandler.GetFeed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/v1/any", strings.NewReader("{}"))
			rr := httptest.NewRecorder()

			tc.handler(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}
