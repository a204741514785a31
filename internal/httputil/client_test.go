package httputil

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestGetJSON(t *testing.T) {
	t.Parallel()

	client := NewMockHTTPClient().
		AddResponse(http.StatusOK, `{"version": 4}`).
		AddResponse(http.StatusNotFound, `{"error": "no deck"}`).
		AddResponse(http.StatusBadGateway, `upstream`).
		AddErrorResponse(errors.New("connection refused")).
		AddResponse(http.StatusOK, `not json`)

	ctx := context.Background()
	var got struct {
		Version int `json:"version"`
	}
	if err := GetJSON(ctx, client, "http://deckd/api/deck", &got); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if got.Version != 4 {
		t.Errorf("version = %d, want 4", got.Version)
	}
	if accept := client.Requests[0].Header.Get("Accept"); accept != "application/json" {
		t.Errorf("Accept = %q", accept)
	}

	wants := []string{"no deck", "502", "connection refused", "decode"}
	for _, want := range wants {
		err := GetJSON(ctx, client, "http://deckd/api/deck", &got)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("GetJSON error = %v, want containing %q", err, want)
		}
	}
	if n := client.RequestCount(); n != 5 {
		t.Errorf("RequestCount() = %d, want 5", n)
	}
}
