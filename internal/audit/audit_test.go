package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_Log(t *testing.T) {
	tests := []struct {
		name            string
		event           Event
		wantEventType   string
		wantProvider    string
		wantSuccess     bool
		wantHasError    bool
		wantHasIdentity bool
	}{
		{
			name: "authenticated event",
			event: Event{
				EventType:  EventAuthenticated,
				IdentityID: uuid.NewString(),
				Provider:   "deepface",
				Success:    true,
				Confidence: 0.87,
			},
			wantEventType:   string(EventAuthenticated),
			wantProvider:    "deepface",
			wantSuccess:     true,
			wantHasError:    false,
			wantHasIdentity: true,
		},
		{
			name: "enrollment event with identity",
			event: Event{
				EventType:  EventFaceEnrolled,
				IdentityID: uuid.NewString(),
				Provider:   "deepface",
				Success:    true,
				Metadata: map[string]string{
					"enrolled_count": "2",
				},
			},
			wantEventType:   string(EventFaceEnrolled),
			wantProvider:    "deepface",
			wantSuccess:     true,
			wantHasError:    false,
			wantHasIdentity: true,
		},
		{
			name: "failed authentication with no identity",
			event: Event{
				EventType: EventAuthFailed,
				Provider:  "deepface",
				Success:   false,
				Error:     "no match above threshold",
			},
			wantEventType:   string(EventAuthFailed),
			wantProvider:    "deepface",
			wantSuccess:     false,
			wantHasError:    true,
			wantHasIdentity: false,
		},
		{
			name: "validation rejected event",
			event: Event{
				EventType: EventImageValidated,
				Provider:  "mock",
				Success:   false,
				Error:     "too dark",
			},
			wantEventType:   string(EventImageValidated),
			wantProvider:    "mock",
			wantSuccess:     false,
			wantHasError:    true,
			wantHasIdentity: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			auditLogger := NewSlogLogger(logger)

			err := auditLogger.Log(context.Background(), tt.event)
			require.NoError(t, err)

			output := buf.String()
			assert.Contains(t, output, "audit_event")
			assert.Contains(t, output, tt.wantEventType)
			assert.Contains(t, output, tt.wantProvider)

			var logged map[string]any
			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(output)), &logged))
			assert.Equal(t, tt.wantSuccess, logged["success"])

			eventData, ok := logged["event_data"].(string)
			require.True(t, ok, "event_data should be a JSON string")

			var event map[string]any
			require.NoError(t, json.Unmarshal([]byte(eventData), &event))
			if tt.wantHasError {
				assert.NotEmpty(t, event["error"])
			} else {
				assert.Empty(t, event["error"])
			}
			if tt.wantHasIdentity {
				assert.NotEmpty(t, event["identity_id"])
			}
		})
	}
}

func TestSlogLogger_Log_FillsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	auditLogger := NewSlogLogger(logger)

	err := auditLogger.Log(context.Background(), Event{
		EventType: EventThresholdSet,
		Provider:  "mock",
		Success:   true,
	})
	require.NoError(t, err)

	var logged map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &logged))

	eventID, ok := logged["event_id"].(string)
	require.True(t, ok)
	_, err = uuid.Parse(eventID)
	assert.NoError(t, err, "event ID should be generated when missing")

	var event map[string]any
	require.NoError(t, json.Unmarshal([]byte(logged["event_data"].(string)), &event))
	assert.NotEmpty(t, event["timestamp"], "timestamp should be filled when missing")
}

func TestNoOpLogger_Log(t *testing.T) {
	logger := &NoOpLogger{}
	err := logger.Log(context.Background(), Event{EventType: EventAuthenticated})
	assert.NoError(t, err)
}
