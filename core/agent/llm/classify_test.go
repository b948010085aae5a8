package llm

import "testing"

func TestParseFlagClassification(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, got *FlagClassification)
	}{
		{
			name: "plain JSON",
			content: `{"is_hierarchy":true,"is_client":false,"is_meeting":true,"is_escalation":false,"is_urgent":true,
				"suggested_label":"Board Meetings","reasoning":"Leadership meeting request.","confidence":0.92}`,
			check: func(t *testing.T, got *FlagClassification) {
				if !got.IsHierarchy || !got.IsMeeting || !got.IsUrgent {
					t.Errorf("flags = %+v, want hierarchy/meeting/urgent set", got)
				}
				if got.IsClient || got.IsEscalation {
					t.Errorf("flags = %+v, want client/escalation unset", got)
				}
				if got.SuggestedLabel != "Board Meetings" {
					t.Errorf("suggested_label = %q", got.SuggestedLabel)
				}
			},
		},
		{
			name: "fenced JSON",
			content: "```json\n{\"is_hierarchy\":false,\"is_client\":true,\"is_meeting\":false," +
				"\"is_escalation\":false,\"is_urgent\":false,\"suggested_label\":\"\",\"reasoning\":\"Client update.\",\"confidence\":0.7}\n```",
			check: func(t *testing.T, got *FlagClassification) {
				if !got.IsClient {
					t.Errorf("IsClient = false, want true")
				}
				if got.SuggestedLabel != "" {
					t.Errorf("suggested_label = %q, want empty", got.SuggestedLabel)
				}
			},
		},
		{
			name:    "prose instead of JSON",
			content: "This email appears to be from a client and is urgent.",
			wantErr: true,
		},
		{
			name:    "truncated JSON",
			content: `{"is_hierarchy":true,"is_client":`,
			wantErr: true,
		},
		{
			name:    "confidence out of range",
			content: `{"is_hierarchy":false,"is_client":false,"is_meeting":false,"is_escalation":false,"is_urgent":false,"suggested_label":"","reasoning":"","confidence":1.5}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlagClassification(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}
