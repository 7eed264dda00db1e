package domain

import (
	"testing"
	"time"
)

func TestLocationRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
	}{
		{"integers", Location{Longitude: 10, Latitude: 20}},
		{"fractional", Location{Longitude: -122.4194, Latitude: 37.7749}},
		{"high precision", Location{Longitude: 139.69171110000001, Latitude: 35.689487199999994}},
		{"zero", Location{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := FormatLocation(tt.loc)
			got, err := ParseLocation(content)
			if err != nil {
				t.Fatalf("ParseLocation(%q) failed: %v", content, err)
			}
			if got != tt.loc {
				t.Errorf("round trip changed coordinates: %v -> %q -> %v", tt.loc, content, got)
			}
		})
	}
}

func TestParseLocationMalformed(t *testing.T) {
	for _, content := range []string{"", "10", "10,20,30", "a,b", "10,"} {
		if _, err := ParseLocation(content); err == nil {
			t.Errorf("ParseLocation(%q) should fail", content)
		}
	}
}

func TestDateRoundTrip(t *testing.T) {
	sent := time.Date(2025, time.March, 7, 15, 4, 5, 0, time.UTC)
	formatted := FormatDate(sent)
	if formatted != "Mar 7, 2025 at 3:04:05 PM UTC" {
		t.Errorf("unexpected date format: %q", formatted)
	}

	parsed, err := ParseDate(formatted)
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if !parsed.Equal(sent) {
		t.Errorf("round trip changed time: %v -> %v", sent, parsed)
	}
}

func TestBodyRender(t *testing.T) {
	tests := []struct {
		name string
		body Body
		want string
	}{
		{"text", Body{Kind: KindText, Text: "hello"}, "hello"},
		{"photo", Body{Kind: KindPhoto, URL: "https://cdn/x.png"}, "https://cdn/x.png"},
		{"video", Body{Kind: KindVideo, URL: "https://cdn/x.mov"}, "https://cdn/x.mov"},
		{"location", Body{Kind: KindLocation, Location: Location{Longitude: 1.5, Latitude: -2.5}}, "1.5,-2.5"},
		{"unsupported kind renders empty", Body{Kind: Kind("emoji"), Text: "ignored"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.body.Render(); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeBody(t *testing.T) {
	body, err := DecodeBody(KindLocation, "1.5,-2.5")
	if err != nil {
		t.Fatalf("DecodeBody failed: %v", err)
	}
	if body.Location != (Location{Longitude: 1.5, Latitude: -2.5}) {
		t.Errorf("unexpected location: %v", body.Location)
	}

	if _, err := DecodeBody(KindLocation, "garbage"); err == nil {
		t.Error("malformed location content should fail to decode")
	}

	// Unknown kinds still decode so old logs remain readable
	body, err = DecodeBody(Kind("audio"), "whatever")
	if err != nil {
		t.Fatalf("unknown kind should decode: %v", err)
	}
	if body.Kind != Kind("audio") {
		t.Errorf("kind not carried through: %q", body.Kind)
	}
}

func TestMessageAndConversationIDs(t *testing.T) {
	sent := time.Date(2025, time.March, 7, 15, 4, 5, 0, time.UTC)
	msgID := NewMessageID("bob-example-com", "alice-example-com", sent)
	want := "bob-example-com_alice-example-com_Mar 7, 2025 at 3:04:05 PM UTC"
	if msgID != want {
		t.Errorf("NewMessageID = %q, want %q", msgID, want)
	}

	if got := ConversationID(msgID); got != "conversation_"+want {
		t.Errorf("ConversationID = %q", got)
	}
}
