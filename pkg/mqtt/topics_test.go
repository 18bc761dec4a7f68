package mqtt

import "testing"

func TestTopicHelpers(t *testing.T) {
	if got, want := RawLDRTopic("study"), "sensors/raw/ldr/study"; got != want {
		t.Errorf("RawLDRTopic = %q, want %q", got, want)
	}
	if got, want := LightTopic("study"), "sensors/light/study"; got != want {
		t.Errorf("LightTopic = %q, want %q", got, want)
	}
}

func TestLocationFromRawTopic(t *testing.T) {
	tests := []struct {
		topic   string
		want    string
		wantErr bool
	}{
		{"sensors/raw/ldr/study", "study", false},
		{"sensors/raw/ldr/living_room", "living_room", false},
		{"sensors/raw/ldr/", "", true},
		{"sensors/raw/temperature/study", "", true},
		{"sensors/light/study", "", true},
		{"garbage", "", true},
	}

	for _, tt := range tests {
		got, err := LocationFromRawTopic(tt.topic)
		if tt.wantErr {
			if err == nil {
				t.Errorf("LocationFromRawTopic(%q): expected error", tt.topic)
			}
			continue
		}
		if err != nil {
			t.Errorf("LocationFromRawTopic(%q): %v", tt.topic, err)
			continue
		}
		if got != tt.want {
			t.Errorf("LocationFromRawTopic(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}
