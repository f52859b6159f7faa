package pipeline

import (
	"encoding/json"
	"testing"
)

func TestParseStage(t *testing.T) {
	tests := []struct {
		in      string
		want    Stage
		wantErr bool
	}{
		{"collecting_profile", StageCollectingProfile, false},
		{"SelectingProjects", StageSelectingProjects, false},
		{"previewing-resume", StagePreviewingResume, false},
		{" Downloading ", StageDownloading, false},
		{"done", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStage(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStage(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseStage(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestStageJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Stage Stage `json:"stage"`
	}{StagePreviewingResume})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"stage":"previewing_resume"}` {
		t.Errorf("json = %s", data)
	}

	var decoded struct {
		Stage Stage `json:"stage"`
	}
	if err := json.Unmarshal([]byte(`{"stage":"downloading"}`), &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Stage != StageDownloading {
		t.Errorf("stage = %s", decoded.Stage)
	}
}
