package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "what causes malaria?",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer query that should still hash consistently across calls",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("what causes malaria?")
	id2 := IDFromContent("what causes diabetes?")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestFingerprint(t *testing.T) {
	fp1 := Fingerprint([]byte("corpus-v1"), []byte("index-v1"))
	fp2 := Fingerprint([]byte("corpus-v1"), []byte("index-v1"))
	fp3 := Fingerprint([]byte("corpus-v2"), []byte("index-v1"))

	if fp1 != fp2 {
		t.Errorf("Fingerprint() not deterministic: %q vs %q", fp1, fp2)
	}
	if fp1 == fp3 {
		t.Errorf("Fingerprint() did not change with artifact state")
	}
	if len(fp1) != 16 {
		t.Errorf("Fingerprint() length = %d, want 16 hex chars", len(fp1))
	}
}

func TestStage_String(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageSmalltalk, "smalltalk"},
		{StageConditionLookup, "condition-lookup"},
		{StageCache, "cache"},
		{StageExact, "exact"},
		{StageConditionIntent, "condition-intent"},
		{StageSymptom, "symptom"},
		{StageKeyword, "keyword"},
		{StageClassifier, "classifier"},
		{StageSemantic, "semantic"},
		{StageFallback, "fallback"},
		{StageNone, "none"},
		{Stage(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.stage.String(); got != tt.want {
				t.Errorf("Stage.String() = %q, want %q", got, tt.want)
			}
		})
	}
}
