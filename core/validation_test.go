package core

import (
	"errors"
	"testing"
)

func TestValidateEntry(t *testing.T) {
	tests := []struct {
		name    string
		entry   *Entry
		wantErr error
	}{
		{
			name: "valid entry",
			entry: &Entry{
				Question: "What causes malaria?",
				Label:    "cause",
				Answer:   "Malaria is caused by Plasmodium parasites.",
			},
			wantErr: nil,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantErr: ErrInvalidEntry,
		},
		{
			name: "empty question",
			entry: &Entry{
				Question: "",
				Label:    "cause",
				Answer:   "Malaria is caused by Plasmodium parasites.",
			},
			wantErr: ErrEmptyQuestion,
		},
		{
			name: "empty label",
			entry: &Entry{
				Question: "What causes malaria?",
				Label:    "",
				Answer:   "Malaria is caused by Plasmodium parasites.",
			},
			wantErr: ErrEmptyLabel,
		},
		{
			name: "empty answer",
			entry: &Entry{
				Question: "What causes malaria?",
				Label:    "cause",
				Answer:   "",
			},
			wantErr: ErrEmptyAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntry(tt.entry)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEntry() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEntry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSender(t *testing.T) {
	if err := ValidateSender(SenderUser); err != nil {
		t.Errorf("ValidateSender(SenderUser) error = %v", err)
	}
	if err := ValidateSender(SenderBot); err != nil {
		t.Errorf("ValidateSender(SenderBot) error = %v", err)
	}
	if err := ValidateSender(Sender(0)); !errors.Is(err, ErrInvalidSender) {
		t.Errorf("ValidateSender(0) error = %v, want ErrInvalidSender", err)
	}
	if err := ValidateSender(Sender(42)); !errors.Is(err, ErrInvalidSender) {
		t.Errorf("ValidateSender(42) error = %v, want ErrInvalidSender", err)
	}
}
