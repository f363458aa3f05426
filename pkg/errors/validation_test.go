package errors

import (
	"strings"
	"testing"
)

func TestValidateSpreadName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "button", false},
		{"valid with dash", "date-picker", false},
		{"valid with underscore", "my_hook", false},
		{"valid with dot", "ui.card", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 215), true},
		{"slash", "ui/button", true},
		{"path traversal", "..", true},
		{"leading dash", "-button", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpreadName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSpreadName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "src/button.tsx", false},
		{"nested", "src/app/component/ui/button.tsx", false},
		{"dot segment inside root", "src/../lib/x.ts", false},
		{"leading dot", "./README.md", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"windows absolute", "C:\\Windows\\x", true},
		{"escapes root", "../outside.txt", true},
		{"escapes root after clean", "src/../../outside.txt", true},
		{"backslash escape", "..\\outside.txt", true},
		{"control char", "src/\x01.ts", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTarget(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateTarget(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://spread.neploom.com/spread/button", false},
		{"http://localhost:3000/spread/card", false},
		{"HTTPS://EXAMPLE.COM", false},
		{"", true},
		{"ftp://example.com/x", true},
		{"example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
