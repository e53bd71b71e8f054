package errors

import (
	"strings"
	"testing"
)

func TestValidateRoomName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid number", "101", false},
		{"valid word", "Lobby", false},
		{"valid with space", "Main Hall", false},

		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("a", 200), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoomName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRoomName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidRoom) {
				t.Errorf("ValidateRoomName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidRoom)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"M", false},
		{"f", false},
		{"male", false},
		{"Female", false},
		{"", true},
		{"X", true},
		{"MF", true},
	}

	for _, tt := range tests {
		err := ValidateCategory(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateFloor(t *testing.T) {
	for _, f := range []int{1, 2, 40} {
		if err := ValidateFloor(f); err != nil {
			t.Errorf("ValidateFloor(%d) unexpected error: %v", f, err)
		}
	}
	for _, f := range []int{0, -1} {
		if err := ValidateFloor(f); err == nil {
			t.Errorf("ValidateFloor(%d) should fail", f)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "floors", false},
		{"absolute", "/srv/building/floors", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 600), true},
		{"null byte", "floors\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
