package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestValidateCheckID(t *testing.T) {
	valid := []string{
		uuid.NewString(),
		"stream-1700000000000-0",
		"stream-1-42",
	}
	for _, id := range valid {
		if err := ValidateCheckID(id); err != nil {
			t.Errorf("ValidateCheckID(%q) = %v, want nil", id, err)
		}
	}

	invalid := []string{
		"",
		".",
		"..",
		"../victim",
		"a/b",
		"stream-",
		"stream-1-0/../../x",
		"stream-abc",
		"{" + uuid.NewString() + "}",
		"urn:uuid:" + uuid.NewString(),
	}
	for _, id := range invalid {
		if err := ValidateCheckID(id); err == nil {
			t.Errorf("ValidateCheckID(%q) = nil, want error", id)
		}
	}
}
