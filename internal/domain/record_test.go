package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewContentRecord(t *testing.T) {
	t.Parallel() // Enable parallel execution
	rec, err := NewContentRecord("Shipping beats perfection.", "https://example.com/profile", 12, 3, 1)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if rec.Content != "Shipping beats perfection." {
		t.Errorf("Expected content to round-trip, got %q", rec.Content)
	}

	if rec.Likes != 12 || rec.Comments != 3 || rec.Reposts != 1 {
		t.Errorf("Expected engagement counts (12, 3, 1), got (%d, %d, %d)",
			rec.Likes, rec.Comments, rec.Reposts)
	}

	if rec.ScrapedAt.IsZero() {
		t.Error("Expected non-zero ScrapedAt time")
	}

	// Empty content is rejected
	_, err = NewContentRecord("", "https://example.com/profile", 0, 0, 0)
	if err != ErrRecordContentEmpty {
		t.Errorf("Expected error %v, got %v", ErrRecordContentEmpty, err)
	}
}

func TestContentRecordValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	valid := ContentRecord{
		ID:      uuid.New(),
		Content: "A post",
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalid := valid
	invalid.ID = uuid.Nil
	if err := invalid.Validate(); err != ErrRecordIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrRecordIDEmpty, err)
	}

	invalid = valid
	invalid.Content = ""
	if err := invalid.Validate(); err != ErrRecordContentEmpty {
		t.Errorf("Expected error %v, got %v", ErrRecordContentEmpty, err)
	}
}
