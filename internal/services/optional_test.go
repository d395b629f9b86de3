package services

import (
	"encoding/json"
	"testing"
)

func TestOptionalStringDistinguishesAbsentAndNull(t *testing.T) {
	var patch struct {
		Title OptionalString `json:"title"`
		Notes OptionalString `json:"notes"`
	}
	if err := json.Unmarshal([]byte(`{"notes":null}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if patch.Title.Set {
		t.Fatal("absent field reported as set")
	}
	if !patch.Notes.Set || patch.Notes.Value != nil {
		t.Fatalf("null field: Set=%v Value=%v", patch.Notes.Set, patch.Notes.Value)
	}
}

func TestOptionalStringValue(t *testing.T) {
	var patch struct {
		Title OptionalString `json:"title"`
	}
	if err := json.Unmarshal([]byte(`{"title":"Weekend in Rome"}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !patch.Title.Set || patch.Title.Value == nil || *patch.Title.Value != "Weekend in Rome" {
		t.Fatalf("got Set=%v Value=%v", patch.Title.Set, patch.Title.Value)
	}
}

func TestOptionalStringEmptyBecomesNil(t *testing.T) {
	var patch struct {
		Notes OptionalString `json:"notes"`
	}
	if err := json.Unmarshal([]byte(`{"notes":"  "}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !patch.Notes.Set || patch.Notes.Value != nil {
		t.Fatalf("blank string should clear the field: Set=%v Value=%v", patch.Notes.Set, patch.Notes.Value)
	}
}

func TestOptionalTimeParsesRFC3339(t *testing.T) {
	var patch struct {
		ExpiresAt OptionalTime `json:"expires_at"`
	}
	if err := json.Unmarshal([]byte(`{"expires_at":"2026-09-15T10:00:00Z"}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !patch.ExpiresAt.Set || patch.ExpiresAt.Value == nil {
		t.Fatal("expected a parsed time")
	}
	if got := patch.ExpiresAt.Value.UTC().Format("2006-01-02"); got != "2026-09-15" {
		t.Fatalf("parsed wrong date %s", got)
	}

	var bad struct {
		ExpiresAt OptionalTime `json:"expires_at"`
	}
	if err := json.Unmarshal([]byte(`{"expires_at":"next tuesday"}`), &bad); err == nil {
		t.Fatal("expected error for non-RFC3339 time")
	}
}

func TestOptionalBoolAndFloat(t *testing.T) {
	var patch struct {
		Active    OptionalBool    `json:"active"`
		Threshold OptionalFloat64 `json:"threshold"`
	}
	if err := json.Unmarshal([]byte(`{"active":false,"threshold":249.99}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !patch.Active.Set || patch.Active.Value == nil || *patch.Active.Value {
		t.Fatal("active should be set to false")
	}
	if !patch.Threshold.Set || patch.Threshold.Value == nil || *patch.Threshold.Value != 249.99 {
		t.Fatal("threshold should be 249.99")
	}
}
