package services

import (
	"encoding/json"
	"testing"
)

func TestCanonicalParamsHashIgnoresKeyOrderAndWhitespace(t *testing.T) {
	a := json.RawMessage(`{"from":"TUN","to":"CDG","passengers":2}`)
	b := json.RawMessage(`{
		"to":   "CDG",
		"passengers": 2,
		"from": "TUN"
	}`)

	ha, err := CanonicalParamsHash(a)
	if err != nil {
		t.Fatalf("hash a: %v", err)
	}
	hb, err := CanonicalParamsHash(b)
	if err != nil {
		t.Fatalf("hash b: %v", err)
	}
	if ha != hb {
		t.Fatalf("equivalent params hashed differently: %s vs %s", ha, hb)
	}
}

func TestCanonicalParamsHashNestedObjects(t *testing.T) {
	a := json.RawMessage(`{"filters":{"stops":0,"cabin":"economy"},"from":"TUN"}`)
	b := json.RawMessage(`{"from":"TUN","filters":{"cabin":"economy","stops":0}}`)

	ha, _ := CanonicalParamsHash(a)
	hb, _ := CanonicalParamsHash(b)
	if ha != hb {
		t.Fatalf("nested key order changed the hash")
	}
}

func TestCanonicalParamsHashDistinguishesValues(t *testing.T) {
	a := json.RawMessage(`{"from":"TUN","to":"CDG"}`)
	b := json.RawMessage(`{"from":"TUN","to":"ORY"}`)

	ha, _ := CanonicalParamsHash(a)
	hb, _ := CanonicalParamsHash(b)
	if ha == hb {
		t.Fatalf("different params produced the same hash")
	}
}

func TestCanonicalParamsHashArrayOrderMatters(t *testing.T) {
	a := json.RawMessage(`{"stops":["FRA","IST"]}`)
	b := json.RawMessage(`{"stops":["IST","FRA"]}`)

	ha, _ := CanonicalParamsHash(a)
	hb, _ := CanonicalParamsHash(b)
	if ha == hb {
		t.Fatalf("array order should be significant")
	}
}

func TestCanonicalParamsHashRejectsInvalidJSON(t *testing.T) {
	if _, err := CanonicalParamsHash(json.RawMessage(`{"from":`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
