package schema

import (
	"strconv"
	"strings"
	"testing"
)

func validDoc(version int) string {
	return `{"name":"t","version":` + strconv.Itoa(version) + `,"columns":[{"name":"id","length":3,"dtype":"i32"}]}`
}

func TestParseAcceptsSupportedVersion(t *testing.T) {
	sch, err := Parse(strings.NewReader(validDoc(SupportedVersion)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sch.Version != SupportedVersion {
		t.Errorf("got version %d, want %d", sch.Version, SupportedVersion)
	}
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	_, err := Parse(strings.NewReader(validDoc(SupportedVersion + 1)))
	if err == nil {
		t.Fatal("expected an error for an unsupported schema version")
	}
}
