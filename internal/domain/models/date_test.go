package models

import (
	"encoding/json"
	"testing"
)

func TestDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2019-04-02")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `"2019-04-02"` {
		t.Fatalf("dates must serialize as yyyy-MM-dd, got %s", out)
	}
}

func TestDateUnmarshal_AcceptsTimestamps(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2019-04-02T15:04:05Z"`), &d); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if d.String() != "2019-04-02" {
		t.Fatalf("timestamp must normalize to the calendar date, got %q", d.String())
	}
}

func TestDateZeroValue(t *testing.T) {
	var d Date
	out, _ := json.Marshal(d)
	if string(out) != `""` {
		t.Fatalf("zero date must serialize empty, got %s", out)
	}

	if err := json.Unmarshal([]byte(`""`), &d); err != nil {
		t.Fatalf("empty string must decode to the zero date: %v", err)
	}
	if !d.IsZero() {
		t.Fatal("empty string must decode to the zero date")
	}
}
