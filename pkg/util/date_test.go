package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}
func TestDayStringRoundTrip(t *testing.T) {
    day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
    s := DayString(day)
    if s != "2024-03-05" {
        t.Fatalf("unexpected day %q", s)
    }
    got, ok := ParseDay(s)
    if !ok || !got.Equal(day) {
        t.Fatalf("round trip failed: %v %v", got, ok)
    }
}

func TestParseDayInvalid(t *testing.T) {
    if _, ok := ParseDay("not-a-day"); ok {
        t.Fatalf("expected failure")
    }
}
