package connector

import (
	"context"
	"strings"
	"testing"
)

const sample = "rcv one\nsnd two\nrcv three\n\nRCV five"

func TestReadLinesNumbersFromSource(t *testing.T) {
	lines, err := ReadLines(context.Background(), strings.NewReader(sample), QueryParams{Filter: "rcv"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	want := []int{1, 3, 5}
	for i, l := range lines {
		if l.No != want[i] {
			t.Errorf("line %d: No = %d, want %d", i, l.No, want[i])
		}
	}
}

func TestReadLinesOffsetLimit(t *testing.T) {
	lines, err := ReadLines(context.Background(), strings.NewReader(sample), QueryParams{Offset: 1, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 || lines[0].Text != "snd two" || lines[1].No != 3 {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestReadLinesStripsCarriageReturn(t *testing.T) {
	lines, _ := ReadLines(context.Background(), strings.NewReader("a\r\nb\r\n"), QueryParams{})
	if len(lines) != 2 || lines[0].Text != "a" || lines[1].Text != "b" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestStreamLines(t *testing.T) {
	done := make(chan struct{})
	ch := StreamLines(context.Background(), strings.NewReader(sample), 1, nil, func() { close(done) })

	var got []string
	for l := range ch {
		got = append(got, l.Text)
	}
	<-done
	if len(got) != 5 {
		t.Fatalf("got %d lines, want 5", len(got))
	}
	if got[3] != "" {
		t.Errorf("blank line should be preserved, got %q", got[3])
	}
}

func TestStreamLinesCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := StreamLines(ctx, strings.NewReader(strings.Repeat("x\n", 10000)), 1, nil, nil)
	<-ch
	cancel()
	for range ch {
	}
}

func TestReadLinesKeepsGoingPastOversizedLine(t *testing.T) {
	long := "rcv " + strings.Repeat("A", MaxLineSize+200_000)
	input := "first\n" + long + "\r\nthird"

	lines, err := ReadLines(context.Background(), strings.NewReader(input), QueryParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0].Text != "first" || lines[0].Truncated {
		t.Errorf("line 1 = %+v", lines[0])
	}
	if !lines[1].Truncated || len(lines[1].Text) != MaxLineSize || lines[1].No != 2 {
		t.Errorf("line 2: truncated=%v len=%d no=%d", lines[1].Truncated, len(lines[1].Text), lines[1].No)
	}
	if lines[2].Text != "third" || lines[2].No != 3 || lines[2].Truncated {
		t.Errorf("line 3 = %+v", lines[2])
	}
}

func TestLineReaderLimit(t *testing.T) {
	tests := []struct {
		in        string
		text      string
		truncated bool
	}{
		{"12345678\n", "12345678", false},
		{"12345678\r\n", "12345678", false},
		{"123456789\n", "12345678", true},
		{"123456789", "12345678", true},
		{"\n", "", false},
	}
	for _, tt := range tests {
		lr := newLineReader(strings.NewReader(tt.in))
		lr.max = 8
		text, truncated, err := lr.next()
		if err != nil {
			t.Fatalf("next(%q): %v", tt.in, err)
		}
		if text != tt.text || truncated != tt.truncated {
			t.Errorf("next(%q) = %q, %v; want %q, %v", tt.in, text, truncated, tt.text, tt.truncated)
		}
	}
}

func TestStreamLinesPastOversizedLine(t *testing.T) {
	input := "a\n" + strings.Repeat("x", MaxLineSize+1) + "\nc\n"
	var got []bool
	for l := range StreamLines(context.Background(), strings.NewReader(input), 1, nil, nil) {
		got = append(got, l.Truncated)
	}
	if len(got) != 3 || got[0] || !got[1] || got[2] {
		t.Fatalf("truncated flags = %v, want [false true false]", got)
	}
}
