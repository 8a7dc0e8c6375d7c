package tty

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, d *Device) string {
	var sb strings.Builder
	for {
		c, err := d.ReadChar()
		if err == io.EOF {
			return sb.String()
		}
		if err != nil {
			t.Fatal(err)
		}
		sb.WriteRune(rune(c))
	}
}

func TestReadLines(t *testing.T) {
	d := New(strings.NewReader("take tablet\r\nuse tablet\nlook"), nil)

	have := readAll(t, d)
	want := "take tablet\nuse tablet\nlook"
	if have != want {
		t.Fatalf("input mismatch:\nhave: %q\nwant: %q", have, want)
	}

	if _, err := d.ReadChar(); err != io.EOF {
		t.Fatalf("expected io.EOF after exhaustion; have %v", err)
	}
}

func TestFeedComesFirst(t *testing.T) {
	var out bytes.Buffer
	d := New(strings.NewReader("north\n"), &out)
	d.Feed("south")
	d.SetEcho(true)

	have := readAll(t, d)
	if have != "south\nnorth\n" {
		t.Fatalf("unexpected input order %q", have)
	}

	if out.String() != "south\n" {
		t.Fatalf("expected only fed lines to be echoed; have %q", out.String())
	}

	if d.Output() != "" {
		t.Fatalf("echo must not reach the accumulator; have %q", d.Output())
	}
}

func TestFeedScript(t *testing.T) {
	d := New(nil, nil)
	if err := d.FeedScript(strings.NewReader("a\r\nb")); err != nil {
		t.Fatal(err)
	}

	if have := readAll(t, d); have != "a\nb\n" {
		t.Fatalf("unexpected script input %q", have)
	}
}

func TestNoInput(t *testing.T) {
	d := New(nil, nil)
	if _, err := d.ReadChar(); err != io.EOF {
		t.Fatalf("expected io.EOF; have %v", err)
	}
}

func TestWriteChar(t *testing.T) {
	var out bytes.Buffer
	d := New(nil, &out)

	for _, c := range "hi\n" {
		if err := d.WriteChar(int(c)); err != nil {
			t.Fatal(err)
		}
	}
	d.WriteChar(4)

	if out.String() != "hi\n\x04" {
		t.Fatalf("unexpected stream %q", out.String())
	}

	if d.Output() != "hi\n\x04" {
		t.Fatalf("unexpected accumulated output %q", d.Output())
	}

	d.Startup()
	if d.Output() != "" {
		t.Fatalf("expected startup to clear output")
	}
}

func TestFlushBeforeRead(t *testing.T) {
	var out bytes.Buffer
	bw := bufio.NewWriter(&out)
	d := New(strings.NewReader("x\n"), bw)

	d.WriteChar('>')
	if out.Len() != 0 {
		t.Fatalf("expected output to be buffered")
	}

	if _, err := d.ReadChar(); err != nil {
		t.Fatal(err)
	}

	if out.String() != ">" {
		t.Fatalf("expected prompt to be flushed before reading; have %q", out.String())
	}
}

func TestMultibyteInput(t *testing.T) {
	var out bytes.Buffer
	d := New(strings.NewReader("é€\n"), &out)

	var codes []int
	for {
		c, err := d.ReadChar()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		codes = append(codes, c)
		d.WriteChar(c)
	}

	if len(codes) != 3 || codes[0] != 0xe9 || codes[1] != 0x20ac || codes[2] != '\n' {
		t.Fatalf("expected one code point per character; have %x", codes)
	}

	if out.String() != "é€\n" {
		t.Fatalf("echo mismatch: have %q", out.String())
	}
}

func TestInputOutsideWordRange(t *testing.T) {
	d := New(strings.NewReader("a\U0001F600\n"), nil)

	if c, err := d.ReadChar(); err != nil || c != 'a' {
		t.Fatalf("expected 'a'; have %q, %v", c, err)
	}

	if _, err := d.ReadChar(); err == nil || err == io.EOF {
		t.Fatalf("expected character above the word range to be rejected; have %v", err)
	}

	if c, err := d.ReadChar(); err != nil || c != '\n' {
		t.Fatalf("expected reading to resume after the rejected character; have %q, %v", c, err)
	}
}

func TestSurrogateOutput(t *testing.T) {
	d := New(nil, nil)
	d.WriteChar(0xd800)
	d.WriteChar('x')

	chars := d.Chars()
	if len(chars) != 2 || chars[0] != 0xd800 || chars[1] != 'x' {
		t.Fatalf("expected exact character codes; have %x", chars)
	}

	if d.Output() != "\uFFFDx" {
		t.Fatalf("expected replacement character in text output; have %q", d.Output())
	}
}
