package codec

import (
	"bytes"
	"testing"

	"corpussearch/blacklab"
	"corpussearch/blacklab/internal/postings"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{CodecName: CodecName, Version: CodecVersion, SegmentID: "seg-01", Suffix: "x", DelegateName: "lucene95"}
	var buf bytes.Buffer
	if err := WriteHeader(&buf, h); err != nil {
		t.Fatal(err)
	}
	got, err := ReadHeader(&buf, "seg-01", "lucene95")
	if err != nil {
		t.Fatal(err)
	}
	if got != h {
		t.Fatalf("got %+v, want %+v", got, h)
	}
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0})
	if _, err := ReadHeader(&buf, "", ""); err == nil {
		t.Fatal("expected an error for bad magic")
	} else if _, ok := err.(*blacklab.FormatError); !ok {
		t.Fatalf("expected *blacklab.FormatError, got %T: %v", err, err)
	}
}

func TestReadHeaderRejectsSegmentIDMismatch(t *testing.T) {
	h := Header{CodecName: CodecName, Version: CodecVersion, SegmentID: "seg-01", DelegateName: "lucene95"}
	var buf bytes.Buffer
	if err := WriteHeader(&buf, h); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadHeader(&buf, "seg-02", ""); err == nil {
		t.Fatal("expected an error for a segment id mismatch")
	} else if _, ok := err.(*blacklab.FormatError); !ok {
		t.Fatalf("expected *blacklab.FormatError, got %T: %v", err, err)
	}
}

func TestReadHeaderRejectsDelegateMismatch(t *testing.T) {
	h := Header{CodecName: CodecName, Version: CodecVersion, SegmentID: "seg-01", DelegateName: "lucene95"}
	var buf bytes.Buffer
	if err := WriteHeader(&buf, h); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadHeader(&buf, "", "lucene99"); err == nil {
		t.Fatal("expected an error for a delegate name mismatch")
	} else if _, ok := err.(*blacklab.FormatError); !ok {
		t.Fatalf("expected *blacklab.FormatError, got %T: %v", err, err)
	}
}

// TestChecksumFooterDetectsCorruption is the Q2-flavored check: bit flips
// in the body must be caught by the footer.
func TestChecksumFooterDetectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChecksumWriter(&buf)
	cw.Write([]byte("hello segment body"))
	if err := cw.WriteFooter(); err != nil {
		t.Fatal(err)
	}

	body := buf.Bytes()[:len("hello segment body")]
	footer := buf.Bytes()[len("hello segment body"):]

	cr := NewChecksumReader(bytes.NewReader(body))
	readBuf := make([]byte, len(body))
	if _, err := cr.Read(readBuf); err != nil {
		t.Fatal(err)
	}
	if err := cr.CheckFooter(bytes.NewReader(footer)); err != nil {
		t.Fatalf("expected valid checksum, got error: %v", err)
	}

	corrupted := append([]byte(nil), body...)
	corrupted[0] ^= 0xFF
	cr2 := NewChecksumReader(bytes.NewReader(corrupted))
	readBuf2 := make([]byte, len(corrupted))
	cr2.Read(readBuf2)
	if err := cr2.CheckFooter(bytes.NewReader(footer)); err == nil {
		t.Fatalf("expected checksum mismatch on corrupted body")
	}
}

// TestEncodeDocGapSentinelRoundTrips verifies that NO_TERM survives a
// round trip at every width, including when it collides with what would
// otherwise be the maximum representable value at that width.
func TestEncodeDocGapSentinelRoundTrips(t *testing.T) {
	cases := []struct {
		name   string
		tokens []postings.TermID
	}{
		{"byte width with gap", []postings.TermID{0, postings.NoTerm, 254}},
		{"short width with gap", []postings.TermID{postings.NoTerm, 300, 65000}},
		{"int width with gap", []postings.TermID{postings.NoTerm, 1 << 30}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tag, width := ChooseCodec(c.tokens)
			if tag != TagValuePerToken {
				t.Fatalf("expected VALUE_PER_TOKEN for a doc with a gap, got %v", tag)
			}
			payload, err := EncodeDoc(c.tokens, tag, width)
			if err != nil {
				t.Fatal(err)
			}
			entry := TokensIndexEntry{Length: int32(len(c.tokens)), Tag: tag, Param: int8(width)}
			got, err := DecodeDoc(payload, entry, 0, len(c.tokens))
			if err != nil {
				t.Fatal(err)
			}
			for i := range c.tokens {
				if got[i] != c.tokens[i] {
					t.Fatalf("position %d: got %d, want %d", i, got[i], c.tokens[i])
				}
			}
		})
	}
}
