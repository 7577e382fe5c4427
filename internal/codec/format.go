// Package codec implements the segment codec (§4.1, §6.2): the six custom
// per-segment extension files layered on top of an external postings
// delegate, plus the single-pass write pipeline that builds them and the
// random-access reader that serves them back.
package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	"corpussearch/blacklab"
)

// Magic identifies a blacklab segment extension file. Every file begins
// with Magic, CodecName, Version, SegmentID and Suffix, then DelegateName
// (§6.2), and ends with a checksum footer (§9: xxhash64, not CRC32 — the
// spec mandates "a checksum footer," not a specific algorithm).
const Magic uint32 = 0x424c4331 // "BLC1"

const CodecName = "BlackLab40"
const CodecVersion = 1

// Extension enumerates the six per-segment files (§4.1).
type Extension string

const (
	ExtFields      Extension = ".fields"
	ExtTerms       Extension = ".terms"
	ExtTermIndex   Extension = ".termindex"
	ExtTermOrder   Extension = ".termorder"
	ExtTokens      Extension = ".tokens"
	ExtTokensIndex Extension = ".tokensindex"
	ExtTermVecTmp  Extension = ".termvec.tmp"
)

// Header is the fixed preamble written at the start of every extension
// file (§6.2).
type Header struct {
	CodecName     string
	Version       int32
	SegmentID     string
	Suffix        string
	DelegateName  string
}

// WriteHeader writes h to w, preceded by Magic (§6.2).
func WriteHeader(w io.Writer, h Header) error {
	if err := binary.Write(w, binary.BigEndian, Magic); err != nil {
		return err
	}
	if err := writeString(w, h.CodecName); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, h.Version); err != nil {
		return err
	}
	if err := writeString(w, h.SegmentID); err != nil {
		return err
	}
	if err := writeString(w, h.Suffix); err != nil {
		return err
	}
	if err := writeString(w, h.DelegateName); err != nil {
		return err
	}
	return nil
}

// ReadHeader reads and validates a Header, returning a *blacklab.FormatError
// on any structural mismatch: bad magic, unknown codec name, unsupported
// version, or (when the caller knows what to expect) a segment id or
// delegate-name mismatch (§7 "refuse to open the segment"). expectedSegmentID
// and expectedDelegate are skipped when passed as "", since a caller
// scanning an unfamiliar directory may not know either one in advance.
func ReadHeader(r io.Reader, expectedSegmentID, expectedDelegate string) (Header, error) {
	var h Header
	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return h, err
	}
	if magic != Magic {
		return h, blacklab.NewFormatError("header", fmt.Sprintf("bad magic %#08x, want %#08x", magic, Magic), nil)
	}

	var err error
	if h.CodecName, err = readString(r); err != nil {
		return h, err
	}
	if h.CodecName != CodecName {
		return h, blacklab.NewFormatError("header", fmt.Sprintf("unknown codec %q, want %q", h.CodecName, CodecName), nil)
	}
	if err := binary.Read(r, binary.BigEndian, &h.Version); err != nil {
		return h, err
	}
	if h.Version != CodecVersion {
		return h, blacklab.NewFormatError("header", fmt.Sprintf("unsupported codec version %d, want %d", h.Version, CodecVersion), nil)
	}
	if h.SegmentID, err = readString(r); err != nil {
		return h, err
	}
	if expectedSegmentID != "" && h.SegmentID != expectedSegmentID {
		return h, blacklab.NewFormatError(h.SegmentID, fmt.Sprintf("segment id mismatch: file has %q, expected %q", h.SegmentID, expectedSegmentID), nil)
	}
	if h.Suffix, err = readString(r); err != nil {
		return h, err
	}
	if h.DelegateName, err = readString(r); err != nil {
		return h, err
	}
	if expectedDelegate != "" && h.DelegateName != expectedDelegate {
		return h, blacklab.NewFormatError(h.SegmentID, fmt.Sprintf("delegate mismatch: file has %q, expected %q", h.DelegateName, expectedDelegate), nil)
	}
	return h, nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readString(r io.Reader) (string, error) {
	var n int32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("negative string length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// ChecksumWriter wraps a writer, accumulating an xxhash64 digest of every
// byte passed through Write, so the footer can be appended with
// WriteFooter once the body is complete.
type ChecksumWriter struct {
	w      io.Writer
	digest *xxhash.Digest
}

func NewChecksumWriter(w io.Writer) *ChecksumWriter {
	return &ChecksumWriter{w: w, digest: xxhash.New()}
}

func (c *ChecksumWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if n > 0 {
		c.digest.Write(p[:n])
	}
	return n, err
}

// WriteFooter appends the accumulated checksum. No more bytes may be
// written through c afterwards.
func (c *ChecksumWriter) WriteFooter() error {
	return binary.Write(c.w, binary.BigEndian, c.digest.Sum64())
}

// ChecksumReader wraps a reader and accumulates an xxhash64 digest of
// every byte read through it; CheckFooter compares that digest against the
// trailing 8-byte footer.
type ChecksumReader struct {
	r      io.Reader
	digest *xxhash.Digest
}

func NewChecksumReader(r io.Reader) *ChecksumReader {
	return &ChecksumReader{r: r, digest: xxhash.New()}
}

func (c *ChecksumReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.digest.Write(p[:n])
	}
	return n, err
}

// CheckFooter reads the 8-byte trailing checksum from r and compares it to
// the digest accumulated so far. It returns an error (wrapping
// io.ErrUnexpectedEOF or a mismatch) if the checksum is missing or wrong.
func (c *ChecksumReader) CheckFooter(r io.Reader) error {
	var want uint64
	if err := binary.Read(r, binary.BigEndian, &want); err != nil {
		return err
	}
	got := c.digest.Sum64()
	if got != want {
		return fmt.Errorf("checksum mismatch: computed %x, footer says %x", got, want)
	}
	return nil
}
