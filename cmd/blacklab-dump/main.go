// Command blacklab-dump opens one segment directory and pretty-prints
// its decoded .fields/.termorder/.tokensindex structures, in the manner
// of the teacher's own main.go development playground — except this one
// is a committed entry point rather than throwaway experimentation.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/k0kubun/pp"

	"corpussearch/blacklab/internal/codec"
)

func main() {
	dir := flag.String("dir", "", "segment directory to dump")
	segmentID := flag.String("segment", "", "expected segment id (for header validation)")
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "usage: blacklab-dump -dir <segment-dir> [-segment <id>]")
		os.Exit(2)
	}

	if err := dump(*dir, *segmentID); err != nil {
		fmt.Fprintln(os.Stderr, "blacklab-dump:", err)
		os.Exit(1)
	}
}

type fieldDump struct {
	Field       codec.Field
	NumSegments int
	TokensIndex []codec.TokensIndexEntry
	TermOrder   codec.TermOrder
}

func dump(dir, segmentID string) error {
	fieldsData, err := os.ReadFile(filepath.Join(dir, string(codec.ExtFields)))
	if err != nil {
		return err
	}
	r := bytes.NewReader(fieldsData)

	header, err := codec.ReadHeader(r, segmentID, "")
	if err != nil {
		return err
	}
	pp.Println("header", header)

	fields, err := codec.ReadFields(r)
	if err != nil {
		return err
	}

	tokensIndexData, err := os.ReadFile(filepath.Join(dir, string(codec.ExtTokensIndex)))
	if err != nil {
		return err
	}
	termOrderData, err := os.ReadFile(filepath.Join(dir, string(codec.ExtTermOrder)))
	if err != nil {
		return err
	}

	for i, field := range fields {
		end := int64(len(tokensIndexData))
		if i+1 < len(fields) {
			end = fields[i+1].TokensIndexOff
		}
		entries, err := readTokensIndexEntries(tokensIndexData[field.TokensIndexOff:end])
		if err != nil {
			return err
		}
		termOrder, err := codec.ReadTermOrder(bytes.NewReader(termOrderData[field.TermOrderOff:]), int(field.NumTerms))
		if err != nil {
			return err
		}
		pp.Println(fieldDump{Field: field, NumSegments: len(entries), TokensIndex: entries, TermOrder: termOrder})
	}
	return nil
}

// readTokensIndexEntries decodes every fixed-stride entry in a field's
// slice of the shared .tokensindex byte range. Fields are assumed to
// have been written in increasing TokensIndexOff order (§4.1 step 6,
// "the same order fields are enumerated everywhere"), so one field's
// entries run up to the next field's offset.
func readTokensIndexEntries(data []byte) ([]codec.TokensIndexEntry, error) {
	r := bytes.NewReader(data)
	var entries []codec.TokensIndexEntry
	for r.Len() >= codec.TokensIndexEntrySize {
		e, err := codec.ReadTokensIndexEntry(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
