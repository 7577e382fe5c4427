package codec

import (
	"io"

	"corpussearch/blacklab/internal/postings"
)

// Collators supplies the two comparators §4.1 step 5 needs: one for each
// sensitivity. The global terms service (internal/globalterms) and the
// codec share the same collator abstraction (internal/collate).
type Collators struct {
	Sensitive   Comparator
	Insensitive Comparator
}

// SegmentFiles is the set of output streams a SegmentWriter appends to.
// Each extension's body is written starting wherever the stream's current
// position is; callers are responsible for having already written that
// stream's Header (§6.2) before the first WriteField call, and for writing
// the checksum footer after the last one. In-process callers typically
// wrap each of these in a ChecksumWriter.
type SegmentFiles struct {
	Terms       io.Writer
	TermIndex   io.Writer
	TermOrder   io.Writer
	Tokens      io.Writer
	TokensIndex io.Writer
}

// SegmentWriter runs the single-pass write pipeline of §4.1 steps 1-6 for
// one segment, one field at a time, tracking the running byte offset of
// each shared stream so it can hand back the Field record §6.2 needs.
// One SegmentWriter is used by exactly one goroutine for exactly one
// segment flush (§5 "Writers are single-threaded by design").
type SegmentWriter struct {
	files SegmentFiles
	coll  Collators

	termsOff       int64
	termIndexOff   int64
	termOrderOff   int64
	tokensOff      int64
	tokensIndexOff int64
}

func NewSegmentWriter(files SegmentFiles, coll Collators) *SegmentWriter {
	return &SegmentWriter{files: files, coll: coll}
}

// docPositions is the §4.1 step-2 staging structure ".termvec.tmp": per
// document, which term ids occur at which primary-value positions. It is
// kept in memory for the duration of WriteField rather than spilled to an
// actual temp file — "transient scratch used only during writing" (§4.1)
// that never needs to outlive one field's write and is cheaper to keep
// resident than to round-trip through disk.
type docPositions map[postings.DocID]map[postings.TermID][]int

// WriteField runs steps 1-6 for a single field: it drains terms (already
// in term-id assignment order — term id == Nth call to terms.Next()),
// stages primary-value positions per document, reconstructs each
// document's token array, picks the cheapest per-doc codec, and finally
// computes both sort orders. numDocs is the segment's document count
// (§6.3 MaxDocInSegment), since some documents may have no postings for
// this field at all and still need an empty tokens-index entry.
func (sw *SegmentWriter) WriteField(name string, terms postings.TermsEnum, numDocs int) (Field, error) {
	var termStrings [][]byte
	staging := docPositions{}
	maxPos := map[postings.DocID]int{}

	var termID postings.TermID
	for terms.Next() {
		term := append([]byte(nil), terms.Term()...)
		termStrings = append(termStrings, term)

		pe, err := terms.Postings()
		if err != nil {
			return Field{}, err
		}
		for {
			doc, err := pe.NextDoc()
			if err != nil {
				return Field{}, err
			}
			if doc == postings.NoMoreDocs {
				break
			}
			freq, err := pe.Freq()
			if err != nil {
				return Field{}, err
			}
			for i := 0; i < freq; i++ {
				pos, err := pe.NextPosition()
				if err != nil {
					return Field{}, err
				}
				payloadBytes, err := pe.Payload()
				if err != nil {
					return Field{}, err
				}
				payload, err := postings.DecodePayload(payloadBytes)
				if err != nil {
					return Field{}, err
				}
				if !payload.Primary {
					continue
				}
				if staging[doc] == nil {
					staging[doc] = map[postings.TermID][]int{}
				}
				staging[doc][termID] = append(staging[doc][termID], pos)
				if pos+1 > maxPos[doc] {
					maxPos[doc] = pos + 1
				}
			}
		}
		termID++
	}

	// Step 3-4: reconstruct each doc's token array, choose its codec, and
	// append to .tokens / .tokensindex.
	fieldTokensIndexOff := sw.tokensIndexOff
	for doc := postings.DocID(0); doc < postings.DocID(numDocs); doc++ {
		docLen := maxPos[doc]
		tokens := make([]postings.TermID, docLen)
		for i := range tokens {
			tokens[i] = postings.NoTerm
		}
		for tid, positions := range staging[doc] {
			for _, p := range positions {
				tokens[p] = tid
			}
		}
		tag, width := ChooseCodec(tokens)
		payload, err := EncodeDoc(tokens, tag, width)
		if err != nil {
			return Field{}, err
		}
		entry := TokensIndexEntry{
			Offset: sw.tokensOff,
			Length: int32(docLen),
			Tag:    tag,
			Param:  int8(width),
		}
		if docLen == 0 {
			payload = nil
		}
		if len(payload) > 0 {
			if _, err := sw.files.Tokens.Write(payload); err != nil {
				return Field{}, err
			}
		}
		sw.tokensOff += int64(len(payload))
		if err := WriteTokensIndexEntry(sw.files.TokensIndex, entry); err != nil {
			return Field{}, err
		}
		sw.tokensIndexOff += int64(TokensIndexEntrySize)
	}

	// Step 5: both sort orders.
	termOrder := BuildTermOrder(termStrings, sw.coll.Sensitive, sw.coll.Insensitive)
	fieldTermOrderOff := sw.termOrderOff
	if err := WriteTermOrder(sw.files.TermOrder, termOrder); err != nil {
		return Field{}, err
	}
	sw.termOrderOff += int64(4*len(termStrings)) * 4 // 4 arrays * n * int32

	// .terms / .termindex for this field.
	fieldTermIndexOff := sw.termIndexOff
	localOffsets, err := WriteTerms(sw.files.Terms, termStrings)
	if err != nil {
		return Field{}, err
	}
	globalOffsets := make([]int64, len(localOffsets))
	for i, o := range localOffsets {
		globalOffsets[i] = o + sw.termsOff
	}
	if err := WriteTermIndex(sw.files.TermIndex, globalOffsets); err != nil {
		return Field{}, err
	}
	sw.termIndexOff += int64(len(globalOffsets)) * 8
	for _, t := range termStrings {
		sw.termsOff += 4 + int64(len(t))
	}

	return Field{
		Name:           name,
		NumTerms:       int32(len(termStrings)),
		TermOrderOff:   fieldTermOrderOff,
		TermIndexOff:   fieldTermIndexOff,
		TokensIndexOff: fieldTokensIndexOff,
	}, nil
}
