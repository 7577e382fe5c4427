package codec

import (
	"encoding/binary"
	"io"
)

// Field is one entry of the .fields file (§6.2): the name of an annotated
// field plus the byte offsets of its data in the other four extension
// files. Offsets are recorded last, once everything else has been written
// (§4.1 step 6).
type Field struct {
	Name          string
	NumTerms      int32
	TermOrderOff  int64
	TermIndexOff  int64
	TokensIndexOff int64
}

// WriteFields writes the .fields body (header/footer are the caller's
// responsibility, via WriteHeader/ChecksumWriter, so this function can be
// unit-tested against a plain buffer).
func WriteFields(w io.Writer, fields []Field) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(fields))); err != nil {
		return err
	}
	for _, f := range fields {
		if err := writeString(w, f.Name); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, f.NumTerms); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, f.TermOrderOff); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, f.TermIndexOff); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, f.TokensIndexOff); err != nil {
			return err
		}
	}
	return nil
}

// ReadFields reads back what WriteFields wrote.
func ReadFields(r io.Reader) ([]Field, error) {
	var n int32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	fields := make([]Field, n)
	for i := range fields {
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		fields[i].Name = name
		if err := binary.Read(r, binary.BigEndian, &fields[i].NumTerms); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.BigEndian, &fields[i].TermOrderOff); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.BigEndian, &fields[i].TermIndexOff); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.BigEndian, &fields[i].TokensIndexOff); err != nil {
			return nil, err
		}
	}
	return fields, nil
}
