package postings

import "testing"

func TestPayloadRoundTrip(t *testing.T) {
	cases := []Payload{
		{},
		{Primary: true},
		{Primary: true, HasEnd: true, End: 0},
		{Primary: true, HasEnd: true, End: 127},
		{Primary: true, HasEnd: true, End: 128},
		{Primary: false, HasEnd: true, End: 1 << 20},
	}
	for _, p := range cases {
		encoded := EncodePayload(p)
		got, err := DecodePayload(encoded)
		if err != nil {
			t.Fatalf("DecodePayload(%v) error: %v", p, err)
		}
		if got != p {
			t.Errorf("round trip %+v -> %+v", p, got)
		}
	}
}

func TestDecodeEmptyPayload(t *testing.T) {
	got, err := DecodePayload(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != (Payload{}) {
		t.Errorf("expected zero payload, got %+v", got)
	}
}
