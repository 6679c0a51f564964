package ilst

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeData_UTF8RoundTrip(t *testing.T) {
	d := NewUTF8String("Voyager")
	payload := EncodeData(d)

	got, err := DecodeData(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KindString || got.Str != "Voyager" {
		t.Errorf("got %+v, want string Voyager", got)
	}
}

func TestEncodeDecodeData_UTF16BERoundTrip(t *testing.T) {
	d := &Data{Code: TypeUTF16BE, Kind: KindString, Str: "日本語"}
	payload := EncodeData(d)

	got, err := DecodeData(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Str != "日本語" {
		t.Errorf("got %q, want 日本語", got.Str)
	}
}

func TestDecodeData_OddUTF16Length(t *testing.T) {
	payload := make([]byte, 8+3)
	payload[3] = byte(TypeUTF16BE)
	_, err := DecodeData(payload)
	if err == nil {
		t.Fatal("expected error for odd-length utf-16 payload")
	}
}

func TestEncodeDecodeData_SignedIntWidths(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 127, -128, 32767, -32768, 1 << 30, -(1 << 30)} {
		d := NewSignedInt(v)
		payload := EncodeData(d)
		got, err := DecodeData(payload)
		if err != nil {
			t.Fatalf("unexpected error for %d: %v", v, err)
		}
		if got.Int != v {
			t.Errorf("int round trip: got %d, want %d", got.Int, v)
		}
	}
}

func TestEncodeData_WidensWhenValueDoesNotFit(t *testing.T) {
	d := &Data{Code: TypeBESignedInt, Kind: KindInt, Int: 100000, Width: 1}
	payload := EncodeData(d)

	got, err := DecodeData(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Int != 100000 {
		t.Errorf("got %d, want 100000", got.Int)
	}
	if got.Width != 3 {
		t.Errorf("expected widened width 3, got %d", got.Width)
	}
}

func TestDecodeData_UnsignedInt(t *testing.T) {
	d := &Data{Code: TypeBEUnsignedInt, Kind: KindInt, Int: 255, Width: 1}
	payload := EncodeData(d)

	got, err := DecodeData(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Int != 255 {
		t.Errorf("got %d, want 255", got.Int)
	}
}

func TestDecodeData_ImagePreservesBytes(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01, 0x02}
	d := NewImage(TypeJPEG, raw)
	payload := EncodeData(d)

	got, err := DecodeData(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KindImage || !bytes.Equal(got.Bytes, raw) {
		t.Errorf("image round trip mismatch: got %+v", got)
	}
}

func TestDecodeData_UnknownTypeCodePreservedVerbatim(t *testing.T) {
	payload := []byte{0, 0, 0, 99, 0, 0, 0, 0, 0xde, 0xad, 0xbe, 0xef}
	got, err := DecodeData(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Code != 99 || got.Kind != KindBytes {
		t.Fatalf("expected unknown code preserved as bytes, got %+v", got)
	}
	reEncoded := EncodeData(got)
	if !bytes.Equal(reEncoded, payload) {
		t.Errorf("unknown type code did not round trip byte-for-byte:\ngot  %x\nwant %x", reEncoded, payload)
	}
}

func TestDecodeData_TooShort(t *testing.T) {
	_, err := DecodeData([]byte{0, 0, 0})
	if err == nil {
		t.Fatal("expected error for too-short data payload")
	}
}
