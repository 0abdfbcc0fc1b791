package abcbyte_test

import (
	"math"
	"testing"

	"github.com/avm2run/avm2/abcbyte"
)

func TestReadU8U16U32(t *testing.T) {
	r := abcbyte.NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})
	u8, err := r.ReadU8()
	if err != nil || u8 != 0x01 {
		t.Fatalf("ReadU8 = %v, %v", u8, err)
	}
	u16, err := r.ReadU16()
	if err != nil || u16 != 0x0302 {
		t.Fatalf("ReadU16 = %#x, %v", u16, err)
	}
	u32, err := r.ReadU32()
	if err != nil || u32 != 0x07060504 {
		t.Fatalf("ReadU32 = %#x, %v", u32, err)
	}
}

func TestReadVarUint32(t *testing.T) {
	cases := []struct {
		in   []byte
		want uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7F}, 0x7F},
		{[]byte{0x80, 0x01}, 0x80},
		{[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}, 0xFFFFFFFF},
	}
	for _, c := range cases {
		r := abcbyte.NewReader(c.in)
		got, err := r.ReadVarUint32()
		if err != nil {
			t.Fatalf("ReadVarUint32(%v): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ReadVarUint32(%v) = %#x, want %#x", c.in, got, c.want)
		}
	}
}

func TestReadVarInt32SignExtends(t *testing.T) {
	// Single byte 0x7F: bit6 set within a 7-bit group -> sign bit of group 0 is 0x40.
	r := abcbyte.NewReader([]byte{0x7F})
	got, err := r.ReadVarInt32()
	if err != nil {
		t.Fatal(err)
	}
	if got != -1 {
		t.Errorf("ReadVarInt32(0x7F) = %d, want -1", got)
	}
}

func TestReadVarUint32MalformedVarInt(t *testing.T) {
	r := abcbyte.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80})
	if _, err := r.ReadVarUint32(); err == nil {
		t.Fatal("expected malformed varint error")
	} else if aerr, ok := err.(*abcbyte.Error); !ok || aerr.Kind != abcbyte.ErrMalformedVarInt {
		t.Errorf("got %v, want ErrMalformedVarInt", err)
	}
}

func TestReadDouble(t *testing.T) {
	buf := make([]byte, 8)
	bits := math.Float64bits(3.14159)
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits >> (8 * i))
	}
	r := abcbyte.NewReader(buf)
	got, err := r.ReadDouble()
	if err != nil || got != 3.14159 {
		t.Fatalf("ReadDouble = %v, %v", got, err)
	}
}

func TestReadS24SignExtension(t *testing.T) {
	// 0xFFFFFF little-endian -> -1
	r := abcbyte.NewReader([]byte{0xFF, 0xFF, 0xFF})
	got, err := r.ReadS24()
	if err != nil || got != -1 {
		t.Fatalf("ReadS24 = %d, %v", got, err)
	}

	// 0x000003 -> +3
	r2 := abcbyte.NewReader([]byte{0x03, 0x00, 0x00})
	got2, err := r2.ReadS24()
	if err != nil || got2 != 3 {
		t.Fatalf("ReadS24 = %d, %v", got2, err)
	}
}

func TestReadString(t *testing.T) {
	r := abcbyte.NewReader([]byte("hello\x00world"))
	s, err := r.ReadString()
	if err != nil || s != "hello" {
		t.Fatalf("ReadString = %q, %v", s, err)
	}
	if r.Position() != 6 {
		t.Errorf("position after ReadString = %d, want 6", r.Position())
	}
}

func TestReadStringUnterminated(t *testing.T) {
	r := abcbyte.NewReader([]byte("nope"))
	if _, err := r.ReadString(); err == nil {
		t.Fatal("expected truncated error for unterminated string")
	}
}

func TestReadBytesTruncated(t *testing.T) {
	r := abcbyte.NewReader([]byte{1, 2})
	if _, err := r.ReadBytes(5); err == nil {
		t.Fatal("expected truncated error")
	}
}

func TestAtEnd(t *testing.T) {
	r := abcbyte.NewReader([]byte{1})
	if r.AtEnd() {
		t.Fatal("should not be at end yet")
	}
	if _, err := r.ReadU8(); err != nil {
		t.Fatal(err)
	}
	if !r.AtEnd() {
		t.Fatal("should be at end")
	}
}
