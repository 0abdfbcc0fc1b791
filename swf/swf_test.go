package swf

import (
	"bytes"
	"compress/zlib"
	"testing"
)

func u16le(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }

func buildUncompressedSWF(tags []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("FWS")
	buf.WriteByte(6)
	buf.Write([]byte{0, 0, 0, 0}) // file length, unchecked by ParseTags
	buf.WriteByte(0x08)           // RECT: nbits=1 (1<<3), 4 fields of 1 bit = 4 bits total + 5 = 9 bits -> 2 bytes
	buf.WriteByte(0x00)
	buf.Write(u16le(12)) // frame rate
	buf.Write(u16le(1))  // frame count
	buf.Write(tags)
	return buf.Bytes()
}

func encodeShortTag(code uint16, body []byte) []byte {
	header := u16le(code<<6 | uint16(len(body)))
	return append(header, body...)
}

func TestParseTagsUncompressedRoundTrip(t *testing.T) {
	doABCBody := append([]byte{1, 0, 0, 0}, append([]byte("main\x00"), []byte{0xAB, 0xCD}...)...)
	tagStream := append(encodeShortTag(TagDoABC, doABCBody), encodeShortTag(TagEnd, nil)...)
	data := buildUncompressedSWF(tagStream)

	tags, err := ParseTags(data)
	if err != nil {
		t.Fatalf("ParseTags: %v", err)
	}
	if len(tags) != 2 || tags[0].Code != TagDoABC || tags[1].Code != TagEnd {
		t.Fatalf("unexpected tags: %+v", tags)
	}

	abcTags, err := ExtractDoABC(tags)
	if err != nil {
		t.Fatalf("ExtractDoABC: %v", err)
	}
	if len(abcTags) != 1 {
		t.Fatalf("expected 1 DoABC tag, got %d", len(abcTags))
	}
	if abcTags[0].Name != "main" {
		t.Fatalf("expected name %q, got %q", "main", abcTags[0].Name)
	}
	if !bytes.Equal(abcTags[0].ABCBytes, []byte{0xAB, 0xCD}) {
		t.Fatalf("unexpected abc bytes: %v", abcTags[0].ABCBytes)
	}
}

func TestParseTagsZlibCompressed(t *testing.T) {
	tagStream := encodeShortTag(TagEnd, nil)

	var rectAndFrame bytes.Buffer
	rectAndFrame.WriteByte(0x08)
	rectAndFrame.WriteByte(0x00)
	rectAndFrame.Write(u16le(12))
	rectAndFrame.Write(u16le(1))
	rectAndFrame.Write(tagStream)

	var compressed bytes.Buffer
	w := zlib.NewWriter(&compressed)
	w.Write(rectAndFrame.Bytes())
	w.Close()

	var data bytes.Buffer
	data.WriteString("CWS")
	data.WriteByte(6)
	data.Write([]byte{0, 0, 0, 0})
	data.Write(compressed.Bytes())

	tags, err := ParseTags(data.Bytes())
	if err != nil {
		t.Fatalf("ParseTags: %v", err)
	}
	if len(tags) != 1 || tags[0].Code != TagEnd {
		t.Fatalf("unexpected tags: %+v", tags)
	}
}

func TestParseTagsLZMAUnsupported(t *testing.T) {
	data := []byte("ZWS")
	data = append(data, 6, 0, 0, 0, 0)
	_, err := ParseTags(data)
	if err == nil {
		t.Fatal("expected an error for LZMA-compressed SWF")
	}
	var unsupported *UnsupportedCompressionError
	if !asUnsupported(err, &unsupported) {
		t.Fatalf("expected UnsupportedCompressionError, got %T: %v", err, err)
	}
}

func asUnsupported(err error, target **UnsupportedCompressionError) bool {
	if e, ok := err.(*UnsupportedCompressionError); ok {
		*target = e
		return true
	}
	return false
}

func TestLongTagHeader(t *testing.T) {
	body := bytes.Repeat([]byte{0x42}, 100)
	header := u16le(TagDoABC<<6 | 0x3F)
	lengthField := []byte{100, 0, 0, 0}
	longTag := append(append(header, lengthField...), body...)
	data := buildUncompressedSWF(append(longTag, encodeShortTag(TagEnd, nil)...))

	tags, err := ParseTags(data)
	if err != nil {
		t.Fatalf("ParseTags: %v", err)
	}
	if len(tags) != 2 || len(tags[0].Body) != 100 {
		t.Fatalf("unexpected long tag decode: %+v", tags[0])
	}
}
