// Package swf extracts ABC programs from the DoABC tags of an SWF
// container: the uncompressed/zlib-compressed header framing, the tag
// stream, and the DoABC tag payload layout.
package swf

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// Signature identifies an SWF file's compression scheme from its first
// three magic bytes.
type Signature byte

const (
	SignatureUncompressed Signature = 'F' // "FWS"
	SignatureZlib         Signature = 'C' // "CWS"
	SignatureLZMA         Signature = 'Z' // "ZWS"
)

// UnsupportedCompressionError reports an SWF compression scheme this
// package does not implement.
type UnsupportedCompressionError struct {
	Signature Signature
}

func (e *UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("unsupported SWF compression signature %q (LZMA-compressed SWFs are not decoded by this package)", byte(e.Signature))
}

// File is a memory-mapped SWF file opened from disk. Close unmaps it.
type File struct {
	data mmap.MMap
	f    *os.File
}

// Open memory-maps path for read-only access, mirroring how large
// binary container formats are commonly opened without copying the
// whole file into the heap up front.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &File{data: data, f: f}, nil
}

// Close unmaps the file and closes its descriptor.
func (sf *File) Close() error {
	if sf.data != nil {
		_ = sf.data.Unmap()
	}
	if sf.f != nil {
		return sf.f.Close()
	}
	return nil
}

// Bytes returns the raw mapped file content.
func (sf *File) Bytes() []byte { return sf.data }

// Header is the fixed 8-byte SWF file header.
type Header struct {
	Signature  Signature
	Version    uint8
	FileLength uint32
}

// Tag is one record of the SWF tag stream: a type code and its raw
// payload, with the short/long length-header distinction already
// resolved.
type Tag struct {
	Code uint16
	Body []byte
}

const (
	TagEnd   uint16 = 0
	TagDoABC uint16 = 82
)

// ParseTags reads an SWF file's header, decompresses the body per its
// signature, skips the stage-size RECT and the frame-rate/frame-count
// fields, and returns the tag stream that follows.
func ParseTags(data []byte) ([]Tag, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("truncated SWF header: %d bytes", len(data))
	}
	if data[1] != 'W' || data[2] != 'S' {
		return nil, fmt.Errorf("not an SWF file (bad magic %q)", data[:3])
	}
	sig := Signature(data[0])
	body, err := decompress(sig, data[8:])
	if err != nil {
		return nil, err
	}

	body, err = skipRect(body)
	if err != nil {
		return nil, err
	}
	if len(body) < 4 {
		return nil, fmt.Errorf("truncated SWF body: missing frame rate/count")
	}
	body = body[4:] // frame rate (u16) + frame count (u16)

	return readTags(body)
}

func decompress(sig Signature, body []byte) ([]byte, error) {
	switch sig {
	case SignatureUncompressed:
		return body, nil
	case SignatureZlib:
		r, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("zlib decompress SWF body: %w", err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("zlib decompress SWF body: %w", err)
		}
		return out, nil
	default:
		return nil, &UnsupportedCompressionError{Signature: sig}
	}
}

// skipRect skips the stage-size RECT record: a 5-bit field count
// followed by four signed fields of that many bits each, rounded up to
// a byte boundary.
func skipRect(body []byte) ([]byte, error) {
	if len(body) < 1 {
		return nil, fmt.Errorf("truncated RECT record")
	}
	nbits := int(body[0] >> 3)
	totalBits := 5 + nbits*4
	totalBytes := (totalBits + 7) / 8
	if len(body) < totalBytes {
		return nil, fmt.Errorf("truncated RECT record: need %d bytes, have %d", totalBytes, len(body))
	}
	return body[totalBytes:], nil
}

// readTags scans the tag stream, resolving the short/long tag-header
// encoding (a length of 0x3F in the short header means the real length
// follows as a u32), until and including the End tag.
func readTags(body []byte) ([]Tag, error) {
	var tags []Tag
	pos := 0
	for {
		if pos+2 > len(body) {
			return nil, fmt.Errorf("truncated tag header at offset %d", pos)
		}
		codeAndLength := uint16(body[pos]) | uint16(body[pos+1])<<8
		pos += 2
		code := codeAndLength >> 6
		length := int(codeAndLength & 0x3F)
		if length == 0x3F {
			if pos+4 > len(body) {
				return nil, fmt.Errorf("truncated long tag length at offset %d", pos)
			}
			length = int(uint32(body[pos]) | uint32(body[pos+1])<<8 | uint32(body[pos+2])<<16 | uint32(body[pos+3])<<24)
			pos += 4
		}
		if pos+length > len(body) {
			return nil, fmt.Errorf("tag body overruns buffer at offset %d (code %d, length %d)", pos, code, length)
		}
		tags = append(tags, Tag{Code: code, Body: body[pos : pos+length]})
		pos += length
		if code == TagEnd {
			break
		}
	}
	return tags, nil
}

// DoABCTag is a decoded DoABC tag: its lazy-instantiation flag, a
// human-readable name used for frame-script binding, and the embedded
// ABC program bytes.
type DoABCTag struct {
	Flags    uint32
	Name     string
	ABCBytes []byte
}

// ExtractDoABC decodes every DoABC tag in tags, in file order, which is
// also AVM2's required execution order for multiple embedded ABC
// programs within one SWF.
func ExtractDoABC(tags []Tag) ([]DoABCTag, error) {
	var out []DoABCTag
	for _, tag := range tags {
		if tag.Code != TagDoABC {
			continue
		}
		abc, err := parseDoABCTag(tag.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, abc)
	}
	return out, nil
}

func parseDoABCTag(body []byte) (DoABCTag, error) {
	if len(body) < 4 {
		return DoABCTag{}, fmt.Errorf("truncated DoABC tag: %d bytes", len(body))
	}
	flags := uint32(body[0]) | uint32(body[1])<<8 | uint32(body[2])<<16 | uint32(body[3])<<24
	rest := body[4:]
	nul := bytes.IndexByte(rest, 0)
	if nul < 0 {
		return DoABCTag{}, fmt.Errorf("DoABC tag name is not NUL-terminated")
	}
	name := string(rest[:nul])
	return DoABCTag{Flags: flags, Name: name, ABCBytes: rest[nul+1:]}, nil
}
