package abcbyte

import (
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// MappedFile is a memory-mapped ABC or SWF file. Callers must Close it
// once decoding is finished.
type MappedFile struct {
	file *os.File
	data mmap.MMap
}

// OpenMappedFile memory-maps path read-only and returns both the mapping
// handle and a Reader over its bytes. Large SWFs can be decoded without
// reading the whole file into the Go heap.
func OpenMappedFile(path string) (*MappedFile, *Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("abcbyte: open %s: %w", path, err)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("abcbyte: mmap %s: %w", path, err)
	}
	mf := &MappedFile{file: f, data: data}
	return mf, NewReader([]byte(data)), nil
}

// Close unmaps the file and releases the file handle.
func (m *MappedFile) Close() error {
	err := m.data.Unmap()
	if cerr := m.file.Close(); err == nil {
		err = cerr
	}
	return err
}
