package elevation

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"unsafe"

	"github.com/paulmach/osm"
)

const (
	magicBytes = "OSMELEV1"
	version    = uint32(1)

	kindDense  = uint32(1)
	kindSparse = uint32(2)

	maxDenseID       = 20_000_000_000
	maxSparseEntries = 2_000_000_000
)

// ErrCorrupt is returned when a persisted index fails validation.
var ErrCorrupt = errors.New("corrupt elevation index")

// fileHeader is the binary header.
type fileHeader struct {
	Magic   [8]byte
	Version uint32
	Kind    uint32
	MaxID   int64  // dense: largest addressable id
	Count   uint64 // dense: payload bytes; sparse: entry count
}

// WriteBinary persists a Dense or Sparse index to path.
// The file is written to a temporary path and renamed into place.
func WriteBinary(path string, idx Index) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	crcWriter := crc32Writer{w: f, hash: crc32.NewIEEE()}
	w := &crcWriter

	hdr := fileHeader{Version: version}
	copy(hdr.Magic[:], magicBytes)

	switch v := idx.(type) {
	case *Dense:
		hdr.Kind = kindDense
		hdr.MaxID = int64(v.maxID)
		hdr.Count = uint64(len(v.data))
		if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		if _, err := w.Write(v.data); err != nil {
			return fmt.Errorf("write dense payload: %w", err)
		}
	case *Sparse:
		hdr.Kind = kindSparse
		hdr.Count = uint64(len(v.entries))
		if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		ids := make([]int64, len(v.entries))
		elevs := make([]int16, len(v.entries))
		for i, e := range v.entries {
			ids[i] = int64(e.id)
			elevs[i] = e.elev
		}
		if err := writeInt64Slice(w, ids); err != nil {
			return fmt.Errorf("write ids: %w", err)
		}
		if err := writeInt16Slice(w, elevs); err != nil {
			return fmt.Errorf("write elevations: %w", err)
		}
	default:
		return fmt.Errorf("unsupported index type %T", idx)
	}

	// Write CRC32 trailer.
	checksum := crcWriter.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Atomic rename.
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// ReadBinary loads an index written by WriteBinary.
func ReadBinary(path string) (Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	crcReader := crc32Reader{r: f, hash: crc32.NewIEEE()}
	r := &crcReader

	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("%w: invalid magic bytes %q", ErrCorrupt, hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}

	var idx Index
	switch hdr.Kind {
	case kindDense:
		if hdr.MaxID < 0 || hdr.MaxID > maxDenseID {
			return nil, fmt.Errorf("%w: MaxID %d exceeds limit %d", ErrCorrupt, hdr.MaxID, int64(maxDenseID))
		}
		want := PackedLen(uint64(hdr.MaxID) + 1)
		if hdr.Count != want {
			return nil, fmt.Errorf("%w: dense payload %d bytes, want %d", ErrCorrupt, hdr.Count, want)
		}
		d := &Dense{maxID: osm.NodeID(hdr.MaxID), data: make([]byte, hdr.Count)}
		if _, err := io.ReadFull(r, d.data); err != nil {
			return nil, fmt.Errorf("read dense payload: %w", err)
		}
		for id := osm.NodeID(1); id <= d.maxID; id++ {
			if Decode(d.data, uint64(id)) != Invalid {
				d.valid++
			}
		}
		idx = d
	case kindSparse:
		if hdr.Count > maxSparseEntries {
			return nil, fmt.Errorf("%w: entry count %d exceeds limit %d", ErrCorrupt, hdr.Count, maxSparseEntries)
		}
		n := int(hdr.Count)
		ids, err := readInt64Slice(r, n)
		if err != nil {
			return nil, fmt.Errorf("read ids: %w", err)
		}
		elevs, err := readInt16Slice(r, n)
		if err != nil {
			return nil, fmt.Errorf("read elevations: %w", err)
		}
		if err := validateSorted(ids); err != nil {
			return nil, err
		}
		s := NewSparse(n)
		for i := range ids {
			s.entries = append(s.entries, idElevation{id: osm.NodeID(ids[i]), elev: elevs[i]})
		}
		idx = s
	default:
		return nil, fmt.Errorf("%w: unknown index kind %d", ErrCorrupt, hdr.Kind)
	}

	// Read and validate CRC32.
	expectedCRC := crcReader.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("%w: CRC32 mismatch: stored=%08x computed=%08x", ErrCorrupt, storedCRC, expectedCRC)
	}

	return idx, nil
}

// validateSorted checks that sparse ids are strictly increasing.
func validateSorted(ids []int64) error {
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			return fmt.Errorf("%w: ids not increasing at %d: %d <= %d", ErrCorrupt, i, ids[i], ids[i-1])
		}
	}
	return nil
}

// The file is little-endian throughout. On little-endian hosts the payload
// slices are written and read in place through unsafe.Slice; other hosts
// go through encoding/binary.
var hostLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

func writeInt64Slice(w io.Writer, s []int64) error {
	if len(s) == 0 {
		return nil
	}
	if !hostLittleEndian {
		return binary.Write(w, binary.LittleEndian, s)
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func writeInt16Slice(w io.Writer, s []int16) error {
	if len(s) == 0 {
		return nil
	}
	if !hostLittleEndian {
		return binary.Write(w, binary.LittleEndian, s)
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*2)
	_, err := w.Write(b)
	return err
}

func readInt64Slice(r io.Reader, n int) ([]int64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]int64, n)
	if !hostLittleEndian {
		if err := binary.Read(r, binary.LittleEndian, s); err != nil {
			return nil, err
		}
		return s, nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readInt16Slice(r io.Reader, n int) ([]int16, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]int16, n)
	if !hostLittleEndian {
		if err := binary.Read(r, binary.LittleEndian, s); err != nil {
			return nil, err
		}
		return s, nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*2)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

// CRC32 wrapping writers/readers.

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
