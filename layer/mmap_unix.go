//go:build unix

package layer

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/yatzygo/yatzygo/yatzy"
)

// MappedScores is a read-only view of a score file, backed by a shared
// memory mapping rather than a heap-resident copy. Predecessor layers
// stay mapped for as long as a later layer's solve needs to read them,
// and the kernel evicts pages under memory pressure instead of the
// process paying for a full resident copy.
type MappedScores struct {
	data []byte
	f    *os.File
}

// MapScores memory-maps k's score file for reading. The returned slice
// aliases the kernel page cache; callers must call Close when done.
func (s *Store) MapScores(k Key, cells int) (*MappedScores, error) {
	return mapFile(s.scoresPath(k), cells*4)
}

// MapStrats memory-maps k's strategy file for reading.
func (s *Store) MapStrats(k Key, cells int) (*MappedScores, error) {
	return mapFile(s.strategyPath(k), cells)
}

func mapFile(path string, want int) (*MappedScores, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, yatzy.ErrMissingLayerFile)
		}
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if int(fi.Size()) != want {
		f.Close()
		return nil, fmt.Errorf("%s: have %d bytes, want %d: %w", path, fi.Size(), want, yatzy.ErrShortLayerFile)
	}
	if want == 0 {
		f.Close()
		return &MappedScores{}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, want, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &MappedScores{data: data, f: f}, nil
}

// Float32 returns the score at cell index i, reading directly out of the
// mapped page cache.
func (m *MappedScores) Float32(i int) float32 {
	return *(*float32)(unsafe.Pointer(&m.data[i*4]))
}

// Float32Slice reinterprets the mapped region as a []float32 without
// copying, assuming a little-endian host (the only platform this build
// tag targets in practice). The returned slice is only valid until Close.
func (m *MappedScores) Float32Slice() []float32 {
	if len(m.data) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&m.data[0])), len(m.data)/4)
}

// Byte returns the strategy byte at cell index i.
func (m *MappedScores) Byte(i int) byte {
	return m.data[i]
}

// Bytes exposes the mapped region directly, for callers that want to
// process it in bulk (e.g. handing rows to gonum/mat).
func (m *MappedScores) Bytes() []byte { return m.data }

// Close unmaps the region and closes the backing file.
func (m *MappedScores) Close() error {
	if m.data == nil {
		if m.f != nil {
			return m.f.Close()
		}
		return nil
	}
	if err := unix.Munmap(m.data); err != nil {
		m.f.Close()
		return err
	}
	return m.f.Close()
}
