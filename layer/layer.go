// Package layer manages the on-disk representation of one (na, nb, nt)
// slab of the solve: a dense float32 score tensor and a parallel byte
// tensor of recommended actions. Completed layers are read back
// memory-mapped so that later stages of the solve can address them
// without paying to load gigabytes of historical layers into the heap.
package layer

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/yatzygo/yatzygo/yatzy"
)

// Key identifies one layer: the number of filled upper categories, the
// number of filled lower categories, and the rolls-left value it was
// solved for.
type Key struct {
	Na, Nb, Nt int
}

// String renders k as the file stem "<na>_<nb>_<nt>".
func (k Key) String() string {
	return fmt.Sprintf("%d_%d_%d", k.Na, k.Nb, k.Nt)
}

// Store locates and persists the score and strategy files for one
// variant's cache directory.
type Store struct {
	Dir string
}

// NewStore returns a Store rooted at <cacheDir>/<variant.ID()>.
func NewStore(cacheDir string, v yatzy.Variant) *Store {
	return &Store{Dir: filepath.Join(cacheDir, v.ID())}
}

func (s *Store) scoresPath(k Key) string {
	return filepath.Join(s.Dir, "scores", k.String()+".dat")
}

func (s *Store) strategyPath(k Key) string {
	return filepath.Join(s.Dir, "strats", k.String()+".dat")
}

// IsComplete reports whether both files for k exist and have the byte
// lengths expected for na×nb cells (callers pass the layer's full cell
// count, hand axis included), at scoreBytesPerCell bytes per score.
func (s *Store) IsComplete(k Key, na, nb int, scoreBytesPerCell int) bool {
	cells := na * nb
	if !fileHasSize(s.scoresPath(k), int64(cells*scoreBytesPerCell)) {
		return false
	}
	return fileHasSize(s.strategyPath(k), int64(cells))
}

func fileHasSize(path string, want int64) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Size() == want
}

// SaveScores writes scores (one float32 per cell, row-major by
// (upper_idx, lower_idx)) to k's score file, atomically via a temp file
// rename.
func (s *Store) SaveScores(k Key, scores []float32) error {
	return atomicWrite(s.scoresPath(k), func(w io.Writer) error {
		buf := make([]byte, 4*len(scores))
		for i, v := range scores {
			binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
		}
		_, err := w.Write(buf)
		return err
	})
}

// SaveStrats writes one strategy byte per cell to k's strategy file.
func (s *Store) SaveStrats(k Key, strats []byte) error {
	return atomicWrite(s.strategyPath(k), func(w io.Writer) error {
		_, err := w.Write(strats)
		return err
	})
}

func atomicWrite(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// LoadScores reads k's score file in full, decoding it to a plain float32
// slice. Callers on the hot compute path should prefer MapScores.
func (s *Store) LoadScores(k Key, cells int) ([]float32, error) {
	raw, err := readFile(s.scoresPath(k), int64(cells*4))
	if err != nil {
		return nil, err
	}
	out := make([]float32, cells)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out, nil
}

// LoadStrats reads k's strategy file in full.
func (s *Store) LoadStrats(k Key, cells int) ([]byte, error) {
	return readFile(s.strategyPath(k), int64(cells))
}

func readFile(path string, want int64) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, yatzy.ErrMissingLayerFile)
		}
		return nil, err
	}
	if fi.Size() != want {
		return nil, fmt.Errorf("%s: have %d bytes, want %d: %w", path, fi.Size(), want, yatzy.ErrShortLayerFile)
	}
	return os.ReadFile(path)
}

// DropScores removes k's score file, freeing disk space once no later
// layer still depends on it.
func (s *Store) DropScores(k Key) error {
	return dropIfExists(s.scoresPath(k))
}

// DropStrats removes k's strategy file. Strategy files are kept for the
// lifetime of the cache since the policy package reads them long after
// the solve completes.
func (s *Store) DropStrats(k Key) error {
	return dropIfExists(s.strategyPath(k))
}

func dropIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
