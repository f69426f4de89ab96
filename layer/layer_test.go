package layer

import (
	"errors"
	"os"
	"testing"

	"github.com/yatzygo/yatzygo/yatzy"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, yatzy.Variant{Dice: 5})
	k := Key{Na: 1, Nb: 2, Nt: 0}

	scores := []float32{1.5, -2.25, 0, 99.75}
	if err := store.SaveScores(k, scores); err != nil {
		t.Fatalf("SaveScores: %v", err)
	}
	strats := []byte{0x01, 0x80, 0x7f, 0x00}
	if err := store.SaveStrats(k, strats); err != nil {
		t.Fatalf("SaveStrats: %v", err)
	}

	if !store.IsComplete(k, 2, 2, 4) {
		t.Fatal("IsComplete = false after saving both files")
	}

	gotScores, err := store.LoadScores(k, len(scores))
	if err != nil {
		t.Fatalf("LoadScores: %v", err)
	}
	for i, v := range scores {
		if gotScores[i] != v {
			t.Errorf("gotScores[%d] = %v, want %v", i, gotScores[i], v)
		}
	}

	gotStrats, err := store.LoadStrats(k, len(strats))
	if err != nil {
		t.Fatalf("LoadStrats: %v", err)
	}
	for i, b := range strats {
		if gotStrats[i] != b {
			t.Errorf("gotStrats[%d] = %#x, want %#x", i, gotStrats[i], b)
		}
	}
}

func TestIsCompleteFalseWhenMissing(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, yatzy.Variant{Dice: 5})
	k := Key{Na: 0, Nb: 0, Nt: 0}
	if store.IsComplete(k, 1, 1, 4) {
		t.Fatal("IsComplete = true for a layer never written")
	}
}

func TestLoadScoresMissingFileError(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, yatzy.Variant{Dice: 5})
	k := Key{Na: 0, Nb: 0, Nt: 0}
	_, err := store.LoadScores(k, 4)
	if !errors.Is(err, yatzy.ErrMissingLayerFile) {
		t.Errorf("err = %v, want ErrMissingLayerFile", err)
	}
}

func TestLoadScoresShortFileError(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, yatzy.Variant{Dice: 5})
	k := Key{Na: 0, Nb: 0, Nt: 0}
	if err := store.SaveScores(k, []float32{1, 2}); err != nil {
		t.Fatalf("SaveScores: %v", err)
	}
	_, err := store.LoadScores(k, 4) // expects 4 cells, only 2 written
	if !errors.Is(err, yatzy.ErrShortLayerFile) {
		t.Errorf("err = %v, want ErrShortLayerFile", err)
	}
}

func TestDropScoresRemovesFileIdempotently(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, yatzy.Variant{Dice: 6})
	k := Key{Na: 3, Nb: 3, Nt: 1}
	if err := store.SaveScores(k, []float32{1}); err != nil {
		t.Fatalf("SaveScores: %v", err)
	}
	if err := store.DropScores(k); err != nil {
		t.Fatalf("DropScores: %v", err)
	}
	if _, err := os.Stat(store.scoresPath(k)); !os.IsNotExist(err) {
		t.Fatal("score file still present after DropScores")
	}
	if err := store.DropScores(k); err != nil {
		t.Fatalf("DropScores on an already-missing file: %v", err)
	}
}

func TestMapScoresRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, yatzy.Variant{Dice: 5})
	k := Key{Na: 0, Nb: 0, Nt: 0}
	scores := []float32{3.5, -1, 42}
	if err := store.SaveScores(k, scores); err != nil {
		t.Fatalf("SaveScores: %v", err)
	}
	m, err := store.MapScores(k, len(scores))
	if err != nil {
		t.Fatalf("MapScores: %v", err)
	}
	defer m.Close()
	for i, v := range scores {
		if got := m.Float32(i); got != v {
			t.Errorf("Float32(%d) = %v, want %v", i, got, v)
		}
	}
}
