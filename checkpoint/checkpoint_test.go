package checkpoint

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type fakeModel struct {
	w *mat.Dense
}

func (f *fakeModel) StateDict() StateDict {
	return StateDict{"fc.weight": FromDense(f.w)}
}

func (f *fakeModel) LoadStateDict(sd StateDict) error {
	t, err := sd.Get("fc.weight")
	if err != nil {
		return err
	}
	return t.CopyTo(f.w)
}

func TestSaveLoadModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.json.zlib")

	src := &fakeModel{w: mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})}
	require.NoError(t, Save(src, path))

	dst := &fakeModel{w: mat.NewDense(2, 3, nil)}
	require.NoError(t, LoadModel(dst, path))
	assert.True(t, mat.Equal(src.w, dst.w))
}

func TestLoadModelShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.json.zlib")
	require.NoError(t, Save(&fakeModel{w: mat.NewDense(2, 3, nil)}, path))

	err := LoadModel(&fakeModel{w: mat.NewDense(3, 2, nil)}, path)
	assert.ErrorIs(t, err, ErrShape)
}

func TestLoadModelMissingFile(t *testing.T) {
	err := LoadModel(&fakeModel{w: mat.NewDense(1, 1, nil)}, filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveCheckpointBest(t *testing.T) {
	dir := t.TempDir()
	state := State{Epoch: 3, BestTop1: 71.5, StateDict: StateDict{"b": {Shape: []int{2}, Data: []float64{1, 2}}}}

	require.NoError(t, SaveCheckpoint(state, false, dir))
	assert.FileExists(t, filepath.Join(dir, CheckpointName))
	assert.NoFileExists(t, filepath.Join(dir, BestName))

	require.NoError(t, SaveCheckpoint(state, true, dir))
	a, err := os.ReadFile(filepath.Join(dir, CheckpointName))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dir, BestName))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	var loaded State
	require.NoError(t, LoadState(filepath.Join(dir, BestName), &loaded))
	assert.Equal(t, state, loaded)
}

func TestSaveCheckpointMissingDir(t *testing.T) {
	err := SaveCheckpoint(State{}, false, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestReadZlibFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json.zlib")
	require.NoError(t, os.WriteFile(path, []byte("not zlib"), 0644))
	var sd StateDict
	assert.Error(t, ReadZlibFile(path, &sd))
}

func TestTensorValidate(t *testing.T) {
	assert.NoError(t, Tensor{Shape: []int{2, 2}, Data: make([]float64, 4)}.Validate())
	assert.NoError(t, Tensor{Data: []float64{1}}.Validate())
	assert.ErrorIs(t, Tensor{Shape: []int{3}, Data: make([]float64, 2)}.Validate(), ErrShape)
}

func TestStateDictGetMissing(t *testing.T) {
	_, err := StateDict{}.Get("x")
	assert.ErrorIs(t, err, ErrMissingKey)
	assert.Equal(t, []string{"a", "b"}, StateDict{"b": {}, "a": {}}.Keys())
}

func TestSaveCheckpointNonFinite(t *testing.T) {
	dir := t.TempDir()
	state := State{
		Epoch:     1,
		BestTop1:  Float(math.NaN()),
		StateDict: StateDict{"w": {Shape: []int{4}, Data: []float64{math.NaN(), math.Inf(1), math.Inf(-1), 0.5}}},
		Extra:     Metrics{"loss": math.Inf(1)},
	}
	require.NoError(t, SaveCheckpoint(state, false, dir))

	var loaded State
	require.NoError(t, LoadState(filepath.Join(dir, CheckpointName), &loaded))
	assert.True(t, math.IsNaN(float64(loaded.BestTop1)))
	assert.True(t, math.IsInf(loaded.Extra["loss"], 1))

	w, err := loaded.StateDict.Get("w")
	require.NoError(t, err)
	require.Len(t, w.Data, 4)
	assert.True(t, math.IsNaN(w.Data[0]))
	assert.True(t, math.IsInf(w.Data[1], 1))
	assert.True(t, math.IsInf(w.Data[2], -1))
	assert.Equal(t, 0.5, w.Data[3])
}

func TestSaveModelNonFinite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json.zlib")
	src := &fakeModel{w: mat.NewDense(1, 3, []float64{math.Inf(-1), math.NaN(), 2})}
	require.NoError(t, Save(src, path))

	dst := &fakeModel{w: mat.NewDense(1, 3, nil)}
	require.NoError(t, LoadModel(dst, path))
	assert.True(t, math.IsInf(dst.w.At(0, 0), -1))
	assert.True(t, math.IsNaN(dst.w.At(0, 1)))
	assert.Equal(t, 2.0, dst.w.At(0, 2))
}

func TestFloatUnmarshalInvalid(t *testing.T) {
	var f Float
	assert.Error(t, f.UnmarshalJSON([]byte(`"big"`)))
	require.NoError(t, f.UnmarshalJSON([]byte(`1.25`)))
	assert.Equal(t, Float(1.25), f)
}
