// Package checkpoint persists model parameter dictionaries and training state
// as zlib compressed json files.
package checkpoint

import "fmt"
import "io"
import "os"
import "path/filepath"

import "go.uber.org/zap"

// File names written by SaveCheckpoint.
const (
	CheckpointName = "checkpoint.json.zlib"
	BestName       = "model_best.json.zlib"
)

// SaveCheckpoint writes state into dir/checkpoint.json.zlib. When isBest is
// set, the written file is also copied to dir/model_best.json.zlib.
func SaveCheckpoint(state any, isBest bool, dir string) error {
	filename := filepath.Join(dir, CheckpointName)
	if err := WriteZlibFile(filename, state); err != nil {
		return err
	}
	zap.L().Debug("checkpoint saved", zap.String("path", filename), zap.Bool("best", isBest))
	if isBest {
		return copyFile(filename, filepath.Join(dir, BestName))
	}
	return nil
}

// Save writes the state dict of model to path.
func Save(model Stater, path string) error {
	return WriteZlibFile(path, model.StateDict())
}

// LoadModel reads a state dict from path into model.
func LoadModel(model Loader, path string) error {
	zap.L().Info("Start loading the model from " + path)
	var sd StateDict
	if err := ReadZlibFile(path, &sd); err != nil {
		return err
	}
	if err := model.LoadStateDict(sd); err != nil {
		return fmt.Errorf("checkpoint: %s: %w", path, err)
	}
	zap.L().Info("Loading the model finished!")
	return nil
}

// LoadState reads any object saved by SaveCheckpoint or Save.
func LoadState(path string, v any) error {
	return ReadZlibFile(path, v)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("checkpoint: %s: %w", dst, err)
	}
	tmp := out.Name()
	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, dst)
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("checkpoint: %s: %w", dst, err)
	}
	return nil
}
