package checkpoint

import "compress/zlib"
import "encoding/json"
import "fmt"
import "io"
import "os"
import "path/filepath"

// WriteZlib writes v as zlib compressed json to a writer
func WriteZlib(w io.Writer, v any) error {
	zw := zlib.NewWriter(w)
	err := json.NewEncoder(zw).Encode(v)
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ReadZlib reads zlib compressed json from a reader into v
func ReadZlib(r io.Reader, v any) error {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return err
	}
	defer zr.Close()
	return json.NewDecoder(zr).Decode(v)
}

// WriteZlibFile writes v to a .json.zlib file. The data goes to a temporary
// file in the same directory first, which is then renamed over name.
func WriteZlibFile(name string, v any) error {
	file, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return fmt.Errorf("checkpoint: %s: %w", name, err)
	}
	tmp := file.Name()
	err = WriteZlib(file, v)
	if err == nil {
		err = file.Sync()
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, name)
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("checkpoint: %s: %w", name, err)
	}
	return nil
}

// ReadZlibFile reads a .json.zlib file into v
func ReadZlibFile(name string, v any) error {
	file, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	defer file.Close()
	if err = ReadZlib(file, v); err != nil {
		return fmt.Errorf("checkpoint: %s: %w", name, err)
	}
	return nil
}
