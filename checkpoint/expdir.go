package checkpoint

import "bufio"
import "errors"
import "fmt"
import "io"
import "os"
import "strings"
import "time"

import "github.com/google/uuid"
import "go.uber.org/zap"

// LoadNetConfig returns the first line of the file at path, which holds the
// network configuration string. The line terminator is not included.
func LoadNetConfig(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("checkpoint: %w", err)
	}
	defer file.Close()

	r := bufio.NewReader(file)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", fmt.Errorf("checkpoint: %s: %w", path, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// CreateExpDir creates the experiment directory if it does not exist yet.
func CreateExpDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	zap.L().Info("Experiment dir : "+path, zap.String("path", path))
	return nil
}

// NewExpName returns a unique experiment directory name with the given prefix.
func NewExpName(prefix string) string {
	id := uuid.NewString()
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102-150405"), id[:8])
}
