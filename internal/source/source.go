// Package source loads schematic text for the engine. Failures to read an
// input are reported as *IoError, which matches ErrIO, before any grid exists.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/vk/schematic/internal/ctxlog"
)

// ErrIO is the kind shared by every input loading failure.
var ErrIO = errors.New("input io error")

// IoError reports that the input at Path could not be read.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("read input %q: %v", e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrIO) hold for every IoError.
func (e *IoError) Is(target error) bool { return target == ErrIO }

// Input is raw schematic text together with where it came from.
type Input struct {
	Path   string
	Text   string
	Digest string // hex SHA-256 of Text
}

// FromString wraps already-loaded text.
func FromString(path, text string) *Input {
	sum := sha256.Sum256([]byte(text))
	return &Input{Path: path, Text: text, Digest: hex.EncodeToString(sum[:])}
}

// Load reads the file at path.
func Load(ctx context.Context, path string) (*Input, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, &IoError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &IoError{Path: path, Err: errors.New("is a directory")}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IoError{Path: path, Err: err}
	}

	in := FromString(path, string(data))
	logger.Debug("Input loaded.", "path", path, "bytes", len(data), "digest", in.Digest)
	return in, nil
}
