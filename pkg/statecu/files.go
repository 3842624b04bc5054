package statecu

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5"
)

var (
	ErrUnexpectedEOF    = errors.New("statecu: unexpected end of file")
	ErrUnknownComponent = errors.New("statecu: unknown component")
	// ErrMalformed marks a record whose structure cannot be read. Bad
	// numbers are not malformed; they read as missing.
	ErrMalformed = errors.New("statecu: malformed record")
)

// Logger is the status-message sink. *log.Logger and echo.Logger both
// satisfy it.
type Logger interface {
	Printf(format string, args ...any)
}

type discard struct{}

func (discard) Printf(string, ...any) {}

func readFile[T any](fsys billy.Basic, name string, parse func([]string) (T, error)) (T, error) {
	var zero T
	f, err := fsys.Open(name)
	if err != nil {
		return zero, fmt.Errorf("statecu: open %q: %w", name, err)
	}
	defer f.Close()
	lines, err := readLines(f)
	if err != nil {
		return zero, fmt.Errorf("statecu: read %q: %w", name, err)
	}
	out, err := parse(lines)
	if err != nil {
		return zero, fmt.Errorf("statecu: %s: %w", name, err)
	}
	return out, nil
}

// writeFile loads the previous header of name (unless the caller gave
// one), then truncates and rewrites it. A failed write leaves a partial
// file.
func writeFile(fsys billy.Basic, name string, o WriteOptions, write func(io.Writer, WriteOptions) error) (err error) {
	if o.PreviousComments == nil {
		prev, err := PreviousComments(fsys, name)
		if err != nil {
			return err
		}
		o.PreviousComments = prev
	}
	f, err := fsys.Create(name)
	if err != nil {
		return fmt.Errorf("statecu: create %q: %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("statecu: close %q: %w", name, cerr)
		}
	}()
	bw := bufio.NewWriter(f)
	if err := write(bw, o); err != nil {
		return fmt.Errorf("statecu: write %q: %w", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("statecu: write %q: %w", name, err)
	}
	return nil
}
