package statecu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
)

const (
	commentPrefix   = "#"
	docPrefix       = "#>"
	endHeaderMarker = "#>EndHeader"
	previousMarker  = "# ----- comments from previous file -----"
)

// WriteOptions controls the header and layout of a written file.
type WriteOptions struct {
	Props   Props
	Program string
	// Comments are new comments placed at the top of the file.
	Comments []string
	// PreviousComments is the preserved "#" block of the file being
	// replaced. File writers fill it from the target when it is nil.
	PreviousComments []string
	Now              func() time.Time
}

func (o WriteOptions) props() Props {
	if o.Props == nil {
		return Props{}
	}
	return o.Props
}

// writeHeader writes the generated-by line, the new comments and the
// previous file's preserved comments.
func writeHeader(w io.Writer, o WriteOptions) error {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	program := o.Program
	if program == "" {
		program = "statecu"
	}
	bw := &lineWriter{w: w}
	bw.printf("# File generated by %s on %s", program, now().Format(time.RFC3339))
	for _, c := range o.Comments {
		bw.printf("# %s", c)
	}
	if len(o.PreviousComments) > 0 {
		bw.printf("%s", previousMarker)
		for _, c := range o.PreviousComments {
			bw.printf("%s", c)
		}
	}
	return bw.err
}

// writeDocBlock writes the "#>" legend for a component, including the
// record format and column ruler when a layout is given.
func writeDocBlock(w io.Writer, title string, legend []string, layout Layout) error {
	bw := &lineWriter{w: w}
	bw.printf("%s", docPrefix)
	bw.printf("%s %s", docPrefix, title)
	bw.printf("%s", docPrefix)
	for _, l := range legend {
		if l == "" {
			bw.printf("%s", docPrefix)
			continue
		}
		bw.printf("%s   %s", docPrefix, l)
	}
	if layout != nil {
		bw.printf("%s", docPrefix)
		bw.printf("%s   Record format %s", docPrefix, layout.RecordFormat())
		bw.printf("%s", docPrefix)
		titles, marks := layout.Ruler()
		bw.printf("%s%s", docPrefix, titles)
		bw.printf("%s%s", docPrefix, marks)
	}
	bw.printf("%s", endHeaderMarker)
	return bw.err
}

// HeaderComments returns the "#" lines of a file that are not part of a
// regenerated "#>" block. Reading stops at the first data line.
func HeaderComments(lines []string) []string {
	var out []string
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, commentPrefix) {
			break
		}
		if strings.HasPrefix(t, docPrefix) || t == previousMarker {
			continue
		}
		out = append(out, strings.TrimRight(l, " \t"))
	}
	return out
}

// PreviousComments reads the preserved header comments of an existing
// file. A missing file yields no comments and no error.
func PreviousComments(fsys billy.Basic, name string) ([]string, error) {
	f, err := fsys.Open(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("statecu: open previous %q: %w", name, err)
	}
	defer f.Close()
	lines, err := readLines(f)
	if err != nil {
		return nil, fmt.Errorf("statecu: read previous %q: %w", name, err)
	}
	return HeaderComments(lines), nil
}

type lineWriter struct {
	w   io.Writer
	err error
}

func (l *lineWriter) printf(format string, args ...any) {
	if l.err != nil {
		return
	}
	_, l.err = fmt.Fprintf(l.w, format+"\n", args...)
}

func readLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	var out []string
	for sc.Scan() {
		out = append(out, strings.TrimRight(sc.Text(), "\r"))
	}
	return out, sc.Err()
}

func isCommentOrBlank(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || strings.HasPrefix(t, commentPrefix)
}

// dataLines pairs each non-comment line with its 1-based line number.
type dataLine struct {
	no   int
	text string
}

func dataLines(lines []string) []dataLine {
	var out []dataLine
	for i, l := range lines {
		if isCommentOrBlank(l) {
			continue
		}
		out = append(out, dataLine{no: i + 1, text: l})
	}
	return out
}
