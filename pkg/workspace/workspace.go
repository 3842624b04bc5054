package workspace

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

var ErrInvalidPath = errors.New("workspace: invalid path")

// Resolver maps workspace names and relative file names onto a root
// filesystem. Every workspace is a chroot below the root.
type Resolver struct {
	root billy.Filesystem
}

func New(root billy.Filesystem) *Resolver { return &Resolver{root: root} }

// NewOS roots the resolver at a local directory.
func NewOS(dir string) *Resolver { return New(osfs.New(dir)) }

func (r *Resolver) Root() billy.Filesystem { return r.root }

// CleanName normalises a relative slash path. Absolute paths and paths
// that climb out of the root are rejected.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	if strings.HasPrefix(name, "/") || (len(name) > 1 && name[1] == ':') {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidPath, name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q leaves the workspace", ErrInvalidPath, name)
		}
	}
	return path.Clean(name), nil
}

// Open returns the filesystem for a workspace without touching the
// disk. A workspace that does not exist yet reads as empty; its directory
// appears with the first file written. An empty name is the root itself.
func (r *Resolver) Open(name string) (billy.Filesystem, error) {
	if strings.TrimSpace(name) == "" {
		return r.root, nil
	}
	clean, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	fs, err := r.root.Chroot(clean)
	if err != nil {
		return nil, fmt.Errorf("workspace: chroot %q: %w", clean, err)
	}
	return fs, nil
}

// Create opens a workspace and makes sure its directory exists.
func (r *Resolver) Create(name string) (billy.Filesystem, error) {
	if strings.TrimSpace(name) == "" {
		return r.root, nil
	}
	clean, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	if err := r.root.MkdirAll(clean, 0o755); err != nil {
		return nil, fmt.Errorf("workspace: mkdir %q: %w", clean, err)
	}
	return r.Open(clean)
}

// Ping checks that the root is reachable.
func (r *Resolver) Ping() error {
	fi, err := r.root.Stat(".")
	if err != nil {
		return fmt.Errorf("workspace: stat root: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("workspace: root %q is not a directory", r.root.Root())
	}
	return nil
}

// Files lists the regular files of a workspace directory, sorted.
func Files(fs billy.Filesystem, dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	list, err := fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("workspace: readdir %q: %w", dir, err)
	}
	var out []string
	for _, fi := range list {
		if fi.IsDir() {
			continue
		}
		out = append(out, fs.Join(dir, fi.Name()))
	}
	sort.Strings(out)
	return out, nil
}
