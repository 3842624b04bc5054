package service

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/go-git/go-billy/v5"

	"statecu/entities"
	"statecu/pkg/statecu"
)

var ErrBadRequest = errors.New("bad request")

// RenderOptions are per-request output options layered over the
// configured defaults.
type RenderOptions struct {
	Props    statecu.Props `json:"props"`
	Comments []string      `json:"comments"`
}

// EditResult reports the outcome of an edit. A rejected edit has Saved
// false, the record as it was before the edit and the problems the edit
// would have introduced.
type EditResult struct {
	Saved    bool               `json:"saved"`
	Record   entities.Record    `json:"record"`
	Problems []entities.Problem `json:"problems"`
}

type DatasetService interface {
	// Import reads a component file from the workspace. An empty
	// component is taken from the file extension.
	Import(fs billy.Filesystem, name string, c statecu.Component) (*entities.Dataset, error)
	Upload(name string, c statecu.Component, r io.Reader) (*entities.Dataset, error)
	List() ([]entities.Dataset, error)
	Get(token string) (*entities.Dataset, error)
	Records(token string) (*entities.Dataset, []entities.Record, error)
	Render(token string, w io.Writer, opt RenderOptions) error
	// Export writes the dataset into the workspace, keeping the header
	// comments of a file already at that path.
	Export(fs billy.Filesystem, token, name string, opt RenderOptions) error
	ListFile(token string, w io.Writer, delimiter string) error
	Workbook(token string, w io.Writer) error
	Check(token string) ([]entities.Problem, error)
	CheckReport(token string, w io.Writer) error
	Edit(token, id string, patch json.RawMessage, force bool) (*EditResult, error)
	Delete(token string) error
}
