package serviceImp

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"statecu/entities"
	"statecu/pkg/dataset/repository"
	"statecu/pkg/dataset/service"
	"statecu/pkg/export"
	"statecu/pkg/report"
	"statecu/pkg/statecu"
	"statecu/pkg/workspace"
)

type Options struct {
	// Defaults are the output props applied before per-request props.
	Defaults statecu.Props
	Program  string
	Log      statecu.Logger
	Now      func() time.Time
}

type datasetSvc struct {
	r     repository.DatasetRepository
	opt   Options
	codec statecu.Codec
}

func New(r repository.DatasetRepository, opt Options) service.DatasetService {
	if opt.Now == nil {
		opt.Now = time.Now
	}
	return &datasetSvc{r: r, opt: opt, codec: statecu.Codec{Log: opt.Log}}
}

func componentFor(name string, c statecu.Component) (statecu.Component, error) {
	if c != "" {
		return statecu.ParseComponent(string(c))
	}
	return statecu.ComponentFromFilename(name)
}

func (s *datasetSvc) Import(fs billy.Filesystem, name string, c statecu.Component) (*entities.Dataset, error) {
	clean, err := workspace.CleanName(name)
	if err != nil {
		return nil, err
	}
	comp, err := componentFor(clean, c)
	if err != nil {
		return nil, err
	}
	d, err := s.codec.ReadFile(fs, comp, clean)
	if err != nil {
		return nil, err
	}
	return s.store(clean, d)
}

func (s *datasetSvc) Upload(name string, c statecu.Component, r io.Reader) (*entities.Dataset, error) {
	comp, err := componentFor(name, c)
	if err != nil {
		return nil, err
	}
	d, err := statecu.Decode(comp, r)
	if err != nil {
		return nil, err
	}
	return s.store(name, d)
}

func (s *datasetSvc) store(source string, d *statecu.Decoded) (*entities.Dataset, error) {
	meta := &entities.Dataset{
		Token:      uuid.NewString(),
		Component:  string(d.Component),
		SourceName: source,
		Variant:    d.Variant.String(),
		Comments:   d.Comments,
		Records:    d.Dataset.Len(d.Component),
	}
	if err := s.r.Create(meta, &d.Dataset); err != nil {
		return nil, fmt.Errorf("store dataset: %w", err)
	}
	log.Printf("[dataset] stored %s %q as %s (%d records)", meta.Component, source, meta.Token, meta.Records)
	return meta, nil
}

func (s *datasetSvc) List() ([]entities.Dataset, error) { return s.r.List() }

func (s *datasetSvc) Get(token string) (*entities.Dataset, error) { return s.r.FindByToken(token) }

func (s *datasetSvc) load(token string) (*entities.Dataset, statecu.Component, *statecu.Dataset, error) {
	meta, err := s.r.FindByToken(token)
	if err != nil {
		return nil, "", nil, err
	}
	c, err := statecu.ParseComponent(meta.Component)
	if err != nil {
		return nil, "", nil, err
	}
	ds, err := s.r.Records(meta)
	if err != nil {
		return nil, "", nil, err
	}
	return meta, c, ds, nil
}

func (s *datasetSvc) Records(token string) (*entities.Dataset, []entities.Record, error) {
	meta, c, ds, err := s.load(token)
	if err != nil {
		return nil, nil, err
	}
	return meta, ds.Records(c), nil
}

// writeOptions layers request props over the defaults. A dataset read in
// an older layout is written back in that layout unless asked otherwise.
func (s *datasetSvc) writeOptions(meta *entities.Dataset, opt service.RenderOptions) statecu.WriteOptions {
	props := statecu.Props{}
	for k, v := range s.opt.Defaults {
		props.Set(k, v)
	}
	for k, v := range opt.Props {
		props.Set(k, v)
	}
	if v, ok := props.Get(statecu.PropVersion); !ok || strings.TrimSpace(v) == "" {
		props.Set(statecu.PropVersion, meta.Variant)
	}
	return statecu.WriteOptions{
		Props:            props,
		Program:          s.opt.Program,
		Comments:         opt.Comments,
		PreviousComments: meta.Comments,
		Now:              s.opt.Now,
	}
}

func (s *datasetSvc) Render(token string, w io.Writer, opt service.RenderOptions) error {
	meta, c, ds, err := s.load(token)
	if err != nil {
		return err
	}
	return statecu.Encode(w, c, ds, s.writeOptions(meta, opt))
}

func (s *datasetSvc) Export(fs billy.Filesystem, token, name string, opt service.RenderOptions) error {
	clean, err := workspace.CleanName(name)
	if err != nil {
		return err
	}
	meta, c, ds, err := s.load(token)
	if err != nil {
		return err
	}
	o := s.writeOptions(meta, opt)
	prev, err := statecu.PreviousComments(fs, clean)
	if err != nil {
		return err
	}
	if prev != nil {
		o.PreviousComments = prev
	}
	return s.codec.WriteFile(fs, c, clean, ds, o)
}

func (s *datasetSvc) ListFile(token string, w io.Writer, delimiter string) error {
	meta, c, ds, err := s.load(token)
	if err != nil {
		return err
	}
	if delimiter == "" {
		delimiter = ","
	}
	t, err := ds.Table(c)
	if err != nil {
		return err
	}
	comments := []string{fmt.Sprintf("%s records from %s", c, meta.SourceName)}
	return statecu.WriteListFile(w, t, delimiter, comments)
}

func (s *datasetSvc) Workbook(token string, w io.Writer) error {
	_, c, ds, err := s.load(token)
	if err != nil {
		return err
	}
	t, err := ds.Table(c)
	if err != nil {
		return err
	}
	return export.WriteWorkbook(w, []statecu.Table{t})
}

func (s *datasetSvc) Check(token string) ([]entities.Problem, error) {
	_, _, ds, err := s.load(token)
	if err != nil {
		return nil, err
	}
	return ds.Check(), nil
}

func (s *datasetSvc) CheckReport(token string, w io.Writer) error {
	meta, c, ds, err := s.load(token)
	if err != nil {
		return err
	}
	sec := report.Section{
		Component: string(c),
		Source:    meta.SourceName,
		Records:   ds.Len(c),
		Problems:  ds.Check(),
	}
	return report.WriteCheckHTML(w, "Check of "+meta.SourceName, []report.Section{sec})
}

// Edit applies a JSON merge of patch onto one record. An edit that
// introduces problems the record did not already have is rolled back
// unless force is set.
func (s *datasetSvc) Edit(token, id string, patch json.RawMessage, force bool) (*service.EditResult, error) {
	_, c, ds, err := s.load(token)
	if err != nil {
		return nil, err
	}
	rec := ds.Find(c, id)
	if rec == nil {
		return nil, fmt.Errorf("record %q: %w", id, gorm.ErrRecordNotFound)
	}
	before := map[string]bool{}
	for _, p := range statecu.CheckRecord(rec) {
		before[p.Message] = true
	}
	rec.CreateBackup()
	if err := json.Unmarshal(patch, rec); err != nil {
		rec.RestoreOriginal()
		return nil, fmt.Errorf("%w: %v", service.ErrBadRequest, err)
	}
	var added []entities.Problem
	for _, p := range statecu.CheckRecord(rec) {
		if !before[p.Message] {
			added = append(added, p)
		}
	}
	if len(added) > 0 && !force {
		rec.RestoreOriginal()
		return &service.EditResult{Saved: false, Record: rec, Problems: added}, nil
	}
	if err := s.r.SaveRecord(rec); err != nil {
		return nil, fmt.Errorf("save record %q: %w", id, err)
	}
	log.Printf("[dataset] %s: edited %s %q (%d new problems)", token, c, id, len(added))
	return &service.EditResult{Saved: true, Record: rec, Problems: added}, nil
}

func (s *datasetSvc) Delete(token string) error {
	meta, err := s.r.FindByToken(token)
	if err != nil {
		return err
	}
	return s.r.Delete(meta)
}
