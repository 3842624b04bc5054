package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statecu/database"
	"statecu/entities"
	dsCtrlImp "statecu/pkg/dataset/controllerImp"
	dsRepoImp "statecu/pkg/dataset/repositoryImp"
	dsSvcImp "statecu/pkg/dataset/serviceImp"
	healthCtrlImp "statecu/pkg/health/controllerImp"
	"statecu/pkg/workspace"
	wsCtrlImp "statecu/pkg/workspace/controllerImp"
)

type server struct {
	e    *echo.Echo
	root *workspace.Resolver
}

func newServer(t *testing.T, requireWorkspace bool) *server {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "router.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	ws := workspace.New(memfs.New())
	svc := dsSvcImp.New(dsRepoImp.New(db), dsSvcImp.Options{})
	e := New(echo.New(), ws, requireWorkspace,
		dsCtrlImp.New(svc),
		wsCtrlImp.NewWorkspaceController(ws),
		healthCtrlImp.NewHealthCtrl(db, ws),
	)
	return &server{e: e, root: ws}
}

func (s *server) do(method, target string, body []byte, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

const delayFile = "1 2 60 40\n2 1 100\n"

func TestHealth(t *testing.T) {
	s := newServer(t, false)
	rec := s.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	checks := out["checks"].(map[string]any)
	assert.Equal(t, true, checks["database"].(map[string]any)["ok"])
	assert.Equal(t, true, checks["workspace"].(map[string]any)["ok"])
}

func TestImportFromWorkspaceAndExport(t *testing.T) {
	s := newServer(t, false)
	fs, err := s.root.Open("rg")
	require.NoError(t, err)
	require.NoError(t, util.WriteFile(fs, "basin.dly", []byte(delayFile), 0o644))
	hdr := map[string]string{"X-Workspace": "rg"}

	rec := s.do(http.MethodGet, "/workspace", nil, hdr)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"basin.dly"}, decode(t, rec)["files"])

	rec = s.do(http.MethodPost, "/datasets/import", []byte(`{"file":"basin.dly"}`), hdr)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var meta entities.Dataset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	assert.Equal(t, "DelayTables", meta.Component)
	assert.Equal(t, 2, meta.Records)

	rec = s.do(http.MethodGet, "/datasets/"+meta.Token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	recs := decode(t, rec)["records"].([]any)
	require.Len(t, recs, 2)
	assert.Equal(t, "1", recs[0].(map[string]any)["id"])

	rec = s.do(http.MethodGet, "/datasets/"+meta.Token+"/file?version=current&comment=from+api", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# from api")
	assert.Contains(t, rec.Body.String(), "1          2   60.00   40.00")

	rec = s.do(http.MethodPost, "/datasets/"+meta.Token+"/export", []byte(`{"file":"out/basin.dly","comments":["exported"]}`), hdr)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	raw, err := util.ReadFile(fs, "out/basin.dly")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "# exported")

	rec = s.do(http.MethodPost, "/datasets/"+meta.Token+"/export", []byte(`{"file":"../x.dly"}`), hdr)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadCheckAndPatch(t *testing.T) {
	s := newServer(t, false)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "basin.dly")
	require.NoError(t, err)
	_, err = fw.Write([]byte(delayFile))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/datasets/upload", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token := decode(t, rec)["token"].(string)

	rec = s.do(http.MethodGet, "/datasets/"+token+"/check", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["problems"])

	rec = s.do(http.MethodPatch, "/datasets/"+token+"/records/2", []byte(`{"values":[50]}`), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, false, out["saved"])
	assert.Len(t, out["problems"], 1)

	rec = s.do(http.MethodPatch, "/datasets/"+token+"/records/2?force=true", []byte(`{"values":[50]}`), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/datasets/"+token+"/check", nil, nil)
	assert.Len(t, decode(t, rec)["problems"], 1)

	rec = s.do(http.MethodGet, "/datasets/"+token+"/check.html", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Delay values sum to 50.00.")

	rec = s.do(http.MethodGet, "/datasets/"+token+"/list?delimiter=%3B", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ID";"Position";"Value"`)

	rec = s.do(http.MethodGet, "/datasets/"+token+"/workbook", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "application/vnd.openxmlformats"))

	rec = s.do(http.MethodPatch, "/datasets/"+token+"/records/2", []byte(`{`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, "/datasets/"+token+"/records/9", []byte(`{}`), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/datasets/"+token, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodGet, "/datasets/"+token, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadErrors(t *testing.T) {
	s := newServer(t, false)
	rec := s.do(http.MethodPost, "/datasets/import", []byte(`{"file":"nothing.cli"}`), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/datasets/import", []byte(`{"file":"a.txt"}`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/datasets", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestWorkspaceRequired(t *testing.T) {
	s := newServer(t, true)
	rec := s.do(http.MethodGet, "/datasets", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/datasets", nil, map[string]string{"X-Workspace": "rg"})
	assert.Equal(t, http.StatusOK, rec.Code)
	_, err := s.root.Root().Stat("rg")
	assert.True(t, os.IsNotExist(err))

	rec = s.do(http.MethodGet, "/workspace/select?workspace=rg", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rg", decode(t, rec)["workspace"])
	fi, err := s.root.Root().Stat("rg")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/datasets", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/datasets", nil, map[string]string{"X-Workspace": "../up"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
