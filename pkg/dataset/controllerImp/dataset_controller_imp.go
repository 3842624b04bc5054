package controllerImp

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"statecu/entities"
	"statecu/pkg/dataset/controller"
	"statecu/pkg/dataset/service"
	"statecu/pkg/middleware"
	"statecu/pkg/statecu"
	"statecu/pkg/workspace"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type datasetCtrl struct{ s service.DatasetService }

func New(s service.DatasetService) controller.DatasetController { return &datasetCtrl{s: s} }

// status maps service errors onto HTTP codes.
func status(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, statecu.ErrUnknownComponent),
		errors.Is(err, statecu.ErrUnexpectedEOF),
		errors.Is(err, statecu.ErrMalformed),
		errors.Is(err, workspace.ErrInvalidPath),
		errors.Is(err, service.ErrBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(c echo.Context, err error) error {
	return c.JSON(status(err), echo.Map{"error": err.Error()})
}

func (h *datasetCtrl) List(c echo.Context) error {
	list, err := h.s.List()
	if err != nil {
		return fail(c, err)
	}
	if list == nil {
		list = []entities.Dataset{}
	}
	return c.JSON(http.StatusOK, list)
}

type importReq struct {
	File      string `json:"file"`
	Component string `json:"component"`
}

func (h *datasetCtrl) Import(c echo.Context) error {
	var in importReq
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	fs := middleware.WorkspaceFS(c)
	if fs == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no workspace"})
	}
	meta, err := h.s.Import(fs, in.File, statecu.Component(in.Component))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, meta)
}

func (h *datasetCtrl) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing file"})
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, err)
	}
	defer f.Close()
	meta, err := h.s.Upload(fh.Filename, statecu.Component(c.FormValue("component")), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, meta)
}

func (h *datasetCtrl) Get(c echo.Context) error {
	meta, recs, err := h.s.Records(c.Param("token"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"dataset": meta, "records": recs})
}

// renderQuery reads output props from the query string.
func renderQuery(c echo.Context) service.RenderOptions {
	props := statecu.Props{}
	for key, prop := range map[string]string{
		"precision":  statecu.PropPrecision,
		"version":    statecu.PropVersion,
		"autoadjust": statecu.PropAutoAdjust,
		"title":      statecu.PropTitle,
	} {
		if v := c.QueryParam(key); v != "" {
			props.Set(prop, v)
		}
	}
	return service.RenderOptions{Props: props, Comments: c.QueryParams()["comment"]}
}

func (h *datasetCtrl) File(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.s.Render(c.Param("token"), &buf, renderQuery(c)); err != nil {
		return fail(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, buf.Bytes())
}

type exportReq struct {
	File     string        `json:"file"`
	Comments []string      `json:"comments"`
	Props    statecu.Props `json:"props"`
}

func (h *datasetCtrl) Export(c echo.Context) error {
	var in exportReq
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	fs := middleware.WorkspaceFS(c)
	if fs == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no workspace"})
	}
	opt := service.RenderOptions{Props: in.Props, Comments: in.Comments}
	if err := h.s.Export(fs, c.Param("token"), in.File, opt); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"file": in.File, "workspace": middleware.WorkspaceName(c)})
}

func (h *datasetCtrl) ListFile(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.s.ListFile(c.Param("token"), &buf, c.QueryParam("delimiter")); err != nil {
		return fail(c, err)
	}
	return c.Blob(http.StatusOK, "text/csv; charset=UTF-8", buf.Bytes())
}

func (h *datasetCtrl) Workbook(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.s.Workbook(c.Param("token"), &buf); err != nil {
		return fail(c, err)
	}
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *datasetCtrl) Check(c echo.Context) error {
	probs, err := h.s.Check(c.Param("token"))
	if err != nil {
		return fail(c, err)
	}
	if probs == nil {
		return c.JSON(http.StatusOK, echo.Map{"problems": []any{}})
	}
	return c.JSON(http.StatusOK, echo.Map{"problems": probs})
}

func (h *datasetCtrl) CheckReport(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.s.CheckReport(c.Param("token"), &buf); err != nil {
		return fail(c, err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// Patch edits one record. A rejected edit answers 422 with the problems
// it would have introduced; ?force=true saves it anyway.
func (h *datasetCtrl) Patch(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil || !json.Valid(body) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	force, _ := strconv.ParseBool(c.QueryParam("force"))
	res, err := h.s.Edit(c.Param("token"), c.Param("id"), body, force)
	if err != nil {
		return fail(c, err)
	}
	if !res.Saved {
		return c.JSON(http.StatusUnprocessableEntity, res)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *datasetCtrl) Delete(c echo.Context) error {
	if err := h.s.Delete(c.Param("token")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
