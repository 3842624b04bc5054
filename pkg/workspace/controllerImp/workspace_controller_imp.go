package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"statecu/pkg/middleware"
	"statecu/pkg/workspace"
	"statecu/pkg/workspace/controller"
)

type workspaceCtrl struct{ ws *workspace.Resolver }

func NewWorkspaceController(ws *workspace.Resolver) controller.WorkspaceController {
	return &workspaceCtrl{ws: ws}
}

// Select creates the workspace chosen by ?workspace= and echoes it; the
// middleware has already stored it in the cookie.
func (h *workspaceCtrl) Select(c echo.Context) error {
	name := middleware.WorkspaceName(c)
	if _, err := h.ws.Create(name); err != nil {
		if errors.Is(err, workspace.ErrInvalidPath) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"workspace": name})
}

// Current lists the files of the caller's workspace, optionally below
// ?dir=.
func (h *workspaceCtrl) Current(c echo.Context) error {
	fs := middleware.WorkspaceFS(c)
	if fs == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no workspace"})
	}
	dir := c.QueryParam("dir")
	if dir != "" {
		clean, err := workspace.CleanName(dir)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		dir = clean
	}
	files, err := workspace.Files(fs, dir)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if files == nil {
		files = []string{}
	}
	return c.JSON(http.StatusOK, echo.Map{"workspace": middleware.WorkspaceName(c), "files": files})
}
