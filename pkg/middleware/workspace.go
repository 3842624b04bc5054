package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/labstack/echo/v4"

	"statecu/pkg/workspace"
)

const (
	workspaceCookie = "STATECU_WORKSPACE"
	workspaceHeader = "X-Workspace"
	nameKey         = "workspace"
	fsKey           = "fs"
)

// Workspace picks the caller's workspace. The ?workspace= query wins and
// is remembered in a cookie; otherwise the X-Workspace header, then the
// cookie. No name means the root.
func Workspace(r *workspace.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			name := c.Request().Header.Get(workspaceHeader)
			if name == "" {
				if ck, err := c.Cookie(workspaceCookie); err == nil {
					name = ck.Value
				}
			}
			if q := c.QueryParam("workspace"); q != "" {
				name = q
				c.SetCookie(&http.Cookie{Name: workspaceCookie, Value: q, Path: "/"})
			}
			name = strings.TrimSpace(name)
			fs, err := r.Open(name)
			if err != nil {
				if errors.Is(err, workspace.ErrInvalidPath) {
					return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
			}
			c.Set(nameKey, name)
			c.Set(fsKey, fs)
			return next(c)
		}
	}
}

// RequireWorkspace rejects requests that did not name a workspace. When
// enabled is false it passes everything through and the root is shared.
func RequireWorkspace(enabled bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !enabled {
				return next(c)
			}
			if WorkspaceName(c) == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "workspace required"})
			}
			return next(c)
		}
	}
}

func WorkspaceName(c echo.Context) string {
	v, _ := c.Get(nameKey).(string)
	return v
}

// WorkspaceFS returns the filesystem set by Workspace, or nil.
func WorkspaceFS(c echo.Context) billy.Filesystem {
	fs, _ := c.Get(fsKey).(billy.Filesystem)
	return fs
}
