package controller

import "github.com/labstack/echo/v4"

type WorkspaceController interface {
	Select(c echo.Context) error
	Current(c echo.Context) error
}
