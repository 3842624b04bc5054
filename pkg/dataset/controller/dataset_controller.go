package controller

import "github.com/labstack/echo/v4"

type DatasetController interface {
	List(c echo.Context) error
	Import(c echo.Context) error
	Upload(c echo.Context) error
	Get(c echo.Context) error
	File(c echo.Context) error
	Export(c echo.Context) error
	ListFile(c echo.Context) error
	Workbook(c echo.Context) error
	Check(c echo.Context) error
	CheckReport(c echo.Context) error
	Patch(c echo.Context) error
	Delete(c echo.Context) error
}
