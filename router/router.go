package router

import (
	"github.com/labstack/echo/v4"

	dsCtrl "statecu/pkg/dataset/controller"
	"statecu/pkg/middleware"
	"statecu/pkg/workspace"
	wsCtrl "statecu/pkg/workspace/controller"
)

func New(
	e *echo.Echo,
	ws *workspace.Resolver,
	requireWorkspace bool,
	datasetCtrl dsCtrl.DatasetController,
	workspaceCtrl wsCtrl.WorkspaceController,
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.GET("/health", healthCtrl.Health)

	api := e.Group("", middleware.Workspace(ws), middleware.RequireWorkspace(requireWorkspace))

	api.GET("/workspace", workspaceCtrl.Current)
	api.GET("/workspace/select", workspaceCtrl.Select)

	g := api.Group("/datasets")
	g.GET("", datasetCtrl.List)
	g.POST("/import", datasetCtrl.Import)
	g.POST("/upload", datasetCtrl.Upload)
	g.GET("/:token", datasetCtrl.Get)
	g.DELETE("/:token", datasetCtrl.Delete)
	g.GET("/:token/file", datasetCtrl.File)
	g.POST("/:token/export", datasetCtrl.Export)
	g.GET("/:token/list", datasetCtrl.ListFile)
	g.GET("/:token/workbook", datasetCtrl.Workbook)
	g.GET("/:token/check", datasetCtrl.Check)
	g.GET("/:token/check.html", datasetCtrl.CheckReport)
	g.PATCH("/:token/records/:id", datasetCtrl.Patch)
	return e
}
