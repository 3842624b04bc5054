package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"statecu/config"
	"statecu/database"
	"statecu/router"

	// Dataset
	dsCtrlImp "statecu/pkg/dataset/controllerImp"
	dsRepoImp "statecu/pkg/dataset/repositoryImp"
	dsSvcImp "statecu/pkg/dataset/serviceImp"

	// Workspace
	"statecu/pkg/workspace"
	wsCtrlImp "statecu/pkg/workspace/controllerImp"

	// Health
	healthCtrlImp "statecu/pkg/health/controllerImp"
)

func main() {
	// 1) Config
	cfg := config.Load()

	// 2) DB (sqlite) + automigrate
	db := database.OpenSQLite(cfg.DBPath)

	// 3) Workspace root
	ws := workspace.NewOS(cfg.DataDir)
	if err := ws.Ping(); err != nil {
		log.Fatalf("workspace: %v", err)
	}

	// 4) Echo
	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())

	// 5) Dataset service; codec status messages go to echo's logger
	dsSvc := dsSvcImp.New(dsRepoImp.New(db), dsSvcImp.Options{
		Defaults: cfg.Props(),
		Program:  cfg.ProgramName,
		Log:      e.Logger,
	})

	// 6) Router
	r := router.New(
		e,
		ws,
		cfg.RequireWorkspace,
		dsCtrlImp.New(dsSvc),
		wsCtrlImp.NewWorkspaceController(ws),
		healthCtrlImp.NewHealthCtrl(db, ws),
	)

	// 7) Start
	log.Printf("listening on :%s", cfg.Port)
	if err := r.Start(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
