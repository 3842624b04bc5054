package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"statecu/pkg/workspace"
)

var appStart = time.Now()

type HealthCtrl struct {
	db *gorm.DB
	ws *workspace.Resolver
}

func NewHealthCtrl(db *gorm.DB, ws *workspace.Resolver) *HealthCtrl {
	return &HealthCtrl{db: db, ws: ws}
}

type sub struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := sub{OK: true}
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			db = sub{Err: "db.DB(): " + err.Error()}
		} else if err := sqlDB.PingContext(ctx); err != nil {
			db = sub{Err: "ping: " + err.Error()}
		}
	} else {
		db = sub{Err: "gorm db is nil"}
	}

	ws := sub{OK: true}
	if h.ws == nil {
		ws = sub{Err: "workspace resolver is nil"}
	} else if err := h.ws.Ping(); err != nil {
		ws = sub{Err: err.Error()}
	}

	allOK := db.OK && ws.OK
	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}

	resp := map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database":  db,
			"workspace": ws,
		},
		"time": time.Now().Format(time.RFC3339),
	}

	return c.JSON(status, resp)
}
