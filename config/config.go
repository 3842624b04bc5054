package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"statecu/pkg/statecu"
)

type AppConfig struct {
	Port             string
	DBPath           string
	DataDir          string
	Precision        string
	Version          string
	AutoAdjust       string
	ProgramName      string
	RequireWorkspace bool
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	cfg := AppConfig{
		Port:             get("PORT", "8080"),
		DBPath:           get("DB_PATH", "statecu.db"),
		DataDir:          get("DATA_DIR", "."),
		Precision:        get("STATECU_PRECISION", "3"),
		Version:          get("STATECU_VERSION", ""),
		AutoAdjust:       get("STATECU_AUTO_ADJUST", "false"),
		ProgramName:      get("PROGRAM_NAME", "statecu"),
		RequireWorkspace: get("REQUIRE_WORKSPACE", "false") == "true",
	}
	log.Printf("[cfg] %+v", cfg)
	return cfg
}

// Props are the default output options for written files.
func (c AppConfig) Props() statecu.Props {
	p := statecu.Props{}
	p.Set(statecu.PropPrecision, c.Precision)
	p.Set(statecu.PropAutoAdjust, c.AutoAdjust)
	if c.Version != "" {
		p.Set(statecu.PropVersion, c.Version)
	}
	return p
}
