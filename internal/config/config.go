package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBDSN       string
	LogFile     string
	TemplateDir string
}

func Load() Config {
	// Local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "stallpos.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./stallpos.log"
	}
	tmpl := os.Getenv("TEMPLATE_DIR")
	if tmpl == "" {
		tmpl = "./web/templates"
	}

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, TemplateDir: tmpl}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s TEMPLATE_DIR=%s", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.TemplateDir)
	return cfg
}
