package services

import (
	"fmt"
	"log"
	"time"

	"github.com/lehae/lehae-api/internal/config"
	"github.com/lehae/lehae-api/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Mail         string            `json:"mail"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck probes the database and, when configured, the SMTP relay.
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Printf("Health check failed - database connection: %v", err)
	} else {
		if err := sqlDB.Ping(); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
			log.Printf("Health check failed - database ping: %v", err)
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	// Check SMTP relay reachability. Mail is best-effort in request paths,
	// so an unreachable relay degrades the status but does not fail it.
	if cfg.SMTPHost == "" {
		result.Mail = "disabled"
	} else if err := utils.PingHostPort(cfg.SMTPHost, cfg.SMTPPort, 5*time.Second); err != nil {
		result.Mail = "unreachable"
		result.Details["mail_error"] = err.Error()
		if result.Status == "healthy" {
			result.Status = "degraded"
		}
		log.Printf("Health check - SMTP relay unreachable: %v", err)
	} else {
		result.Mail = "ok"
		result.Details["mail_host"] = cfg.SMTPHost
	}

	if result.Status == "healthy" {
		log.Println("Health check passed - all systems operational")
	}

	return result
}
