package service

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/database"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/model"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db            *sql.DB
	schedulerCron string
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB, schedulerCron string) *SystemService {
	return &SystemService{
		db:            db,
		schedulerCron: schedulerCron,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application version, the applied schema version
// and which optional features are enabled.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	dbVersion, err := database.Version(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read schema version: %w", err)
	}

	info := model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  strconv.FormatInt(dbVersion, 10),
		Features: map[string]bool{
			"schedule_regeneration": true,
			"nightly_sweep":         s.schedulerCron != "",
			"coupon_payments":       true,
		},
	}

	latest, err := database.LatestVersion()
	if err != nil {
		return model.VersionInfo{}, err
	}
	if dbVersion < latest {
		msg := fmt.Sprintf("schema at version %d, latest is %d", dbVersion, latest)
		info.MigrationNeeded = true
		info.MigrationMessage = &msg
	}
	return info, nil
}
