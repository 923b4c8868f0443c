package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535] (got %d)", c.Server.Port)
	}

	if err := c.Schedule.validate(); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}

	return nil
}

func (s *ScheduleConfig) validate() error {
	if s.OverloadThreshold <= 0 {
		return fmt.Errorf("overload_threshold must be > 0 (got %d)", s.OverloadThreshold)
	}
	if s.RescheduleTimeout <= 0 {
		return fmt.Errorf("reschedule_timeout must be > 0 (got %v)", s.RescheduleTimeout)
	}
	if s.MaxWindowDays <= 0 {
		return fmt.Errorf("max_window_days must be > 0 (got %d)", s.MaxWindowDays)
	}
	if s.MaxOccurrences <= 0 {
		return fmt.Errorf("max_occurrences must be > 0 (got %d)", s.MaxOccurrences)
	}
	if s.ExportMaxItems <= 0 {
		return fmt.Errorf("export_max_items must be > 0 (got %d)", s.ExportMaxItems)
	}
	return nil
}
