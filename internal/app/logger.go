package app

import (
	"fmt"

	"github.com/codewithmk180105/attendance-portal/pkg/logger"
)

// ConfigureLogging initialises the global logger from the configured level.
// A bad level fails startup instead of silently logging at info.
func ConfigureLogging(level string) error {
	if err := logger.Init(level); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	return nil
}
