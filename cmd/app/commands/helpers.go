// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"

	"github.com/allisson/secretd/internal/app"
	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// parseUsageTypes converts a comma-separated string into a slice of usage
// types. An empty input yields nil, which grants access to all usage types.
func parseUsageTypes(input string) ([]secretsDomain.UsageType, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	parts := strings.Split(input, ",")
	usageTypes := make([]secretsDomain.UsageType, 0, len(parts))

	for _, part := range parts {
		usageType, err := secretsDomain.ParseUsageType(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid usage type %q: %w", strings.TrimSpace(part), err)
		}
		usageTypes = append(usageTypes, usageType)
	}

	return usageTypes, nil
}
