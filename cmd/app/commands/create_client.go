package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authDomain "github.com/allisson/secretd/internal/auth/domain"
	authUseCase "github.com/allisson/secretd/internal/auth/usecase"
)

// RunCreateClient creates a new authentication client. The usage type list
// scopes which secrets the client can touch; an empty list grants access to
// all usage types. Outputs the client ID and plain secret in either text or
// JSON format.
//
// Requirements: database must be migrated and accessible.
func RunCreateClient(
	ctx context.Context,
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	isActive bool,
	usageTypesStr string,
	readOnly bool,
	format string,
) error {
	logger.Info("creating new client", slog.String("name", name))

	usageTypes, err := parseUsageTypes(usageTypesStr)
	if err != nil {
		return err
	}

	input := &authDomain.CreateClientInput{
		Name:       name,
		IsActive:   isActive,
		UsageTypes: usageTypes,
		ReadOnly:   readOnly,
	}

	output, err := clientUseCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	if format == "json" {
		outputJSON(output, writer)
	} else {
		outputText(output, writer)
	}

	logger.Info("client created successfully",
		slog.String("client_id", output.ID.String()),
		slog.String("name", name),
		slog.Bool("is_active", isActive),
		slog.Bool("read_only", readOnly),
	)

	return nil
}

// outputText outputs the result in human-readable text format.
func outputText(output *authDomain.CreateClientOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nClient created successfully!")
	_, _ = fmt.Fprintf(writer, "Client ID: %s\n", output.ID.String())
	_, _ = fmt.Fprintf(writer, "Secret: %s\n", output.PlainSecret)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The secret is shown only once. Store it securely.")
}

// outputJSON outputs the result in JSON format for machine consumption.
func outputJSON(output *authDomain.CreateClientOutput, writer io.Writer) {
	result := map[string]string{
		"client_id": output.ID.String(),
		"secret":    output.PlainSecret,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(writer, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
