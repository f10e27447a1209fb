package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/secretd/cmd/app/commands"
	"github.com/allisson/secretd/internal/app"
	"github.com/allisson/secretd/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-client",
			Usage: "Create a new authentication client",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable client name",
				},
				&cli.BoolFlag{
					Name:    "active",
					Aliases: []string{"a"},
					Value:   true,
					Usage:   "Whether the client can authenticate immediately",
				},
				&cli.StringFlag{
					Name:    "usage-types",
					Aliases: []string{"u"},
					Usage:   "Comma-separated usage types the client may touch (omit for all)",
				},
				&cli.BoolFlag{
					Name:  "read-only",
					Usage: "Deny mutating operations for this client",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				clientUseCase, err := container.ClientUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateClient(
					ctx,
					clientUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("name"),
					cmd.Bool("active"),
					cmd.String("usage-types"),
					cmd.Bool("read-only"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "deactivate-client",
			Usage: "Deactivate a client so it can no longer authenticate",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Client ID (UUID)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				clientUseCase, err := container.ClientUseCase()
				if err != nil {
					return err
				}

				return commands.RunDeactivateClient(
					ctx,
					clientUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
				)
			},
		},
		{
			Name:  "unlock-client",
			Usage: "Clear a client's failed-authentication lockout",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Client ID (UUID)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				clientUseCase, err := container.ClientUseCase()
				if err != nil {
					return err
				}

				return commands.RunUnlockClient(
					ctx,
					clientUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
				)
			},
		},
	}
}
