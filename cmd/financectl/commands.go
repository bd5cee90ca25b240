package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/urfave/cli/v3"

	"github.com/mmynk/financery/internal/auth"
	"github.com/mmynk/financery/internal/config"
	"github.com/mmynk/financery/pkg/api"
)

func serverFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "base URL of the financery server",
		Value:   "http://localhost:8080",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("FINANCERY_SERVER_URL"),
		),
	}
}

func tokenFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "token",
		Aliases: []string{"t"},
		Usage:   "admin bearer token; minted from admin.secret when empty",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("FINANCERY_ADMIN_TOKEN"),
		),
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "mint an admin token signed with admin.secret",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "subject",
				Usage: "operator name recorded in the token",
				Value: "operator",
			},
			&cli.StringFlag{
				Name:  "role",
				Usage: "role claim",
				Value: auth.RoleAdmin,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			token, err := mintToken(cmd.String("subject"), cmd.String("role"))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.Root().Writer, token)
			return nil
		},
	}
}

func clearCacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear-cache",
		Usage: "drop cached transaction lists, for one user or all",
		Flags: []cli.Flag{
			serverFlag(),
			tokenFlag(),
			&cli.StringFlag{
				Name:  "user",
				Usage: "user ID; clears every user when empty",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := authOptions(cmd)
			if err != nil {
				return err
			}
			base := cmd.String("server")

			if userID := cmd.String("user"); userID != "" {
				client := api.NewClient[api.ClearCacheForUserRequest, api.Empty](
					http.DefaultClient, base, api.AdminServiceClearCacheForUserProcedure, opts...)
				if _, err := client.CallUnary(ctx, connect.NewRequest(&api.ClearCacheForUserRequest{UserID: userID})); err != nil {
					return fmt.Errorf("clear cache for %s: %w", userID, err)
				}
				slog.Info("User cache cleared", "user_id", userID)
				return nil
			}

			client := api.NewClient[api.ClearCacheRequest, api.Empty](
				http.DefaultClient, base, api.AdminServiceClearCacheProcedure, opts...)
			if _, err := client.CallUnary(ctx, connect.NewRequest(&api.ClearCacheRequest{})); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			slog.Info("Cache cleared")
			return nil
		},
	}
}

func cachedUsersCommand() *cli.Command {
	return &cli.Command{
		Name:  "cached-users",
		Usage: "list users whose transactions are cached, most recent first",
		Flags: []cli.Flag{serverFlag(), tokenFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := authOptions(cmd)
			if err != nil {
				return err
			}
			client := api.NewClient[api.ListCachedUsersRequest, api.ListCachedUsersResponse](
				http.DefaultClient, cmd.String("server"), api.AdminServiceListCachedUsersProcedure, opts...)
			resp, err := client.CallUnary(ctx, connect.NewRequest(&api.ListCachedUsersRequest{}))
			if err != nil {
				return fmt.Errorf("list cached users: %w", err)
			}
			for _, id := range resp.Msg.UserIDs {
				fmt.Fprintln(cmd.Root().Writer, id)
			}
			return nil
		},
	}
}

// authOptions attaches the bearer token to every call.
func authOptions(cmd *cli.Command) ([]connect.ClientOption, error) {
	token := cmd.String("token")
	if token == "" {
		var err error
		if token, err = mintToken("financectl", auth.RoleAdmin); err != nil {
			return nil, err
		}
	}
	return []connect.ClientOption{connect.WithInterceptors(bearer(token))}, nil
}

func bearer(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}
}

func mintToken(subject, role string) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	if !cfg.Admin.Enabled() {
		return "", fmt.Errorf("admin.secret is not configured")
	}
	m := auth.NewJWTManager(cfg.Admin.Secret, cfg.Admin.Issuer, cfg.Admin.TokenTTL)
	return m.Generate(subject, role)
}
