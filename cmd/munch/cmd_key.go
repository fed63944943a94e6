package main

import (
	"context"
	"fmt"

	"munch/internal/keystore"

	"github.com/spf13/cobra"
)

// keyCmd manages the API key sent with every restaurant request.
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the OpenAI API key sent to the restaurant API",
}

var keySetCmd = &cobra.Command{
	Use:   "set [value]",
	Short: "Store the API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, s *keystore.Store) error {
			if err := s.Set(ctx, keystore.APIKeyName, args[0]); err != nil {
				return fmt.Errorf("failed to save key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key saved to %s\n", s.Path())
			return nil
		})
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored API key (masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, s *keystore.Store) error {
			v, err := s.Get(ctx, keystore.APIKeyName)
			if err != nil {
				return fmt.Errorf("failed to read key: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), keystore.Mask(v))
			return nil
		})
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, s *keystore.Store) error {
			if err := s.Delete(ctx, keystore.APIKeyName); err != nil {
				return fmt.Errorf("failed to clear key: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key cleared")
			return nil
		})
	},
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyShowCmd)
	keyCmd.AddCommand(keyClearCmd)
}

func withStore(cmd *cobra.Command, fn func(ctx context.Context, s *keystore.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := keystore.Open(cfg.StorePath())
	if err != nil {
		return fmt.Errorf("open key store: %w", err)
	}
	defer s.Close()
	return fn(ctx, s)
}
