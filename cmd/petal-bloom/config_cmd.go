package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/petal-bloom/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change saved settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.resolvedConfigPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every saved setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Load(a.resolvedConfigPath)
			if err != nil {
				return err
			}
			for _, key := range config.Keys() {
				v, _ := s.Get(key)
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", accentStyle.Render(key), v)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one saved setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Load(a.resolvedConfigPath)
			if err != nil {
				return err
			}
			v, err := s.Get(args[0])
			if err != nil {
				return unknownKeyHint(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one saved setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags are not persisted, only the file content and the new value
			s, err := config.Load(a.resolvedConfigPath)
			if err != nil {
				return err
			}
			if err := s.Set(args[0], args[1]); err != nil {
				return unknownKeyHint(err)
			}
			if err := config.Save(a.resolvedConfigPath, s); err != nil {
				return err
			}
			v, _ := s.Get(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", accentStyle.Render(args[0]), v)
			return nil
		},
	})

	return cmd
}

func unknownKeyHint(err error) error {
	if errors.Is(err, config.ErrUnknownKey) {
		return fmt.Errorf("%w\n\nRun 'petal-bloom config list' to see settings", err)
	}
	return err
}
