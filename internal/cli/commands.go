package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/mindr/internal/config"
	"github.com/sandeepkv93/mindr/internal/model"
	"github.com/sandeepkv93/mindr/internal/views"
)

func listCmd(opts *options) *cobra.Command {
	var doneOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the todo list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			store, repo, err := opts.openStore(ctx, cfg, opts.logger)
			if err != nil {
				return err
			}
			defer repo.Close()

			records := store.Records()
			if doneOnly {
				records = store.Done(true)
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				_, _ = fmt.Fprintln(out, "nothing to do")
				return nil
			}
			for _, rec := range records {
				row := views.Style(views.FormatRow(rec.Description), cfg.SelectionStyle, false, rec.Status == model.StatusDone, "")
				_, _ = fmt.Fprintf(out, "%3d %s\n", rec.ID, row)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&doneOnly, "done", false, "only completed items")
	return cmd
}

func addCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <description...>",
		Short: "Add an item without opening the interface",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			store, repo, err := opts.openStore(ctx, cfg, opts.logger)
			if err != nil {
				return err
			}
			defer repo.Close()

			before := store.Len()
			if err := store.Add(ctx, strings.Join(args, " ")); err != nil {
				return err
			}
			if store.Len() == before {
				return errors.New("description is empty")
			}
			added := store.Records()[store.Len()-1]
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %d: %s\n", added.ID, added.Description)
			return nil
		},
	}
}

func configCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			todoPath, err := cfg.TodoPath()
			if err != nil {
				return err
			}
			bold := color.New(color.Bold)

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold.Sprint("Section"), bold.Sprint("Key"), bold.Sprint("Value"))
			for _, e := range cfg.Entries() {
				tbl.AddRow(e.Section, e.Key, e.Value)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "config: %s\ntodo list: %s\n\n", cfg.File, todoPath)
			_, _ = fmt.Fprintln(out, tbl)
			return nil
		},
	}
	cmd.AddCommand(configInitCmd(opts))
	return cmd
}

func configInitCmd(opts *options) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite it", path)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
