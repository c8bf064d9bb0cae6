package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"chainstore/internal/adapter/location"
	"chainstore/internal/app"
	"chainstore/internal/config"
	"chainstore/internal/domain/entity"
	"chainstore/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli carries state shared by every subcommand.
type cli struct {
	configPath string
	app        *app.App
	logger     *zap.Logger
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	root := &cobra.Command{
		Use:           "chainctl",
		Short:         "Inspect and edit the stored chain context",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "configs", "directory containing config.yaml")

	root.AddCommand(
		c.listCmd(),
		c.resolveCmd(),
		c.addLocalCmd(),
		c.removeLocalCmd(),
		c.recentCmd(),
		c.urlCmd(),
	)
	return root, c
}

// close releases storage opened by the command that ran, whether or not it failed.
func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	_ = c.logger.Sync()
	err := c.app.Close()
	c.app = nil
	return err
}

func (c *cli) open(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	// The CLI only reports problems; request-level chatter stays on the server.
	if cfg.Logger.Level == "" || cfg.Logger.Level == "info" || cfg.Logger.Level == "debug" {
		cfg.Logger.Level = "warn"
	}
	cfg.Logger.Encoding = "console"

	c.logger, err = logger.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		return err
	}
	c.app, err = app.New(cmd.Context(), *cfg, c.logger)
	return err
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every stored chain by partition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := c.app.Service.Chains(cmd.Context())
			return printJSON(cmd.OutOrStdout(), map[string]map[string]entity.ChainInfo{
				"mainnets":  items.Mainnets,
				"testnets":  items.Testnets,
				"localnets": items.Localnets,
			})
		},
	}
}

func (c *cli) resolveCmd() *cobra.Command {
	var loc string
	cmd := &cobra.Command{
		Use:   "resolve [name]",
		Short: "Resolve a chain from storage, environment and a page location",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageLoc, err := location.Parse(loc)
			if err != nil {
				return fmt.Errorf("invalid --location: %w", err)
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			chain, err := c.app.Service.ResolveChain(cmd.Context(), name, pageLoc)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), chain)
		},
	}
	cmd.Flags().StringVar(&loc, "location", "/", "page path and query, e.g. /cosmoshub?gasPrice=0.1")
	return cmd
}

func (c *cli) addLocalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-local <chain.json>",
		Short: "Store a local chain read from a JSON file ('-' for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			var chain entity.ChainInfo
			if err := json.NewDecoder(r).Decode(&chain); err != nil {
				return fmt.Errorf("invalid chain JSON: %w", err)
			}
			if err := c.app.Service.AddLocalChain(cmd.Context(), chain); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored local chain %s\n", chain.RegistryName)
			return nil
		},
	}
}

func (c *cli) removeLocalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-local <name>",
		Short: "Delete a local chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Service.RemoveLocalChain(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed local chain %s\n", args[0])
			return nil
		},
	}
}

func (c *cli) recentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently used chains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chains, err := c.app.Service.RecentChains(cmd.Context())
			if err != nil {
				return err
			}
			for _, chain := range chains {
				fmt.Fprintln(cmd.OutOrStdout(), chain.RegistryName)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Mark a chain as most recently used",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Service.TouchRecentChain(cmd.Context(), args[0])
		},
	})
	return cmd
}

// setFields is a FieldSource over repeated --set key=value flags.
type setFields map[string]string

func (s setFields) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

func (c *cli) urlCmd() *cobra.Command {
	var (
		loc  string
		sets []string
	)
	cmd := &cobra.Command{
		Use:   "url <name>",
		Short: "Print the page address that shares a chain, with --set overrides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageLoc, err := location.Parse(loc)
			if err != nil {
				return fmt.Errorf("invalid --location: %w", err)
			}

			overrides := make(setFields, len(sets))
			for _, kv := range sets {
				key, value, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("invalid --set %q, want key=value", kv)
				}
				overrides[key] = value
			}

			chain, err := c.app.Service.ResolveChain(cmd.Context(), args[0], pageLoc)
			if err != nil {
				return err
			}
			chain = entity.BuildPartial(chain.RegistryName, overrides).ApplyTo(chain)

			c.app.Service.WriteChainURL(cmd.Context(), chain, pageLoc)
			fmt.Fprintln(cmd.OutOrStdout(), pageLoc.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&loc, "location", "/", "current page path and query")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field override as key=value, e.g. gasPrice=0.1")
	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
