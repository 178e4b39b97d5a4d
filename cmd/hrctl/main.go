package main

import (
	"context"
	"errors"
	"os"

	"github.com/ogurasousui/hrcore/internal/app"
	"github.com/ogurasousui/hrcore/internal/platform/config"
	"github.com/ogurasousui/hrcore/internal/platform/logging"
	"github.com/spf13/cobra"
)

type opener func(ctx context.Context, configPath string) (*app.App, error)

func openApp(ctx context.Context, configPath string) (*app.App, error) {
	cfg, err := config.Load(config.EffectivePath(configPath))
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, logger)
}

type cli struct {
	open       opener
	configPath string
	app        *app.App
}

func (c *cli) application(cmd *cobra.Command) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := c.open(cmd.Context(), c.configPath)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

func newCLI(open opener) *cli {
	return &cli{open: open}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hrctl",
		Short:        "employee and company structure management",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")

	root.AddCommand(newEmployeesCmd(c), newStructureCmd(c), newTrainingsCmd(c))
	return root
}

// execute はコマンドを実行し、成否にかかわらず開いた接続を閉じます。
func (c *cli) execute(ctx context.Context, args []string) error {
	root := c.rootCmd()
	if args != nil {
		root.SetArgs(args)
	}
	err := root.ExecuteContext(ctx)
	return errors.Join(err, c.close())
}

func main() {
	if err := newCLI(openApp).execute(context.Background(), nil); err != nil {
		os.Exit(1)
	}
}
