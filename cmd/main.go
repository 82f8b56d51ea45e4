package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	obsws "github.com/xdimtech/go-obsws/handler/obs"
	"github.com/xdimtech/go-obsws/pkg/config"
	"github.com/xdimtech/go-obsws/pkg/log"
	obsapi "github.com/xdimtech/go-obsws/pkg/protocol/obs"
)

const appName = "obsctl"

var (
	configFile string
	address    string
	password   string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Control OBS Studio over obs-websocket 5.x",
	Long: `obsctl talks to OBS Studio through the obs-websocket 5.x protocol.

Configuration is read from obsws.yaml in ./conf or the working directory,
or from the file given with --config. OBS_ADDRESS, OBS_PASSWORD and the
other OBS_* / LOG_* environment variables override file values.`,
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&address, "address", "", "obs-websocket address, e.g. ws://localhost:4455")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "obs-websocket password")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
}

// loadConfig applies command line flags over the loaded configuration.
func loadConfig() (*config.Conf, zerolog.Logger, error) {
	conf, err := config.Load(configFile)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	if address != "" {
		conf.OBS.Address = address
	}
	if password != "" {
		conf.OBS.Password = password
	}
	if logLevel != "" {
		conf.Log.Level = logLevel
	}
	return conf, log.New(appName, conf.Log), nil
}

func newController(conf *config.Conf, logger zerolog.Logger) *obsws.Controller {
	ops := []obsws.Option{
		obsws.WithLogger(logger),
		obsws.WithConnectTimeout(conf.OBS.ConnectTimeout),
		obsws.WithRequestTimeout(conf.OBS.RequestTimeout),
		obsws.WithRPCVersion(conf.OBS.RPCVersion),
	}
	if conf.OBS.EventSubscriptions != 0 {
		ops = append(ops, obsws.WithEventSubscriptions(obsapi.EventSubscription(conf.OBS.EventSubscriptions)))
	}
	return obsws.NewController(ops...)
}

// withController connects, runs fn and disconnects.
func withController(cmd *cobra.Command, setup func(c *obsws.Controller), fn func(ctx context.Context, c *obsws.Controller) error) error {
	conf, logger, err := loadConfig()
	if err != nil {
		return err
	}
	c := newController(conf, logger)
	if setup != nil {
		setup(c)
	}

	ctx := cmd.Context()
	if err := c.Connect(ctx, conf.OBS.Address, conf.OBS.Password); err != nil {
		return err
	}
	defer c.Disconnect()
	return fn(ctx, c)
}
