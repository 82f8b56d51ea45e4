package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xdimtech/go-obsws/handler"
	obsws "github.com/xdimtech/go-obsws/handler/obs"
	obsapi "github.com/xdimtech/go-obsws/pkg/protocol/obs"
	"github.com/xdimtech/go-obsws/pkg/protocol/obs/events"
	"github.com/xdimtech/go-obsws/pkg/protocol/obs/requests"
	"github.com/xdimtech/go-obsws/pkg/utils"
)

var mockAddr string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show OBS and obs-websocket versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, nil, func(ctx context.Context, c *obsws.Controller) error {
			v, err := obsws.Build(c, &requests.GetVersion{}).Complete(ctx)
			if err != nil {
				return err
			}
			fmt.Println(utils.MustToIndentJSON(v))
			return nil
		})
	},
}

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List scenes, marking the program scene with *",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, nil, func(ctx context.Context, c *obsws.Controller) error {
			list, err := obsws.Build(c, &requests.GetSceneList{}).Complete(ctx)
			if err != nil {
				return err
			}
			for _, name := range list.SceneNames() {
				mark := " "
				if name == list.CurrentProgramSceneName {
					mark = "*"
				}
				fmt.Printf("%s %s\n", mark, name)
			}
			return nil
		})
	},
}

var switchCmd = &cobra.Command{
	Use:   "switch <scene>",
	Short: "Make a scene the program scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, nil, func(ctx context.Context, c *obsws.Controller) error {
			_, err := obsws.Build(c, &requests.SetCurrentProgramScene{SceneName: args[0]}).Complete(ctx)
			return err
		})
	},
}

// outputCmd builds the start/stop/status tree for an output such as
// recording or streaming.
func outputCmd(use, short string,
	start, stop func(c *obsws.Controller) *obsws.Call[*requests.EmptyRequest],
	status func(ctx context.Context, c *obsws.Controller) (bool, error),
) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short}
	run := func(fn func(c *obsws.Controller) *obsws.Call[*requests.EmptyRequest]) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return withController(cmd, nil, func(ctx context.Context, c *obsws.Controller) error {
				_, err := fn(c).Complete(ctx)
				return err
			})
		}
	}
	cmd.AddCommand(
		&cobra.Command{Use: "start", Short: "Start " + use, Args: cobra.NoArgs, RunE: run(start)},
		&cobra.Command{Use: "stop", Short: "Stop " + use, Args: cobra.NoArgs, RunE: run(stop)},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether " + use + " is active",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withController(cmd, nil, func(ctx context.Context, c *obsws.Controller) error {
					active, err := status(ctx, c)
					if err != nil {
						return err
					}
					fmt.Println(map[bool]string{true: "active", false: "inactive"}[active])
					return nil
				})
			},
		},
	)
	return cmd
}

var recordCmd = outputCmd("record", "Control recording",
	(*obsws.Controller).StartRecord, (*obsws.Controller).StopRecord,
	func(ctx context.Context, c *obsws.Controller) (bool, error) {
		s, err := obsws.Build(c, &requests.GetRecordStatus{}).Complete(ctx)
		if err != nil {
			return false, err
		}
		return s.OutputActive, nil
	})

var streamCmd = outputCmd("stream", "Control streaming",
	(*obsws.Controller).StartStream, (*obsws.Controller).StopStream,
	func(ctx context.Context, c *obsws.Controller) (bool, error) {
		s, err := obsws.Build(c, &requests.GetStreamStatus{}).Complete(ctx)
		if err != nil {
			return false, err
		}
		return s.OutputActive, nil
	})

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print scene and output events until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dropped := make(chan string, 1)
		show := func(_ context.Context, ev obsapi.EventSchema) {
			fmt.Printf("%s %s\n", ev.EventType(), utils.MustToJSON(ev))
		}
		setup := func(c *obsws.Controller) {
			c.RegisterEvent(&events.CurrentProgramSceneChanged{}, show).
				RegisterEvent(&events.SceneTransitionEnded{}, show).
				RegisterEvent(&events.RecordStateChanged{}, show).
				RegisterEvent(&events.StreamStateChanged{}, show).
				RegisterDisconnectHandler(func(_ context.Context, reason string) {
					dropped <- reason
				})
		}
		return withController(cmd, setup, func(ctx context.Context, c *obsws.Controller) error {
			fmt.Fprintln(os.Stderr, "watching, press Ctrl+C to stop")
			select {
			case <-ctx.Done():
				return nil
			case reason := <-dropped:
				return fmt.Errorf("%s", reason)
			}
		})
	},
}

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run an in-memory obs-websocket server for testing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if mockAddr != "" {
			conf.Mock.Addr = mockAddr
		}
		server := handler.NewStudio().Install(handler.NewMockServer(
			handler.WithLogger(logger),
			handler.WithPassword(conf.Mock.Password),
		))
		return server.Start(conf.Mock.Addr)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, scenesCmd, switchCmd, recordCmd, streamCmd, watchCmd, mockCmd)
	mockCmd.Flags().StringVar(&mockAddr, "addr", "", "Listen address (default from mock.addr)")
}
