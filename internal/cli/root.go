package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telsh/apiprobe/internal/config"
	"github.com/telsh/apiprobe/internal/loader"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "apiprobe",
		Short:   "apiprobe - browse a published API description and issue live test requests",
		Version: "1.0.0",

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	config.BindCommonFlags(root)

	root.AddCommand(EndpointsCommand())
	root.AddCommand(DescribeCommand())
	root.AddCommand(CallCommand())
	root.AddCommand(ServeCommand())

	return root
}

// loadDocument resolves configuration (runtime config overriding static
// values when reachable) and fetches the document.
func loadDocument(ctx context.Context, cmd *cobra.Command) (*loader.Result, *config.Config, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return nil, nil, err
	}

	if cfg.ConfigURL != "" {
		// Unreachable runtime configuration is not fatal.
		if rt, err := config.FetchRuntime(ctx, nil, cfg.ConfigURL); err == nil {
			cfg.ApplyRuntime(rt)
		}
	}

	result, err := loader.New(cfg.SpecURL).Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
	}

	return result, cfg, nil
}
