package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telsh/apiprobe/internal/security"
)

func EndpointsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the document's endpoints in stable order",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, _, err := loadDocument(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			doc := result.Document
			for _, ep := range doc.Endpoints() {
				locked := ""
				if security.RequiresSecurity(ep.Operation, doc) {
					locked = " [auth]"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-7s %s%s\n", ep.Method, ep.Path, locked)
				if ep.Operation.Summary != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "        %s\n", ep.Operation.Summary)
				}
			}
			return nil
		},
	}
}
