package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/telsh/apiprobe/internal/config"
	"github.com/telsh/apiprobe/internal/server"
)

func ServeCommand() *cobra.Command {
	var staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document, runtime configuration and entry page",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, cfg, err := loadDocument(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			srv := &server.Server{
				Document: result.RawData,
				Runtime: &config.Runtime{
					ServiceHost:    cfg.ServiceHost,
					OpenAPISpecURL: cfg.SpecURL,
				},
				StaticDir: staticDir,
			}

			mux := http.NewServeMux()
			srv.Mount(mux, cfg.PathPrefix)

			prefix := server.NormalizePrefix(cfg.PathPrefix)
			fmt.Fprintf(cmd.OutOrStdout(), "serving %q on %s (prefix %s)\n", result.Document.Info.Title, cfg.Listen, prefix)
			return http.ListenAndServe(cfg.Listen, mux)
		},
	}

	cmd.Flags().StringVar(&staticDir, "static-dir", "", "Directory holding the client bundle")

	return cmd
}
