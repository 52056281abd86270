package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/telsh/apiprobe/internal/example"
	"github.com/telsh/apiprobe/internal/history"
	"github.com/telsh/apiprobe/internal/model"
	"github.com/telsh/apiprobe/internal/request"
	"github.com/telsh/apiprobe/internal/security"
)

func CallCommand() *cobra.Command {
	var (
		params      []string
		bodyText    string
		bodyExample bool
		schemeName  string
		apiKey      string
		username    string
		password    string
		token       string
	)

	cmd := &cobra.Command{
		Use:   "call <method> <path>",
		Short: "Dispatch a test request against an endpoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, cfg, err := loadDocument(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			if cfg.ServiceHost == "" {
				return fmt.Errorf("service-host is required to dispatch requests")
			}

			doc := result.Document
			method := model.Method(strings.ToUpper(args[0]))
			op := doc.OperationAt(args[1], method)
			if op == nil {
				return fmt.Errorf("no operation %s %s in document", method, args[1])
			}
			endpoint := model.Endpoint{Path: args[1], Method: method, Operation: op}

			values := make(map[string]string)
			for _, kv := range params {
				name, value, found := strings.Cut(kv, "=")
				if !found {
					return fmt.Errorf("invalid parameter %q, expected name=value", kv)
				}
				values[name] = value
			}

			if bodyExample && bodyText == "" && op.RequestBody != nil {
				for _, content := range op.RequestBody.Content {
					payload, err := json.Marshal(example.Synthesize(content.Schema, doc))
					if err == nil {
						bodyText = string(payload)
					}
					break
				}
			}

			creds := security.Credentials{}
			if schemeName != "" {
				creds[schemeName] = security.Credential{
					APIKey:   apiKey,
					Username: username,
					Password: password,
					Token:    token,
				}
			}

			in := request.Input{
				Values:     values,
				BodyText:   bodyText,
				SchemeName: schemeName,
			}

			log := &history.Log{}
			entry := request.NewClient().BuildAndSend(cmd.Context(), endpoint, in, creds, doc, cfg.ServiceHost)
			log.Add(entry)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, history.FormatAsCurl(entry))

			if entry.ResponseError != "" {
				fmt.Fprintf(out, "error: %s\n", entry.ResponseError)
				return nil
			}

			fmt.Fprintf(out, "status: %d\n", entry.Response.Status)
			rendered, err := json.MarshalIndent(entry.Response.Body, "", "  ")
			if err != nil {
				fmt.Fprintf(out, "%v\n", entry.Response.Body)
				return nil
			}
			fmt.Fprintf(out, "%s\n", rendered)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Parameter value as name=value (repeatable)")
	cmd.Flags().StringVarP(&bodyText, "body", "d", "", "Raw JSON request body")
	cmd.Flags().BoolVar(&bodyExample, "body-example", false, "Synthesize the request body from the schema")
	cmd.Flags().StringVar(&schemeName, "scheme", "", "Security scheme name to authenticate with")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for apiKey schemes")
	cmd.Flags().StringVar(&username, "username", "", "Username for http basic schemes")
	cmd.Flags().StringVar(&password, "password", "", "Password for http basic schemes")
	cmd.Flags().StringVar(&token, "token", "", "Token for bearer, oauth2 and openIdConnect schemes")

	return cmd
}
