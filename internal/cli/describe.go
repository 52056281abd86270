package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/telsh/apiprobe/internal/display"
	"github.com/telsh/apiprobe/internal/example"
	"github.com/telsh/apiprobe/internal/model"
	"github.com/telsh/apiprobe/internal/security"
)

func DescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <method> <path>",
		Short: "Show an endpoint's parameters, schemas and example payload",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, _, err := loadDocument(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			doc := result.Document
			method := model.Method(strings.ToUpper(args[0]))
			op := doc.OperationAt(args[1], method)
			if op == nil {
				return fmt.Errorf("no operation %s %s in document", method, args[1])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", method, args[1])
			if op.Summary != "" {
				fmt.Fprintln(out, op.Summary)
			}

			if len(op.Parameters) > 0 {
				fmt.Fprintln(out, "\nParameters:")
				for _, p := range op.Parameters {
					required := ""
					if p.Required {
						required = " (required)"
					}
					fmt.Fprintf(out, "  %s in %s%s\n", p.Name, p.In, required)
				}
			}

			if op.RequestBody != nil {
				for _, content := range op.RequestBody.Content {
					fmt.Fprintf(out, "\nRequest body (%s):\n", content.MediaType)
					fmt.Fprintln(out, indent(display.Format(content.Schema, doc), "  "))

					payload, err := json.MarshalIndent(example.Synthesize(content.Schema, doc), "", "  ")
					if err == nil {
						fmt.Fprintln(out, "\nExample payload:")
						fmt.Fprintln(out, indent(string(payload), "  "))
					}
					break
				}
			}

			for _, resp := range op.Responses {
				for _, content := range resp.Content {
					fmt.Fprintf(out, "\nResponse %s (%s):\n", resp.StatusCode, content.MediaType)
					fmt.Fprintln(out, indent(display.Format(content.Schema, doc), "  "))
					break
				}
			}

			if schemes := security.AvailableSchemes(op, doc); len(schemes) > 0 {
				fmt.Fprintln(out, "\nSecurity schemes:")
				for _, binding := range schemes {
					kind := "undeclared"
					if binding.Scheme != nil {
						kind = string(binding.Scheme.Type)
					}
					fmt.Fprintf(out, "  %s (%s)\n", binding.Name, kind)
				}
			}

			return nil
		},
	}
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
