package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"crmdesk/internal/record"
	"crmdesk/internal/vtiger"
)

// viewCmd renders one record as markdown for reading outside the console.
var viewCmd = &cobra.Command{
	Use:   "view [record-id]",
	Short: "Show a single record",
	Args:  cobra.ExactArgs(1),
	RunE:  runView,
}

func runView(cmd *cobra.Command, args []string) error {
	client, err := resumeClient()
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()

	rec, err := client.FetchRecord(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	out, err := r.Render(recordMarkdown(rec))
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// recordMarkdown lays a record out as a markdown document: a heading,
// a field table, and the potentials list.
func recordMarkdown(rec *vtiger.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Record %s\n\n", rec.ID)

	b.WriteString("| Field | Value |\n|---|---|\n")
	for _, fd := range rec.Fields {
		label := fd.Label
		if label == "" {
			label = fd.FieldName
		}
		if fd.Mandatory {
			label += " \\*"
		}
		value := rec.Values[fd.FieldName]
		if fd.Type == record.TypeBoolean {
			if record.ParseBool(value) {
				value = "yes"
			} else {
				value = "no"
			}
		}
		fmt.Fprintf(&b, "| %s | %s |\n", label, strings.ReplaceAll(value, "\n", " "))
	}

	b.WriteString("\n## Potentials\n\n")
	if len(rec.Potentials) == 0 {
		b.WriteString("_none_\n")
		return b.String()
	}
	for _, p := range rec.Potentials {
		fmt.Fprintf(&b, "- **%s** closing %s\n", p.Name, p.ClosingDate)
	}
	return b.String()
}
