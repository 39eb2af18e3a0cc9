package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/triagem/triage-console/internal/format"
	"github.com/triagem/triage-console/internal/service"
)

func newPatternsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List the pattern catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := service.NewCatalogService(opts.client(), nil, 0, opts.logger())
			defs, err := catalog.Patterns(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, defs, func(style format.Style) string {
				return format.Patterns(defs, style)
			})
		},
	}
}

func newHealthCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the analysis service and the external ticketing system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			integration := service.NewIntegrationService(opts.client(), opts.logger())
			probe := integration.Probe(cmd.Context())
			if probe.Health == nil {
				return fmt.Errorf("analysis service unavailable: %s", probe.HealthError)
			}
			return render(cmd.OutOrStdout(), opts.output, probe, func(style format.Style) string {
				out := format.Health(*probe.Health, style)
				switch {
				case probe.External != nil:
					out += fmt.Sprintf("\nSistema principal: online=%s %s\n", format.Mark(probe.External.Online), probe.External.URL)
				case probe.ExternalError != "":
					out += "\nSistema principal: " + probe.ExternalError + "\n"
				}
				return out
			})
		},
	}
}

func newChamadoCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chamado <numero>",
		Short: "Show the raw chamado held by the external ticketing system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			integration := service.NewIntegrationService(opts.client(), opts.logger())
			ticket, err := integration.LookupTicket(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, ticket, func(style format.Style) string {
				keys := make([]string, 0, len(ticket.Data))
				for k := range ticket.Data {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				t := format.NewTable(style)
				t.Title("Chamado " + ticket.TicketNumero)
				t.Header("Campo", "Valor")
				t.WrapColumn(2, 80)
				for _, k := range keys {
					t.Row(k, fmt.Sprint(ticket.Data[k]))
				}
				return t.String() + "\n"
			})
		},
	}
}
