package main

import (
	"github.com/spf13/cobra"

	"github.com/triagem/triage-console/internal/format"
	"github.com/triagem/triage-console/internal/service"
	"github.com/triagem/triage-console/internal/viewmodel"
)

func newDashboardCmd(opts *cliOptions) *cobra.Command {
	var (
		q        service.DashboardQuery
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show triage statistics and the latest history page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := service.NewDashboardService(opts.client(), nil, opts.logger(), service.DashboardOptions{HistoryPageSize: pageSize})
			data, err := svc.Load(cmd.Context(), q)
			if err != nil {
				return err
			}
			vm := viewmodel.BuildDashboard(*data)
			return render(cmd.OutOrStdout(), opts.output, vm, func(style format.Style) string {
				return format.Dashboard(vm, style)
			})
		},
	}
	f := cmd.Flags()
	f.IntVarP(&q.PeriodDays, "dias", "d", service.DefaultPeriodDays, "Period in days")
	f.StringVar(&q.Categoria, "categoria", "", "Restrict statistics to one category")
	f.StringVarP(&q.Modulo, "modulo", "m", "", "Restrict history to one module")
	f.IntVar(&pageSize, "por-pagina", service.DefaultHistoryPageSize, "History entries to show")
	return cmd
}
