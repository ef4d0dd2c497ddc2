package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain/report"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/service"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:       "report [top-medications|top-patients|patient-totals]",
		Short:     "Print a prescribing report",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"top-medications", "top-patients", "patient-totals"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer rt.close()

			svc := service.NewReportService(repository.NewReportRepository(rt.db), rt.cfg.Report.TopN, nil, rt.log)
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch args[0] {
			case "top-medications":
				rows, err := svc.TopMedications(ctx, n)
				if err != nil {
					return err
				}
				return writeRanking(out, "MEDICATION", rows)
			case "top-patients":
				rows, err := svc.TopPatients(ctx, n)
				if err != nil {
					return err
				}
				return writeRanking(out, "PATIENT", rows)
			default:
				rows, err := svc.TotalsPerPatient(ctx)
				if err != nil {
					return err
				}
				return writeTotals(out, rows)
			}
		},
	}
	cmd.Flags().IntVarP(&n, "top", "n", 0, "ranking size (defaults to REPORT_TOP_N)")
	return cmd
}

func writeRanking(out io.Writer, label string, rows []report.RankingEntry) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\tITEMS\n", label)
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", r.ID, r.Name, r.Count)
	}
	return tw.Flush()
}

func writeTotals(out io.Writer, rows []report.PatientTotal) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATIENT\tITEMS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", r.PatientID, r.PatientName, r.Total)
	}
	return tw.Flush()
}
