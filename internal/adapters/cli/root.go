// Package cli is the consultctl command tree.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/ports"
)

// Deps are the services the commands run against. Generated files are saved
// to Outputs under their own name.
type Deps struct {
	Convention ports.ConventionService
	Coverage   ports.CoverageCopyService
	Risk       ports.RiskService
	Outputs    ports.ObjectStorage
}

func NewRootCommand(d Deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "consultctl",
		Short:         "Insurance consulting toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newConventionCommand(d),
		newCoverageCommand(d),
		newRiskCommand(d),
	)
	return root
}

func newConventionCommand(d Deps) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "convention <contracts.xlsx>",
		Short: "Convert contract performance and write the per-collector workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if asJSON {
				view, err := d.Convention.Analyze(cmd.Context(), args[0], f)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), view)
			}
			out, view, err := d.Convention.Report(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			for _, w := range view.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}
			return save(cmd, d.Outputs, out)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON instead of writing a workbook")
	return cmd
}

func newCoverageCommand(d Deps) *cobra.Command {
	var (
		template   string
		start, end int
	)
	cmd := &cobra.Command{
		Use:   "coverage <consulting.xlsx>",
		Short: "Copy a consulting workbook into the print template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer src.Close()

			var (
				tpl io.Reader
				rng *domain.CopyRange
			)
			if template != "" {
				f, err := os.Open(template)
				if err != nil {
					return err
				}
				defer f.Close()
				tpl = f
			}
			startSet, endSet := cmd.Flags().Changed("start"), cmd.Flags().Changed("end")
			if startSet != endSet {
				return fmt.Errorf("--start and --end must be given together")
			}
			if startSet {
				rng = &domain.CopyRange{Start: start, End: end}
			}

			out, err := d.Coverage.Copy(cmd.Context(), "", src, tpl, rng)
			if err != nil {
				return err
			}
			return save(cmd, d.Outputs, out)
		},
	}
	cmd.Flags().StringVar(&template, "template", "", "print template workbook; the built-in form is used when empty")
	cmd.Flags().IntVar(&start, "start", 0, "first source column to copy (requires --template)")
	cmd.Flags().IntVar(&end, "end", 0, "last source column to copy (requires --template)")
	return cmd
}

func newRiskCommand(d Deps) *cobra.Command {
	var (
		profile domain.RiskProfile
		csvOut  bool
	)
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Score cancer, cerebrovascular and heart disease risk for a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if csvOut {
				out, err := d.Risk.ReportCSV(cmd.Context(), "", profile)
				if err != nil {
					return err
				}
				return save(cmd, d.Outputs, out)
			}
			rep, err := d.Risk.Analyze(cmd.Context(), "", profile)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rep)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&profile.AgeBand, "age-band", "", "age band, e.g. 40대")
	fl.StringVar(&profile.Sex, "sex", "", "남 or 여")
	fl.StringVar(&profile.Smoking, "smoking", "", "smoking status")
	fl.StringVar(&profile.Drinking, "drinking", "", "drinking status")
	fl.StringVar(&profile.Family, "family-history", "", "family history")
	fl.StringVar(&profile.Job, "job", "", "occupation")
	fl.StringVar(&profile.Exercise, "exercise", "", "exercise habit")
	fl.StringSliceVar(&profile.Conditions, "condition", nil, "underlying condition (repeatable)")
	fl.BoolVar(&csvOut, "csv", false, "write the CSV report instead of printing JSON")
	_ = cmd.MarkFlagRequired("age-band")
	_ = cmd.MarkFlagRequired("sex")
	return cmd
}

func save(cmd *cobra.Command, outputs ports.ObjectStorage, f *domain.GeneratedFile) error {
	if err := outputs.Save(cmd.Context(), f.Name, bytes.NewReader(f.Data)); err != nil {
		return fmt.Errorf("save %s: %w", f.Name, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), f.Name)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
