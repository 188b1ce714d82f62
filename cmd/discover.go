package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/tars-systems/leadscout/internal/model"
	"github.com/tars-systems/leadscout/internal/pipeline"
)

var (
	discoverDescription string
	discoverLocation    string
	discoverIndustries  []string
	discoverGroup       string
	discoverTop         int
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run the lead discovery pipeline",
	Long:  "Plans search queries from the product description, discovers candidate companies in the target city, enriches them with contact and leadership data, and prints the ranked result.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if discoverDescription == "" {
			return eris.New("--description is required")
		}
		if discoverLocation == "" {
			return eris.New("--location is required")
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Run(ctx, pipeline.Request{
			ProductDescription: discoverDescription,
			Location:           discoverLocation,
			Industries:         discoverIndustries,
			GroupKey:           discoverGroup,
			TopN:               discoverTop,
		})
		if err != nil {
			return eris.Wrap(err, "discover")
		}

		if result.Status == model.StatusNoResults {
			fmt.Fprintln(os.Stderr, "No companies found for this search.")
			return nil
		}

		printLeads(os.Stdout, result.Leads)
		fmt.Printf("\n%d of %d candidates shown", len(result.Leads), len(result.All))
		if discoverGroup != "" {
			fmt.Printf("; full set saved under group %q", discoverGroup)
		}
		fmt.Println()
		return nil
	},
}

// printLeads renders ranked leads with their scores and match reasons.
func printLeads(out io.Writer, leads []model.Candidate) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tCOMPANY\tWEBSITE\tPHONE\tEMAIL\tCEO")
	for _, lead := range leads {
		ceo := "Not Available"
		if lead.CEO != nil {
			ceo = lead.CEO.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			lead.FitScore, lead.Name, lead.Website, lead.Phone, lead.Email, ceo)
	}
	w.Flush() //nolint:errcheck

	for _, lead := range leads {
		if len(lead.Reasons) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s:\n  %s\n", lead.Name, strings.Join(lead.Reasons, "\n  "))
	}
}

func init() {
	discoverCmd.Flags().StringVarP(&discoverDescription, "description", "d", "", "product description to match leads against")
	discoverCmd.Flags().StringVarP(&discoverLocation, "location", "l", "", "target city")
	discoverCmd.Flags().StringSliceVarP(&discoverIndustries, "industry", "i", nil, "explicit industry selections (override description keywords)")
	discoverCmd.Flags().StringVarP(&discoverGroup, "group", "g", "", "group key to store results under")
	discoverCmd.Flags().IntVar(&discoverTop, "top", 0, "number of leads to show (default from config)")
	rootCmd.AddCommand(discoverCmd)
}
