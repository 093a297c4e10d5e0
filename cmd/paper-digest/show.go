package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var showCmd = &cobra.Command{
	Use:   "show <arxiv-id>",
	Short: "Show one paper with its abstract and summaries",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Bool("yaml", false, "output the full record as YAML")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	detail, err := st.PaperDetail(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		data, err := yaml.Marshal(detail)
		if err != nil {
			return fmt.Errorf("marshaling paper: %w", err)
		}
		fmt.Fprint(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "%s\n%s\n\n", detail.Paper.Title, detail.Paper.EntryURL)
	fmt.Fprintf(out, "Published:  %s\n", detail.Paper.Published.Format("Jan 2, 2006"))
	fmt.Fprintf(out, "Authors:    %s\n", strings.Join(detail.Authors, ", "))
	fmt.Fprintf(out, "Categories: %s\n", strings.Join(detail.Categories, ", "))
	if detail.Extraction != nil {
		fmt.Fprintf(out, "Extraction: %s\n", *detail.Extraction)
	}

	fmt.Fprintf(out, "\nAbstract\n  %s\n", detail.Abstract)

	if detail.Summary == nil {
		fmt.Fprintf(out, "\nSummary\n  %s\n", summaryPlaceholder)
		return nil
	}
	fmt.Fprintf(out, "\nBrief summary\n  %s\n", detail.Summary.Brief)
	fmt.Fprintf(out, "\nExtended summary\n  %s\n", detail.Summary.Extended)
	return nil
}
