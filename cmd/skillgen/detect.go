package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skill-compiler/skillgen/internal/detect"
	"github.com/skill-compiler/skillgen/internal/errors"
	"github.com/skill-compiler/skillgen/internal/logging"
)

func newDetectCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "detect [dir]",
		Short: "Show the template type and answers inferred for a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := requireDir(dir); err != nil {
				return err
			}

			r := detect.NewDetector(logging.L()).Detect(cmd.Context(), dir)
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			}
			printDetection(cmd, r)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the full result as JSON")
	return cmd
}

func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.ValidationError(fmt.Sprintf("project directory %s: %v", dir, err))
	}
	if !info.IsDir() {
		return errors.ValidationError(fmt.Sprintf("%s is not a directory", dir))
	}
	return nil
}

func printDetection(cmd *cobra.Command, r *detect.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Type:       %s\n", r.Type)
	fmt.Fprintf(out, "Confidence: %.2f\n", r.Confidence)

	if len(r.Answers) > 0 {
		fmt.Fprintln(out, "\nAnswers:")
		keys := make([]string, 0, len(r.Answers))
		for k := range r.Answers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s\t%v\n", k, r.Answers[k])
		}
		w.Flush()
	}

	if len(r.Evidence) > 0 {
		fmt.Fprintln(out, "\nEvidence:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, e := range r.Evidence {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", e.Category, e.Source, e.String())
		}
		w.Flush()
	}

	for _, msg := range r.Warnings {
		logWarning("%s", msg)
	}
}
