package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/candidate"
	"github.com/spigell/interview-coach/internal/report"
	"github.com/spigell/interview-coach/internal/storage"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Browse stored interview results",
}

var candidatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidates, best score first",
	Run: func(cmd *cobra.Command, _ []string) {
		listCandidates(cmd)
	},
}

var candidatesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a candidate record; without an id a picker is shown",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		showCandidate(args)
	},
}

var candidatesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export statistics and candidates to an Excel workbook",
	Run: func(cmd *cobra.Command, _ []string) {
		exportCandidates(cmd)
	},
}

func init() {
	rootCmd.AddCommand(candidatesCmd)
	candidatesCmd.AddCommand(candidatesListCmd, candidatesShowCmd, candidatesExportCmd)

	for _, c := range []*cobra.Command{candidatesListCmd, candidatesExportCmd} {
		c.Flags().StringP("status", "s", "", "only candidates with this status (pending-info, in-progress, completed)")
		c.Flags().IntP("min-score", "m", -1, "only candidates with at least this final score")
		c.Flags().StringP("query", "q", "", "search in name, email and skills")
	}
	candidatesExportCmd.Flags().StringP("output", "o", "", "workbook path (default is interview-report-<date>.xlsx)")
}

func openStore(command string) (*zap.Logger, *storage.FileStore) {
	logger, config := setup(command)
	return logger, storage.NewFileStore(config.StoreFile, logger)
}

func queryFromFlags(cmd *cobra.Command) report.Query {
	status, _ := cmd.Flags().GetString("status")
	minScore, _ := cmd.Flags().GetInt("min-score")
	search, _ := cmd.Flags().GetString("query")

	return report.Query{
		Status:   candidate.Status(strings.TrimSpace(status)),
		MinScore: minScore,
		Search:   search,
	}
}

// selectCandidates loads the records and runs the requested filters.
func selectCandidates(ctx context.Context, cmd *cobra.Command, logger *zap.Logger, store *storage.FileStore) ([]*candidate.Candidate, error) {
	list, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered, err := report.Run(ctx, report.Deps{Logger: logger}, report.Filters(queryFromFlags(cmd)), list)
	if err != nil {
		return nil, err
	}
	report.Sort(filtered)
	return filtered, nil
}

func listCandidates(cmd *cobra.Command) {
	ctx := context.Background()
	logger, store := openStore("candidates list")

	list, err := selectCandidates(ctx, cmd, logger, store)
	if err != nil {
		logger.Fatal("listing candidates", zap.Error(err))
	}

	logger.Info("current list of candidates", zap.Int("count", len(list)))
	writeTable(os.Stdout, list)
}

func writeTable(w io.Writer, list []*candidate.Candidate) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tSTATUS\tSCORE\tLEVEL\tCREATED")
	for _, c := range list {
		score := "-"
		if c.FinalScore != nil {
			score = fmt.Sprint(*c.FinalScore)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, orDefault(c.Name, "-"), orDefault(c.Email, "-"), c.Status, score,
			orDefault(c.RecommendedLevel, "-"), c.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func showCandidate(args []string) {
	ctx := context.Background()
	logger, store := openStore("candidates show")

	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		picked, err := pickCandidate(ctx, store)
		if err != nil {
			logger.Fatal("choosing a candidate", zap.Error(err))
		}
		id = picked
	}

	c, err := store.Get(ctx, id)
	if err != nil {
		logger.Fatal("loading candidate", zap.Error(err), zap.String("candidate_id", id))
	}

	pretty, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		logger.Fatal("encoding candidate", zap.Error(err))
	}
	fmt.Println(string(pretty))
}

func pickCandidate(ctx context.Context, store *storage.FileStore) (string, error) {
	list, err := store.List(ctx)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "", fmt.Errorf("no candidates in %s", store.Path())
	}
	report.Sort(list)

	items := make([]string, 0, len(list))
	for _, c := range list {
		items = append(items, fmt.Sprintf("%s %s / %s / %s", c.ID, orDefault(c.Name, "unnamed"), c.Email, c.Status))
	}

	prompt := promptui.Select{
		Label: "Choose a candidate and press ENTER",
		Items: items,
		Size:  10,
	}
	_, selected, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return strings.Split(selected, " ")[0], nil
}

func exportCandidates(cmd *cobra.Command) {
	ctx := context.Background()
	logger, store := openStore("candidates export")

	list, err := selectCandidates(ctx, cmd, logger, store)
	if err != nil {
		logger.Fatal("selecting candidates", zap.Error(err))
	}

	now := time.Now()
	output, _ := cmd.Flags().GetString("output")
	if strings.TrimSpace(output) == "" {
		output = fmt.Sprintf("interview-report-%s.xlsx", now.Format("2006-01-02"))
	}

	path, err := report.ExportXLSX(output, list, now)
	if err != nil {
		logger.Fatal("exporting candidates", zap.Error(err))
	}

	logger.Info("dumping result to file", zap.String("filename", path), zap.Int("count", len(list)))
}
