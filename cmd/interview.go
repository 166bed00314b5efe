package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/candidate"
	"github.com/spigell/interview-coach/internal/interview"
	"github.com/spigell/interview-coach/internal/resume"
	"github.com/spigell/interview-coach/internal/storage"
)

const (
	PromptStart     = "Start the interview"
	PromptEditName  = "Edit name"
	PromptEditEmail = "Edit email"
	PromptEditPhone = "Edit phone"
	PromptCancel    = "Cancel"

	hintText = "Time is running out: wrap up with your main point."
)

var interviewCmd = &cobra.Command{
	Use:   "interview <resume.pdf|resume.docx>",
	Short: "Run a six question mock interview based on a résumé",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runInterview(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().String("api-key", "", "gemini api key for this session (overrides the configured key and GEMINI_API_KEY)")
	interviewCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask to confirm the extracted profile")
}

func runInterview(cmd *cobra.Command, path string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup("interview")

	apiKey, _ := cmd.Flags().GetString("api-key")
	config.AI.Gemini.RuntimeAPIKey = apiKey

	info, err := resume.Load(ctx, path)
	switch {
	case errors.Is(err, resume.ErrUnsupportedType), errors.Is(err, resume.ErrFileTooLarge):
		logger.Fatal("résumé rejected", zap.Error(err), zap.String("hint", "upload a PDF or DOCX file up to 10MB"))
	case errors.Is(err, resume.ErrNoText):
		logger.Fatal("no text found in the résumé", zap.String("file", path), zap.String("hint", "scanned documents are not supported"))
	case err != nil:
		logger.Fatal("reading résumé", zap.Error(err))
	}

	logger.Info("résumé parsed",
		zap.String("name", info.Name),
		zap.Int("skills", len(info.Skills)),
		zap.Int("text_length", len(info.Text)),
	)

	profile := info.Profile()
	if cmd.Flag("auto-aprove").Value.String() == "false" {
		if err := confirmProfile(&profile); err != nil {
			if errors.Is(err, errExit) {
				logger.Info("exiting", zap.String("reason", "interview cancelled"))
				return
			}
			logger.Fatal("confirming profile", zap.Error(err))
		}
	}

	scorer, err := newScorer(config.Interview)
	if err != nil {
		logger.Fatal("loading question bank", zap.Error(err))
	}

	gateway, err := newGateway(ctx, config.AI, scorer, logger)
	if err != nil {
		logger.Fatal("building ai gateway", zap.Error(err))
	}

	store := storage.NewFileStore(config.StoreFile, logger)
	session := interview.New(candidate.New(profile, time.Now()), gateway, store, scorer.Random(), logger)

	fmt.Printf("\nWelcome %s! You will get %d questions, type each answer on one line and press ENTER.\n",
		orDefault(profile.Name, "candidate"), interview.TotalQuestions)
	if !gateway.Enabled() {
		fmt.Println("AI is not configured, questions and scoring come from the built-in mock set.")
	}

	err = session.Run(ctx, readAnswers(ctx, os.Stdin), printEvent(os.Stdout))
	switch {
	case err == nil:
		logger.Info("interview saved", zap.String("candidate_id", session.Candidate().ID), zap.String("file", store.Path()))
	case errors.Is(err, interview.ErrSaveFailed):
		logger.Error("interview finished but could not be saved", zap.Error(err))
	case errors.Is(err, interview.ErrAbandoned), errors.Is(err, context.Canceled):
		logger.Info("exiting", zap.String("reason", "interview abandoned"))
	default:
		logger.Fatal("interview failed", zap.Error(err))
	}
}

var errExit = errors.New("exit requested")

func confirmProfile(profile *candidate.Profile) error {
	for {
		fmt.Printf("\nName:  %s\nEmail: %s\nPhone: %s\n", profile.Name, profile.Email, profile.Phone)

		prompt := promptui.Select{
			Label: "Is this correct?",
			Items: []string{PromptStart, PromptEditName, PromptEditEmail, PromptEditPhone, PromptCancel},
		}
		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		if err := handleProfileAction(action, profile); err != nil {
			return err
		}
		if action == PromptStart {
			return nil
		}
	}
}

func handleProfileAction(action string, profile *candidate.Profile) error {
	var err error

	switch action {
	case PromptStart:
		return nil
	case PromptCancel:
		return errExit
	case PromptEditName:
		profile.Name, err = edit("Name", profile.Name, nil)
	case PromptEditEmail:
		profile.Email, err = edit("Email", profile.Email, validateEmail)
	case PromptEditPhone:
		profile.Phone, err = edit("Phone", profile.Phone, nil)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}

	return err
}

func edit(label, current string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   current,
		AllowEdit: true,
		Validate:  validate,
	}
	value, err := prompt.Run()
	if err != nil {
		return current, err
	}
	return strings.TrimSpace(value), nil
}

func validateEmail(input string) error {
	input = strings.TrimSpace(input)
	if input != "" && !strings.Contains(input, "@") {
		return errors.New("email must contain @")
	}
	return nil
}

// readAnswers streams input lines until EOF or ctx is done.
func readAnswers(ctx context.Context, r io.Reader) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case out <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func printEvent(w io.Writer) func(interview.Event) {
	return func(e interview.Event) {
		switch e.Kind {
		case interview.EventQuestion:
			label := "Question"
			if e.Question.IsFollowUp {
				label = "Follow-up"
			}
			fmt.Fprintf(w, "\n%s %d/%d [%s, %ds]\n%s\n> ",
				label, e.Slot, interview.TotalQuestions, e.Question.Difficulty, e.Remaining, e.Question.Text)
		case interview.EventHint:
			fmt.Fprintf(w, "\n%s (%ds left)\n> ", hintText, e.Remaining)
		case interview.EventTick:
			if e.Remaining > 0 && e.Remaining%30 == 0 {
				fmt.Fprintf(w, "\n(%ds left)\n> ", e.Remaining)
			}
		case interview.EventAnswer:
			fmt.Fprintf(w, "\nScore %d/100 (%s): %s\n", e.Answer.Score, e.Answer.Analysis.Sentiment, e.Answer.Analysis.Feedback)
		case interview.EventCompleted:
			printResults(w, e.Candidate)
		}
	}
}

func printResults(w io.Writer, c *candidate.Candidate) {
	if c == nil || c.FinalScore == nil {
		return
	}

	fmt.Fprintf(w, "\nInterview complete\n\nFinal score: %d/100\nRecommended level: %s\n", *c.FinalScore, c.RecommendedLevel)
	fmt.Fprintf(w, "Total time: %ds, average confidence: %d%%\n", c.TotalTime, c.AverageConfidence)
	if len(c.SkillsAssessed) > 0 {
		fmt.Fprintf(w, "Skills assessed: %s\n", strings.Join(c.SkillsAssessed, ", "))
	}
	fmt.Fprintf(w, "\n%s\n", c.FinalSummary)

	for _, m := range c.KeyMoments {
		fmt.Fprintf(w, "  [%s] %s\n", m.Type, m.Description)
	}

	fmt.Fprintln(w, "\nProgression:")
	for i, p := range c.DifficultyProgression {
		fmt.Fprintf(w, "  %d. %-6s %3d\n", i+1, p.Difficulty, p.Score)
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
