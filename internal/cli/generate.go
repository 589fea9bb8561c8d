package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/socialmize/strategy-engine/internal/llm"
	"github.com/socialmize/strategy-engine/internal/orchestrator"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new strategy plan",
		Long:  "Submit a generation job for a user and poll it to completion. The resulting plan is stored unconfirmed; run confirm to activate it.",
		Run:   runGenerate,
	}

	cmd.Flags().StringP("user", "u", "", "User ID (required)")
	cmd.Flags().String("niche", "", "Content niche")
	cmd.Flags().String("style", "", "Creator style")
	cmd.Flags().String("experience", "", "Experience level")
	cmd.Flags().String("frequency", "", "Posting frequency goal")
	cmd.Flags().Bool("submit-only", false, "Submit the job without polling for the result")
	cmd.Flags().Int("max-attempts", 0, "Polling attempt cap")
	cmd.Flags().Duration("base-delay", 0, "Initial polling backoff delay")
	cmd.Flags().Duration("max-delay", 0, "Polling backoff delay cap")

	cmd.MarkFlagRequired("user")

	RootCmd.AddCommand(cmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetString("user")
	submitOnly, _ := cmd.Flags().GetBool("submit-only")
	maxAttempts, _ := cmd.Flags().GetInt("max-attempts")
	baseDelay, _ := cmd.Flags().GetDuration("base-delay")
	maxDelay, _ := cmd.Flags().GetDuration("max-delay")

	pc := llm.PromptContext{}
	pc.Niche, _ = cmd.Flags().GetString("niche")
	pc.CreatorStyle, _ = cmd.Flags().GetString("style")
	pc.ExperienceLevel, _ = cmd.Flags().GetString("experience")
	pc.PostingFrequency, _ = cmd.Flags().GetString("frequency")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	gen, err := newGenerator()
	if err != nil {
		exitErr("configure generator", err)
	}

	o := orchestrator.New(s, gen, orchestrator.Config{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
		NewID:       s.NewID,
	})

	jobID, err := o.Submit(cmd.Context(), user, pc)
	if err != nil {
		exitErr("submit generation", err)
	}
	// Keep the process alive until the background worker has written the
	// job outcome.
	o.Wait()

	if submitOnly {
		b, _ := json.Marshal(map[string]string{"job_id": jobID})
		fmt.Println(string(b))
		return
	}

	rec, err := o.Poll(cmd.Context(), jobID, user)
	if err != nil {
		var jf *orchestrator.JobFailedError
		if errors.As(err, &jf) {
			exitErr("generation", err)
		}
		exitErr("poll generation", err)
	}

	printRecord(rec)
}
