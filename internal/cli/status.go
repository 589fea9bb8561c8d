package cli

import (
	"encoding/json"
	"fmt"

	"github.com/socialmize/strategy-engine/internal/orchestrator"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check a generation job",
		Long:  "Check the status of a generation job. With --wait, poll with backoff until the job reaches a terminal outcome.",
		Run:   runStatus,
	}

	cmd.Flags().StringP("job", "j", "", "Job ID (required)")
	cmd.Flags().StringP("user", "u", "", "User ID")
	cmd.Flags().Bool("wait", false, "Poll until the job is terminal")
	cmd.Flags().Int("max-attempts", 0, "Polling attempt cap")
	cmd.Flags().Duration("base-delay", 0, "Initial polling backoff delay")
	cmd.Flags().Duration("max-delay", 0, "Polling backoff delay cap")

	cmd.MarkFlagRequired("job")

	RootCmd.AddCommand(cmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	jobID, _ := cmd.Flags().GetString("job")
	user, _ := cmd.Flags().GetString("user")
	wait, _ := cmd.Flags().GetBool("wait")
	maxAttempts, _ := cmd.Flags().GetInt("max-attempts")
	baseDelay, _ := cmd.Flags().GetDuration("base-delay")
	maxDelay, _ := cmd.Flags().GetDuration("max-delay")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	o := orchestrator.New(s, nil, orchestrator.Config{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
		NewID:       s.NewID,
	})

	if wait {
		rec, err := o.Poll(cmd.Context(), jobID, user)
		if err != nil {
			exitErr("poll generation", err)
		}
		printRecord(rec)
		return
	}

	res, err := o.Check(cmd.Context(), jobID, user)
	if err != nil {
		exitErr("check status", err)
	}
	b, _ := json.Marshal(res)
	fmt.Println(string(b))
}
