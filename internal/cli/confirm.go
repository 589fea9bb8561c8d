package cli

import (
	"github.com/socialmize/strategy-engine/internal/orchestrator"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Confirm the pending strategy plan",
		Long:  "Promote the user's generated-but-unconfirmed strategy to their single active plan.",
		Run:   runConfirm,
	}

	cmd.Flags().StringP("user", "u", "", "User ID (required)")
	cmd.MarkFlagRequired("user")

	RootCmd.AddCommand(cmd)
}

func runConfirm(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetString("user")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	o := orchestrator.New(s, nil, orchestrator.Config{NewID: s.NewID})
	rec, err := o.Confirm(cmd.Context(), user)
	if err != nil {
		exitErr("confirm", err)
	}
	printRecord(rec)
}
