package cli

import (
	"encoding/json"
	"fmt"

	"github.com/socialmize/strategy-engine/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active strategy plan",
		Run:   runShow,
	}

	cmd.Flags().StringP("user", "u", "", "User ID (required)")
	cmd.MarkFlagRequired("user")

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetString("user")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rec, err := s.FindActive(cmd.Context(), user)
	if err != nil {
		exitErr("find active strategy", err)
	}
	printRecord(rec)
}

func printRecord(rec *model.StrategyRecord) {
	if formatFlag == "text" {
		fmt.Print(rec.Document.Text())
		return
	}
	b, _ := json.Marshal(rec)
	fmt.Println(string(b))
}
