package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/socialmize/strategy-engine/internal/derive"
	"github.com/socialmize/strategy-engine/internal/model"
	"github.com/socialmize/strategy-engine/internal/parser"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "parse [text]",
		Short: "Parse strategy text without generating",
		Long:  "Run the structure extractor and view builder on raw text. Text can be a positional arg or piped via stdin.",
		Run:   runParse,
	}

	RootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) {
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			text = string(b)
		}
	}

	doc := parser.Parse(text)
	views := derive.BuildViews(doc)

	if formatFlag == "text" {
		fmt.Print(doc.Text())
		return
	}
	b, _ := json.Marshal(struct {
		Document model.StrategyDocument `json:"document"`
		Views    model.DerivedViews     `json:"views"`
	}{doc, views})
	fmt.Println(string(b))
}
