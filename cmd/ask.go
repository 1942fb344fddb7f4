package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pigeonic/banglachat/internal/catalog"
	"github.com/pigeonic/banglachat/internal/chat"
	"github.com/pigeonic/banglachat/internal/gateway"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.ValidateAPI(); err != nil {
			return err
		}
		closer, err := initLogging(cfg, false)
		if err != nil {
			return err
		}
		defer closer.Close()

		session := chat.NewSession()
		if t, _ := cmd.Flags().GetString("topic"); t != "" {
			topic, err := catalog.ResolveTopic(t)
			if err != nil {
				return err
			}
			_ = session.SelectTopic(topic.Label)
		}
		if d, _ := cmd.Flags().GetString("difficulty"); d != "" {
			level, err := catalog.ParseDifficulty(d)
			if err != nil {
				return err
			}
			_ = session.SelectDifficulty(level)
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		client := gateway.New(cfg.APIURL, gateway.WithTimeout(cfg.APITimeout))
		session.SetInput(strings.Join(args, " "))
		if !session.Submit(cmd.Context(), gateway.WithEventLog(client, st.EventRepo())) {
			return errors.New("question is empty")
		}

		fmt.Fprintln(cmd.OutOrStdout(), session.Last().Text)
		return nil
	},
}

func init() {
	askCmd.Flags().String("topic", "", "Topic ID or label (see `banglachat topics`)")
	askCmd.Flags().String("difficulty", "", "easy, medium or hard")
}
