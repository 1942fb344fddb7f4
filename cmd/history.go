package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pigeonic/banglachat/internal/catalog"
	"github.com/pigeonic/banglachat/internal/llm"
	"github.com/pigeonic/banglachat/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past exchanges and LLM calls",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent exchanges with the answering service",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		topic, _ := cmd.Flags().GetString("topic")
		since, _ := cmd.Flags().GetDuration("since")

		opts := store.QueryOpts{Limit: limit}
		if topic != "" {
			t, err := catalog.ResolveTopic(topic)
			if err != nil {
				return err
			}
			opts.Topic = t.Label
		}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}

		st, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().Exchanges(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query exchanges: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No exchanges found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-10s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Topic", "Level", "Ms", "Query")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, e := range events {
			query := e.Query
			if e.Fallback {
				query = "✗ " + query
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-10s  %-6s  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format(timeLayout),
				e.Topic,
				e.Difficulty,
				e.LatencyMs,
				truncate(query, 40),
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one exchange in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		st, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		e, err := st.EventRepo().Exchange(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get exchange: %w", err)
		}
		if e == nil {
			return fmt.Errorf("exchange %d not found", id)
		}

		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)
		fmt.Fprintf(out, "ID:         %d\n", e.ID)
		fmt.Fprintf(out, "Time:       %s\n", e.Timestamp.Local().Format(timeLayout))
		fmt.Fprintf(out, "Topic:      %s\n", e.Topic)
		fmt.Fprintf(out, "Difficulty: %s\n", e.Difficulty)
		fmt.Fprintf(out, "Status:     %d\n", e.StatusCode)
		fmt.Fprintf(out, "Latency:    %dms\n", e.LatencyMs)
		fmt.Fprintf(out, "Fallback:   %v\n", e.Fallback)
		if e.ErrorMessage != "" {
			fmt.Fprintf(out, "Error:      %s\n", e.ErrorMessage)
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "QUERY")
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, e.Query)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "ANSWER")
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, e.Answer)
		return nil
	},
}

var historyLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "List LLM calls made by the local answering service",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		st, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().LLMRequests(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM events found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-12s  %-28s  %-6s  %-6s  %-7s  %-9s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "Cost", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 110))

		var total float64
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			cost := "-"
			if p, found := llm.PriceOf(e.Model); found {
				c := p.Cost(llm.Usage{Input: e.InputTokens, Output: e.OutputTokens})
				total += c
				cost = fmt.Sprintf("$%.5f", c)
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-12s  %-28s  %-6d  %-6d  %-7d  %-9s  %s\n",
				e.ID,
				e.Timestamp.Local().Format(timeLayout),
				e.Purpose,
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				cost,
				ok,
			)
		}
		fmt.Fprintln(out, strings.Repeat("─", 110))
		fmt.Fprintf(out, "Estimated cost: $%.4f\n", total)
		return nil
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "Maximum number of exchanges (0 = all)")
	historyListCmd.Flags().String("topic", "", "Only exchanges on this topic (ID or label)")
	historyListCmd.Flags().Duration("since", 0, "Only exchanges newer than this, e.g. 24h")

	historyLLMCmd.Flags().Int("limit", 20, "Maximum number of events (0 = all)")
	historyLLMCmd.Flags().String("purpose", "", "Filter by purpose, e.g. chat-answer")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
	historyCmd.AddCommand(historyLLMCmd)
}

func openHistory(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openStore(cfg)
}

// truncate shortens s to n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
