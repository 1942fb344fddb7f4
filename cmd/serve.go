package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pigeonic/banglachat/internal/answer"
	"github.com/pigeonic/banglachat/internal/llm"
	"github.com/pigeonic/banglachat/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local answering service backed by an LLM",
	Long: "Serves POST /chat and GET /topics, answering with the provider chosen by\n" +
		"BANGLACHAT_LLM_PROVIDER (anthropic, openai, gemini, openrouter or mock).",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		closer, err := initLogging(cfg, false)
		if err != nil {
			return err
		}
		defer closer.Close()

		llmCfg, err := llm.LoadConfig()
		if err != nil {
			return err
		}
		if p, _ := cmd.Flags().GetString("provider"); p != "" {
			llmCfg.Provider = p
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		provider, err := llm.New(ctx, llmCfg, st.EventRepo())
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}
		log.Info().Str("provider", provider.Name()).Str("model", provider.Model()).Msg("LLM provider ready")

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.ServeAddr
		}
		origins, _ := cmd.Flags().GetStringSlice("origin")

		srv := server.New(answer.NewService(provider, answer.DefaultConfig()),
			server.WithOrigins(origins...),
			server.WithTimeout(cfg.APITimeout),
			server.WithLogger(log.Logger),
		)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides BANGLACHAT_SERVE_ADDR)")
	serveCmd.Flags().StringSlice("origin", []string{"*"}, "Allowed CORS origins")
	serveCmd.Flags().String("provider", "", "LLM provider (overrides BANGLACHAT_LLM_PROVIDER)")
}
