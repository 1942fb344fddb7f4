package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pigeonic/banglachat/internal/voice"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List installed speech synthesizer voices",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		speaker := voice.NewSpeaker(cfg.TTSCommand)
		if _, ok := speaker.(voice.Silent); ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No speech synthesizer found. Install espeak-ng or set BANGLACHAT_TTS_COMMAND.")
			return nil
		}

		voices, err := speaker.Voices()
		if err != nil {
			return fmt.Errorf("list voices: %w", err)
		}
		lang := voice.Language(cfg.VoiceLocale)
		for _, v := range voices {
			marker := " "
			if v.Language == lang || v.Language == cfg.VoiceLocale {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s %s\n", marker, v.Language, v.Name)
		}
		return nil
	},
}
