package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pigeonic/banglachat/internal/voice"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file.wav>",
	Short: "Recognize Bengali speech in a WAV recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.SpeechAPIKey == "" {
			return errors.New("BANGLACHAT_SPEECH_API_KEY is not set")
		}
		closer, err := initLogging(cfg, false)
		if err != nil {
			return err
		}
		defer closer.Close()

		text, err := voice.TranscribeFile(cmd.Context(), voice.NewGoogleClient(cfg.SpeechAPIKey), args[0], cfg.VoiceLocale)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}
