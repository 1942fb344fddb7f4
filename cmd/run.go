package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pigeonic/banglachat/internal/app"
	"github.com/pigeonic/banglachat/internal/gateway"
	chatscreen "github.com/pigeonic/banglachat/internal/screens/chat"
	"github.com/pigeonic/banglachat/internal/voice"
)

// runApp validates the service URL, builds the collaborators and launches
// the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAPI(); err != nil {
		return err
	}

	closer, err := initLogging(cfg, true)
	if err != nil {
		return err
	}
	defer closer.Close()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	client := gateway.New(cfg.APIURL, gateway.WithTimeout(cfg.APITimeout))
	speaker := voice.NewSpeaker(cfg.TTSCommand)
	if s, ok := speaker.(*voice.CommandSpeaker); ok {
		defer s.Stop()
	}

	log.Info().Str("endpoint", client.Endpoint()).Msg("starting chat")
	return app.Run(chatscreen.New(chatscreen.Options{
		Asker:      gateway.WithEventLog(client, st.EventRepo()),
		Recognizer: voice.NewRecognizer(cfg.SpeechAPIKey),
		Speaker:    speaker,
		Locale:     cfg.VoiceLocale,
	}))
}
