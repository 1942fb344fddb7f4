package voice

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// synthesizers are tried in order when no command is configured.
var synthesizers = []string{"espeak-ng", "espeak"}

// CommandSpeaker plays text through an espeak-compatible command.
type CommandSpeaker struct {
	command string

	mu      sync.Mutex
	current *exec.Cmd
	voices  []Voice
}

// NewSpeaker returns a speaker running command, or the first synthesizer
// found on PATH when command is empty. It returns Silent when none exists.
func NewSpeaker(command string) Speaker {
	if command != "" {
		if path, err := exec.LookPath(command); err == nil {
			return &CommandSpeaker{command: path}
		}
		log.Warn().Str("command", command).Msg("configured TTS command not found")
		return Silent{}
	}
	for _, name := range synthesizers {
		if path, err := exec.LookPath(name); err == nil {
			return &CommandSpeaker{command: path}
		}
	}
	return Silent{}
}

func (s *CommandSpeaker) Speak(text, locale string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	args := []string{}
	if v := s.voiceFor(locale); v != "" {
		args = append(args, "-v", v)
	}
	args = append(args, "--", text)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	cmd := exec.Command(s.command, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", s.command, err)
	}
	s.current = cmd

	go func() {
		cmd.Wait()
		s.mu.Lock()
		if s.current == cmd {
			s.current = nil
		}
		s.mu.Unlock()
	}()
	return nil
}

// Stop interrupts the utterance in progress, if any.
func (s *CommandSpeaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *CommandSpeaker) stopLocked() {
	if s.current != nil && s.current.Process != nil {
		s.current.Process.Kill()
	}
	s.current = nil
}

func (s *CommandSpeaker) Voices() ([]Voice, error) {
	s.mu.Lock()
	cached := s.voices
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	out, err := exec.Command(s.command, "--voices").Output()
	if err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}
	voices := parseVoices(out)

	s.mu.Lock()
	s.voices = voices
	s.mu.Unlock()
	return voices, nil
}

// voiceFor picks an installed voice for locale's language. An empty result
// leaves the synthesizer on its default voice.
func (s *CommandSpeaker) voiceFor(locale string) string {
	voices, err := s.Voices()
	if err != nil {
		log.Debug().Err(err).Msg("voice lookup failed, using default")
		return ""
	}
	return pickVoice(voices, locale)
}

func pickVoice(voices []Voice, locale string) string {
	lang := strings.ToLower(Language(locale))
	exact := strings.ToLower(strings.ReplaceAll(locale, "_", "-"))
	fallback := ""
	for _, v := range voices {
		l := strings.ToLower(v.Language)
		if l == exact {
			return v.Language
		}
		if fallback == "" && Language(l) == lang {
			fallback = v.Language
		}
	}
	return fallback
}

// parseVoices reads the table printed by `espeak --voices`:
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  bn              --/M      Bengali            inc/bn
func parseVoices(out []byte) []Voice {
	voices := []Voice{}
	sc := bufio.NewScanner(bytes.NewReader(out))
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, Voice{Language: fields[1], Name: fields[3]})
	}
	return voices
}
