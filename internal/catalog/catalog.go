// Package catalog holds the fixed topic and difficulty registries.
package catalog

import "fmt"

// Topic is one entry of the static topic catalog.
type Topic struct {
	ID    string
	Label string
	Icon  string
}

// DefaultTopicLabel is the topic selected when a session starts.
const DefaultTopicLabel = "সাধারণ"

var topics = []Topic{
	{ID: "education", Label: "শিক্ষা", Icon: "BookOpen"},
	{ID: "health", Label: "স্বাস্থ্য", Icon: "HeartPulse"},
	{ID: "travel", Label: "ভ্রমণ", Icon: "Plane"},
	{ID: "technology", Label: "প্রযুক্তি", Icon: "Cpu"},
	{ID: "sports", Label: "খেলাধুলা", Icon: "Trophy"},
	{ID: "general", Label: DefaultTopicLabel, Icon: "MessageCircle"},
}

// icons maps icon names to terminal glyphs.
var icons = map[string]string{
	"BookOpen":      "📖",
	"HeartPulse":    "💓",
	"Plane":         "✈",
	"Cpu":           "💻",
	"Trophy":        "🏆",
	"MessageCircle": "💬",
}

var (
	byLabel = make(map[string]Topic, len(topics))
	byID    = make(map[string]Topic, len(topics))
)

func init() {
	for _, t := range topics {
		byLabel[t.Label] = t
		byID[t.ID] = t
	}
}

// Topics returns the catalog in display order. The returned slice is a copy.
func Topics() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}

// TopicByLabel looks up a topic by its display label.
func TopicByLabel(label string) (Topic, bool) {
	t, ok := byLabel[label]
	return t, ok
}

// TopicByID looks up a topic by its stable identifier.
func TopicByID(id string) (Topic, bool) {
	t, ok := byID[id]
	return t, ok
}

// ResolveTopic accepts either an ID or a label and returns the topic.
func ResolveTopic(s string) (Topic, error) {
	if t, ok := byLabel[s]; ok {
		return t, nil
	}
	if t, ok := byID[s]; ok {
		return t, nil
	}
	return Topic{}, fmt.Errorf("unknown topic: %q", s)
}

// Glyph returns the terminal glyph for the topic's icon.
func (t Topic) Glyph() string {
	if g, ok := icons[t.Icon]; ok {
		return g
	}
	return "•"
}

// Difficulty is a request parameter interpreted by the answering service.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists all levels in display order.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ParseDifficulty validates s against the closed enumeration.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty: %q (want easy, medium or hard)", s)
}

// Valid reports whether d is one of the known levels.
func (d Difficulty) Valid() bool {
	_, err := ParseDifficulty(string(d))
	return err == nil
}

// Label returns the Bengali display label.
func (d Difficulty) Label() string {
	switch d {
	case Easy:
		return "সহজ"
	case Medium:
		return "মাঝারি"
	case Hard:
		return "কঠিন"
	}
	return string(d)
}

// Next cycles easy → medium → hard → easy.
func (d Difficulty) Next() Difficulty {
	levels := Difficulties()
	for i, l := range levels {
		if l == d {
			return levels[(i+1)%len(levels)]
		}
	}
	return Easy
}
