// Package cag implements the Context-Affect-Guidance memory: per-session
// facts and mood derived from user text, rendered into a dynamic system
// prompt for the language model.
package cag

import (
	"fmt"
	"strings"
	"time"
)

type Mood string

const (
	MoodNeutral Mood = "neutral"
	MoodTired   Mood = "tired"
	MoodHappy   Mood = "happy"
)

type Energy string

const (
	EnergyNormal Energy = "normal"
	EnergyLow    Energy = "low"
	EnergyHigh   Energy = "high"
)

// Facts is the fixed per-session fact record. Unknown keys in persisted JSON
// are ignored on load rather than rejected.
type Facts struct {
	Name      string   `json:"name,omitempty"`
	Interests []string `json:"interests,omitempty"`
	Mood      Mood     `json:"mood"`
	Energy    Energy   `json:"energy"`
}

func DefaultFacts() Facts {
	return Facts{Mood: MoodNeutral, Energy: EnergyNormal}
}

// affectRule is one entry in the ordered mood table. Evaluation is
// first-match-wins: once a rule fires, the rest are skipped.
type affectRule struct {
	keywords []string
	apply    func(*Facts)
}

var affectRules = []affectRule{
	{
		keywords: []string{"устал", "спать", "нет сил"},
		apply: func(f *Facts) {
			f.Mood = MoodTired
			f.Energy = EnergyLow
		},
	},
	{
		keywords: []string{"круто", "спасибо", "рад"},
		apply: func(f *Facts) {
			f.Mood = MoodHappy
			f.Energy = EnergyHigh
		},
	},
	{
		keywords: []string{"привет", "старт"},
		apply: func(f *Facts) {
			f.Mood = MoodNeutral
		},
	},
}

const nameMarker = " зовут "

// UpdateState runs the affect rule table against the incoming user text and
// extracts the user's name from a "меня зовут X" phrase. The mood chain and
// the name extraction are independent of each other.
func UpdateState(f *Facts, userText string) {
	text := strings.ToLower(userText)

	for _, rule := range affectRules {
		if containsAny(text, rule.keywords) {
			rule.apply(f)
			break
		}
	}

	if strings.Contains(text, "меня зовут") {
		if _, after, ok := strings.Cut(text, nameMarker); ok {
			if fields := strings.Fields(after); len(fields) > 0 {
				f.Name = capitalize(fields[0])
			}
		}
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

var moodSentences = map[Mood]string{
	MoodTired:   "У пользователя мало сил, отвечай мягко и поддерживающе.",
	MoodHappy:   "Пользователь рад, поддерживай позитив!",
	MoodNeutral: "",
}

// BuildSystemPrompt composes the system prompt in a fixed section order:
// persona, user name, interests, mood sentence, time of day, visual context,
// closing instruction. The order is a contract relied on by tests.
func BuildSystemPrompt(f Facts, visualContext string, now time.Time) string {
	var b strings.Builder

	b.WriteString("Ты — A-Vision, умный помощник в очках. Твоя цель — помогать пользователю ориентироваться и решать задачи.\n")
	b.WriteString("Отвечай кратко (1-3 предложения), живо и по-человечески.\n\n")

	if f.Name != "" {
		fmt.Fprintf(&b, "Пользователя зовут %s. Обращайся по имени иногда.\n", f.Name)
	}

	if len(f.Interests) > 0 {
		fmt.Fprintf(&b, "Интересы пользователя: %s.\n", strings.Join(f.Interests, ", "))
	}

	b.WriteString(moodSentences[f.Mood])
	b.WriteString("\n\n")

	hour := now.Hour()
	timeDesc := "Вечер/Ночь"
	if hour >= 9 && hour < 18 {
		timeDesc = "День"
	}
	fmt.Fprintf(&b, "Сейчас %s (%d:00).\n", timeDesc, hour)

	if visualContext != "" {
		fmt.Fprintf(&b, "\nТы видишь: %s\n", visualContext)
	}

	b.WriteString("\nИнструкция: Если пользователь спрашивает 'что ты видишь', опиши сцену. Если просит помощи, помоги.")

	return b.String()
}
