package cag

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStateMoodTransitions(t *testing.T) {
	f := DefaultFacts()
	assert.Equal(t, MoodNeutral, f.Mood)
	assert.Equal(t, EnergyNormal, f.Energy)

	UpdateState(&f, "я очень устал сегодня")
	assert.Equal(t, MoodTired, f.Mood)
	assert.Equal(t, EnergyLow, f.Energy)

	UpdateState(&f, "мне супер круто")
	assert.Equal(t, MoodHappy, f.Mood)
	assert.Equal(t, EnergyHigh, f.Energy)
}

func TestUpdateStateFirstMatchWins(t *testing.T) {
	f := DefaultFacts()
	// both the tired and happy rules match; the tired rule is evaluated first
	UpdateState(&f, "устал, но спасибо")
	assert.Equal(t, MoodTired, f.Mood)
	assert.Equal(t, EnergyLow, f.Energy)
}

func TestUpdateStateGreetingKeepsEnergy(t *testing.T) {
	f := DefaultFacts()
	UpdateState(&f, "я устал")
	require.Equal(t, EnergyLow, f.Energy)

	// greeting resets mood only, energy is left alone
	UpdateState(&f, "привет")
	assert.Equal(t, MoodNeutral, f.Mood)
	assert.Equal(t, EnergyLow, f.Energy)
}

func TestUpdateStateNameExtraction(t *testing.T) {
	f := DefaultFacts()
	UpdateState(&f, "Меня зовут алексей")
	assert.Equal(t, "Алексей", f.Name, "name is the first token after the marker, capitalized")
}

func TestUpdateStateNameAndMoodIndependent(t *testing.T) {
	f := DefaultFacts()
	UpdateState(&f, "привет, меня зовут Ира")
	assert.Equal(t, "Ира", f.Name)
	assert.Equal(t, MoodNeutral, f.Mood)
}

func TestUpdateStateNoNameNoChange(t *testing.T) {
	f := DefaultFacts()
	f.Name = "Олег"
	UpdateState(&f, "как дела")
	assert.Equal(t, "Олег", f.Name)
}

func TestBuildSystemPromptSectionOrder(t *testing.T) {
	f := Facts{
		Name:      "Ира",
		Interests: []string{"музыка", "шахматы"},
		Mood:      MoodHappy,
		Energy:    EnergyHigh,
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	prompt := BuildSystemPrompt(f, "стол и чашка", now)

	sections := []string{
		"Ты — A-Vision",
		"Пользователя зовут Ира",
		"Интересы пользователя: музыка, шахматы",
		"Пользователь рад",
		"Сейчас День (12:00)",
		"Ты видишь: стол и чашка",
		"Инструкция:",
	}
	pos := -1
	for _, s := range sections {
		idx := strings.Index(prompt, s)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", s)
		assert.Greater(t, idx, pos, "section %q out of order", s)
		pos = idx
	}
}

func TestBuildSystemPromptTimeOfDay(t *testing.T) {
	f := DefaultFacts()

	day := BuildSystemPrompt(f, "", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	assert.Contains(t, day, "Сейчас День (9:00)")

	evening := BuildSystemPrompt(f, "", time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))
	assert.Contains(t, evening, "Сейчас Вечер/Ночь (18:00)")

	night := BuildSystemPrompt(f, "", time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC))
	assert.Contains(t, night, "Сейчас Вечер/Ночь (3:00)")
}

func TestBuildSystemPromptOmitsEmptySections(t *testing.T) {
	prompt := BuildSystemPrompt(DefaultFacts(), "", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	assert.NotContains(t, prompt, "Пользователя зовут")
	assert.NotContains(t, prompt, "Интересы пользователя")
	assert.NotContains(t, prompt, "Ты видишь")
}
