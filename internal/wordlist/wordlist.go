// Package wordlist provides the built-in study vocabulary and import of
// user-supplied word files in txt, csv and json formats.
package wordlist

import (
	"math/rand"
	"slices"
)

// Entry describes one built-in vocabulary word.
type Entry struct {
	Word       string `json:"word"`
	Difficulty string `json:"difficulty"`
	Category   string `json:"category"`
	Frequency  string `json:"frequency"`
}

// Difficulty levels used by the built-in list.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// builtin is the seed vocabulary shipped with the application. Ordered
// alphabetically so /api/words/builtin output is stable.
var builtin = []Entry{
	{Word: "abandon", Difficulty: DifficultyMedium, Category: "emotion", Frequency: "common"},
	{Word: "ability", Difficulty: DifficultyEasy, Category: "aptitude", Frequency: "common"},
	{Word: "absent", Difficulty: DifficultyEasy, Category: "state", Frequency: "common"},
	{Word: "absolute", Difficulty: DifficultyMedium, Category: "degree", Frequency: "common"},
	{Word: "abstract", Difficulty: DifficultyHard, Category: "concept", Frequency: "less_common"},
	{Word: "academic", Difficulty: DifficultyMedium, Category: "education", Frequency: "common"},
	{Word: "accept", Difficulty: DifficultyEasy, Category: "action", Frequency: "common"},
	{Word: "access", Difficulty: DifficultyMedium, Category: "action", Frequency: "common"},
	{Word: "accident", Difficulty: DifficultyEasy, Category: "event", Frequency: "common"},
	{Word: "accomplish", Difficulty: DifficultyMedium, Category: "achievement", Frequency: "common"},
	{Word: "accurate", Difficulty: DifficultyMedium, Category: "quality", Frequency: "common"},
	{Word: "achieve", Difficulty: DifficultyEasy, Category: "achievement", Frequency: "common"},
	{Word: "acquire", Difficulty: DifficultyMedium, Category: "action", Frequency: "common"},
	{Word: "adapt", Difficulty: DifficultyMedium, Category: "action", Frequency: "common"},
	{Word: "adequate", Difficulty: DifficultyHard, Category: "degree", Frequency: "less_common"},
	{Word: "adjust", Difficulty: DifficultyEasy, Category: "action", Frequency: "common"},
	{Word: "advocate", Difficulty: DifficultyHard, Category: "action", Frequency: "less_common"},
	{Word: "aesthetic", Difficulty: DifficultyHard, Category: "concept", Frequency: "less_common"},
	{Word: "affect", Difficulty: DifficultyMedium, Category: "action", Frequency: "common"},
	{Word: "aggregate", Difficulty: DifficultyHard, Category: "concept", Frequency: "less_common"},
	{Word: "alleviate", Difficulty: DifficultyHard, Category: "action", Frequency: "less_common"},
	{Word: "ambiguous", Difficulty: DifficultyHard, Category: "quality", Frequency: "less_common"},
	{Word: "analyze", Difficulty: DifficultyMedium, Category: "education", Frequency: "common"},
	{Word: "anticipate", Difficulty: DifficultyMedium, Category: "action", Frequency: "common"},
}

// Builtin returns a copy of the built-in vocabulary.
func Builtin() []Entry {
	return slices.Clone(builtin)
}

// BuiltinWords returns just the words of the built-in vocabulary.
func BuiltinWords() []string {
	return words(builtin)
}

// ByDifficulty returns the built-in words at the given difficulty level.
func ByDifficulty(difficulty string) []string {
	var out []string
	for _, e := range builtin {
		if e.Difficulty == difficulty {
			out = append(out, e.Word)
		}
	}
	return out
}

// ByCategory returns the built-in words in the given category.
func ByCategory(category string) []string {
	var out []string
	for _, e := range builtin {
		if e.Category == category {
			out = append(out, e.Word)
		}
	}
	return out
}

// Random returns up to count distinct built-in words in random order. If the
// list holds fewer than count words, all of them are returned.
func Random(count int) []string {
	all := BuiltinWords()
	if count >= len(all) {
		return all
	}
	rand.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	return all[:count]
}

func words(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Word
	}
	return out
}
