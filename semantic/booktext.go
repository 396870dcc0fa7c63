package semantic

import (
	"fmt"
	"strings"

	"github.com/poiesic/libris/core"
)

const bookTextTemplate = `Book: %s by %s.

Story and themes: %s

Genres and categories: %s

Emotional tone and themes: This book explores themes of %s.
The story conveys feelings and experiences related to %s.

Reader experience: Someone would read this book if they are seeking %s.`

const defaultGenreTheme = "human experiences and personal growth"

var genreThemes = map[string]string{
	"fiction":         "human experiences, relationships, personal growth",
	"romance":         "love, relationships, emotional connection, happiness",
	"mystery":         "problem-solving, intrigue, discovery, intellectual satisfaction",
	"fantasy":         "adventure, imagination, escapism, heroism",
	"science fiction": "future possibilities, technology, human potential",
	"self-help":       "personal improvement, motivation, achieving goals, happiness",
	"biography":       "inspiration, human achievement, overcoming challenges",
	"philosophy":      "wisdom, understanding life, finding meaning",
	"psychology":      "understanding human nature, mental well-being, personal insight",
	"health":          "wellness, self-care, physical and mental well-being",
	"business":        "success, achievement, professional growth",
	"history":         "understanding the past, learning from experience",
	"poetry":          "beauty, emotion, artistic expression, deep feelings",
	"humor":           "joy, laughter, light-heartedness, entertainment",
	"adventure":       "excitement, courage, exploration, personal challenges",
	"drama":           "human conflict, emotional depth, life struggles",
	"thriller":        "excitement, tension, adrenaline, intense experiences",
}

type keywordRule struct {
	keywords []string
	text     string
}

var descriptionMoods = []keywordRule{
	{[]string{"happy", "joy", "uplifting", "inspiring"}, "happiness, joy, positivity, inspiration"},
	{[]string{"love", "romance", "relationship"}, "love, connection, emotional fulfillment"},
	{[]string{"adventure", "journey", "discover"}, "excitement, discovery, personal growth"},
	{[]string{"overcome", "challenge", "struggle"}, "resilience, personal strength, overcoming obstacles"},
	{[]string{"mystery", "secret", "solve"}, "curiosity, intellectual engagement, problem-solving satisfaction"},
}

var genreMoods = []keywordRule{
	{[]string{"romance"}, "love, emotional warmth, connection"},
	{[]string{"self-help"}, "empowerment, personal growth, improvement"},
	{[]string{"humor", "comedy"}, "joy, laughter, entertainment"},
	{[]string{"fantasy", "adventure"}, "wonder, excitement, escapism"},
}

const defaultMood = "emotional engagement, personal reflection, meaningful experiences"

type intentRule struct {
	genres      []string
	description []string
	text        string
}

var readerIntents = []intentRule{
	{[]string{"self-help"}, []string{"improve", "better"}, "personal improvement, self-development, becoming happier and more fulfilled"},
	{[]string{"romance"}, []string{"love"}, "emotional connection, love stories, relationship inspiration"},
	{[]string{"humor", "comedy"}, nil, "laughter, entertainment, mood lifting, joy"},
	{[]string{"inspiration"}, []string{"inspire"}, "motivation, inspiration, hope, positive change"},
	{[]string{"adventure", "fantasy"}, nil, "escapism, adventure, imagination, excitement"},
	{[]string{"mystery", "thriller"}, nil, "intellectual challenge, suspense, engaging puzzles"},
}

const defaultIntent = "engaging stories, emotional experiences, entertainment and insight"

// BookText builds the composite text embedded for book. It combines the
// catalog fields with themes derived from each genre, a mood derived from
// description keywords (or genres when none match) and the reader intent
// the book serves. The result depends only on the book's fields.
func BookText(book *core.Book) string {
	return fmt.Sprintf(bookTextTemplate,
		book.Title,
		book.Author,
		book.Description,
		strings.Join(book.Genres, ", "),
		themesForGenres(book.Genres),
		moodFor(book.Description, book.Genres),
		readerIntent(book.Genres, book.Description),
	)
}

func themesForGenres(genres []string) string {
	themes := make([]string, len(genres))
	for i, genre := range genres {
		theme, ok := genreThemes[strings.ToLower(genre)]
		if !ok {
			theme = defaultGenreTheme
		}
		themes[i] = theme
	}
	return strings.Join(themes, ", ")
}

func moodFor(description string, genres []string) string {
	desc := strings.ToLower(description)
	for _, rule := range descriptionMoods {
		if containsAny(desc, rule.keywords) {
			return rule.text
		}
	}

	genreText := strings.ToLower(strings.Join(genres, " "))
	for _, rule := range genreMoods {
		if containsAny(genreText, rule.keywords) {
			return rule.text
		}
	}
	return defaultMood
}

func readerIntent(genres []string, description string) string {
	genreText := strings.ToLower(strings.Join(genres, " "))
	desc := strings.ToLower(description)
	for _, rule := range readerIntents {
		if containsAny(genreText, rule.genres) || containsAny(desc, rule.description) {
			return rule.text
		}
	}
	return defaultIntent
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
