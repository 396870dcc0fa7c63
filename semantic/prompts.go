package semantic

const expansionPromptTemplate = `You are a book recommendation expert. Transform the user's request into abstract themes and emotional concepts that would help find matching books. DO NOT repeat the user's exact words.

User request: "%s"

Convert this into underlying themes, emotional needs, and genre preferences. Focus on:
- Core emotional needs (joy, connection, growth, etc.)
- Life themes that would resonate
- Genre categories that fulfill this need
- Reader experience goals

IMPORTANT: Use different words than the user's query. Focus on concepts, not literal phrases.

Example:
Query: "I want to be happy"
Output: "Uplifting fiction, feel-good stories, personal growth narratives, inspirational content, positive psychology, romance with happy endings, comedic literature, motivational self-help, heartwarming memoirs, adventure stories with triumphant outcomes, books about overcoming adversity, finding love, achieving dreams, emotional healing"`

const explanationPromptTemplate = `You are a helpful book recommendation assistant.

User query: "%s"

Recommended book:
Title: %s
Author: %s
Description: %s
Genres: %s

Generate a brief, friendly explanation (2-3 sentences) of why this book matches the user's request. Focus on the specific elements that align with their query. Start with "We recommended this because..."`
