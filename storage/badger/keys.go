package badger

import (
	"encoding/binary"
	"time"
)

// Key prefixes for different data types
const (
	bookPrefix        = "book"
	bookVectorPrefix  = "bookvec"
	shelvesPrefix     = "shelves"
	preferencesPrefix = "prefs"
	ratingPrefix      = "rating"
	feedbackPrefix    = "feedback"
)

// makeBookKey generates a key for a catalog book by ID.
func makeBookKey(id string) []byte {
	return []byte(bookPrefix + ":" + id)
}

// makeBookVectorKey generates a key for a book's embedding.
func makeBookVectorKey(id string) []byte {
	return []byte(bookVectorPrefix + ":" + id)
}

// bookIDFromKey extracts the book ID from a key made by makeBookKey.
func bookIDFromKey(key []byte) string {
	return string(key[len(bookPrefix)+1:])
}

// makeShelvesKey generates a key for a user's shelves.
func makeShelvesKey(userID string) []byte {
	return []byte(shelvesPrefix + ":" + userID)
}

// makePreferencesKey generates a key for a user's preferences.
func makePreferencesKey(userID string) []byte {
	return []byte(preferencesPrefix + ":" + userID)
}

// makeRatingPrefix generates the prefix shared by all of a user's ratings.
// Format: prefix:userID:
func makeRatingPrefix(userID string) []byte {
	return []byte(ratingPrefix + ":" + userID + ":")
}

// makeRatingKey generates a key for a user's rating of a book.
// Format: prefix:userID:bookID
func makeRatingKey(userID, bookID string) []byte {
	return append(makeRatingPrefix(userID), bookID...)
}

// makeFeedbackPrefix generates the prefix shared by a user's feedback log.
// Format: prefix:userID:
func makeFeedbackPrefix(userID string) []byte {
	return []byte(feedbackPrefix + ":" + userID + ":")
}

// makeFeedbackKey generates a composite key for a feedback record.
// Format: prefix:userID:timestamp:recordID
func makeFeedbackKey(userID string, createdAt time.Time, recordID string) []byte {
	prefix := makeFeedbackPrefix(userID)
	buf := make([]byte, len(prefix)+8, len(prefix)+8+1+len(recordID))
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	buf = append(buf, ':')
	return append(buf, recordID...)
}

// makeFeedbackSeekKey generates a key past every feedback record of a user,
// for reverse iteration.
func makeFeedbackSeekKey(userID string) []byte {
	prefix := makeFeedbackPrefix(userID)
	buf := make([]byte, len(prefix)+9)
	offset := copy(buf, prefix)
	for i := offset; i < len(buf); i++ {
		buf[i] = 0xFF
	}
	return buf
}
