package tokenize

// DefaultStopWords is a small English stop list used when stop-word
// filtering is enabled in the index configuration.
var DefaultStopWords = []string{
	"an", "and", "are", "as", "at", "be", "but", "by", "for", "if", "in",
	"into", "is", "it", "no", "not", "of", "on", "or", "such", "that", "the",
	"their", "then", "there", "these", "they", "this", "to", "was", "will",
	"with",
}
