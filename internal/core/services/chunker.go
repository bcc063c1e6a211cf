package services

import (
	"strings"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

// DefaultMaxWords is the default chunk size for documents, in words.
const DefaultMaxWords = 1000

// DefaultOverlapWords is the default overlap between consecutive chunks.
const DefaultOverlapWords = 100

// Email chunking thresholds. An email at or under the limit is kept whole;
// longer emails are chunked with a smaller window.
const (
	emailMaxWords     = 800
	emailOverlapWords = 50
)

// Chunker splits raw text into overlapping, size-bounded chunk drafts.
// Splitting happens on sentence boundaries, never mid-sentence.
type Chunker struct {
	maxWords     int
	overlapWords int
}

// ChunkerOption configures the chunker.
type ChunkerOption func(*Chunker)

// WithMaxWords sets the target chunk size in words.
func WithMaxWords(n int) ChunkerOption {
	return func(c *Chunker) {
		if n > 0 {
			c.maxWords = n
		}
	}
}

// WithOverlapWords sets the overlap between consecutive chunks in words.
func WithOverlapWords(n int) ChunkerOption {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlapWords = n
		}
	}
}

// NewChunker creates a chunker with the given options.
func NewChunker(opts ...ChunkerOption) *Chunker {
	c := &Chunker{
		maxWords:     DefaultMaxWords,
		overlapWords: DefaultOverlapWords,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Overlap must leave room for new content in every chunk.
	if c.overlapWords >= c.maxWords {
		c.overlapWords = c.maxWords / 4
	}
	return c
}

// Chunk splits text into ordered drafts of roughly maxWords words each.
// Each draft after the first begins with the trailing overlapWords words
// of the previous draft. Empty or whitespace-only input yields nil.
// A single sentence longer than maxWords is emitted as its own oversized
// draft rather than being split mid-sentence.
func (c *Chunker) Chunk(text string) []domain.ChunkDraft {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var drafts []domain.ChunkDraft
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		body := strings.Join(current, " ")
		drafts = append(drafts, domain.ChunkDraft{
			Text:      body,
			Position:  len(drafts),
			WordCount: len(current),
			CharCount: len(body),
		})
	}

	for _, sentence := range sentences {
		words := strings.Fields(sentence)
		if len(words) == 0 {
			continue
		}

		if len(current) > 0 && len(current)+len(words) > c.maxWords {
			flush()
			if c.overlapWords > 0 && len(current) > c.overlapWords {
				overlap := current[len(current)-c.overlapWords:]
				current = append(append([]string{}, overlap...), words...)
			} else {
				current = words
			}
			continue
		}

		current = append(current, words...)
	}
	flush()

	return drafts
}

// ChunkEmail applies the email policy: a message at or under 800 words is
// one chunk, longer messages are chunked with an 800/50 word window.
func (c *Chunker) ChunkEmail(text string) []domain.ChunkDraft {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= emailMaxWords {
		body := strings.Join(words, " ")
		return []domain.ChunkDraft{{
			Text:      body,
			Position:  0,
			WordCount: len(words),
			CharCount: len(body),
		}}
	}
	emailChunker := NewChunker(WithMaxWords(emailMaxWords), WithOverlapWords(emailOverlapWords))
	return emailChunker.Chunk(text)
}

// ChunkFor dispatches on source kind: ChunkEmail for emails, Chunk for
// everything else.
func (c *Chunker) ChunkFor(kind domain.SourceKind, text string) []domain.ChunkDraft {
	if kind == domain.SourceEmail {
		return c.ChunkEmail(text)
	}
	return c.Chunk(text)
}

// splitSentences collapses whitespace (newlines become spaces) and splits
// the text into sentences. A sentence ends at '.', '!' or '?' followed by
// a space or end of input; the terminator stays with its sentence.
func splitSentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch != '.' && ch != '!' && ch != '?' {
			continue
		}
		if i+1 < len(text) && text[i+1] != ' ' {
			continue
		}
		if s := strings.TrimSpace(text[start : i+1]); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}
