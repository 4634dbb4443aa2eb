package tokenizer

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Reserved vocabulary pieces. Only the unknown marker affects sampling;
// the rest carry meaning at the rendering boundary.
const (
	padPiece  = "[PAD]"
	unkPiece  = "[UNK]"
	clsPiece  = "[CLS]"
	sepPiece  = "[SEP]"
	maskPiece = "[MASK]"
)

// Words longer than this many runes are mapped to the unknown id wholesale
// instead of being segmented.
const maxWordRunes = 100

// Tokenizer maps text to token ids over a fixed WordPiece vocabulary and
// renders id sequences back to text. Encoding lowercases, isolates
// punctuation and CJK characters, then greedily matches the longest known
// piece, marking word continuations with "##".
type Tokenizer struct {
	pieces []string
	index  map[string]int

	padID  int
	unkID  int
	clsID  int
	sepID  int
	maskID int
}

// New builds a Tokenizer from pieces, where the slice index is the token
// id. Duplicate pieces resolve to the last occurrence.
func New(pieces []string) (*Tokenizer, error) {
	if len(pieces) == 0 {
		return nil, fmt.Errorf("tokenizer: empty vocabulary")
	}
	index := make(map[string]int, len(pieces))
	for i, p := range pieces {
		index[p] = i
	}

	lookup := func(piece string) int {
		if id, ok := index[piece]; ok {
			return id
		}
		return -1
	}
	return &Tokenizer{
		pieces: append([]string(nil), pieces...),
		index:  index,
		padID:  lookup(padPiece),
		unkID:  lookup(unkPiece),
		clsID:  lookup(clsPiece),
		sepID:  lookup(sepPiece),
		maskID: lookup(maskPiece),
	}, nil
}

// LoadFile reads a one-piece-per-line vocabulary file.
func LoadFile(path string) (*Tokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()

	var pieces []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		pieces = append(pieces, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return New(pieces)
}

// Size returns the vocabulary size.
func (t *Tokenizer) Size() int { return len(t.pieces) }

// Piece returns the raw vocabulary entry for id, or "" when out of range.
func (t *Tokenizer) Piece(id int) string {
	if id < 0 || id >= len(t.pieces) {
		return ""
	}
	return t.pieces[id]
}

// ID returns the id of piece and whether it exists.
func (t *Tokenizer) ID(piece string) (int, bool) {
	id, ok := t.index[piece]
	return id, ok
}

// The reserved ids, -1 when the vocabulary lacks the piece.
func (t *Tokenizer) PadID() int       { return t.padID }
func (t *Tokenizer) UnknownID() int   { return t.unkID }
func (t *Tokenizer) ClassID() int     { return t.clsID }
func (t *Tokenizer) SeparatorID() int { return t.sepID }
func (t *Tokenizer) MaskID() int      { return t.maskID }

// Encode tokenizes text into ids. Words with no viable segmentation map to
// the unknown id as a whole; if the vocabulary has no unknown marker they
// are dropped. No class or separator ids are added.
func (t *Tokenizer) Encode(text string) []int {
	var ids []int
	for _, word := range basicSplit(text) {
		ids = append(ids, t.wordpiece(word)...)
	}
	return ids
}

// wordpiece greedily segments one word into known pieces, longest match
// first, prefixing continuations with "##".
func (t *Tokenizer) wordpiece(word string) []int {
	runes := []rune(word)
	if len(runes) > maxWordRunes {
		return t.unknown()
	}

	var ids []int
	start := 0
	for start < len(runes) {
		id := -1
		end := len(runes)
		for end > start {
			piece := string(runes[start:end])
			if start > 0 {
				piece = "##" + piece
			}
			if v, ok := t.index[piece]; ok {
				id = v
				break
			}
			end--
		}
		if id < 0 {
			return t.unknown()
		}
		ids = append(ids, id)
		start = end
	}
	return ids
}

func (t *Tokenizer) unknown() []int {
	if t.unkID < 0 {
		return nil
	}
	return []int{t.unkID}
}

// Render converts ids back to display text: the mask piece disappears, the
// class piece becomes a blank line, the separator a newline; continuation
// markers are removed and the result is trimmed. Ids out of range render
// as nothing.
func (t *Tokenizer) Render(ids []int) string {
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(t.renderPiece(id))
	}
	return strings.TrimSpace(strings.ReplaceAll(b.String(), "##", ""))
}

// PieceText is the incremental form of Render for a single id: rewritten
// and stripped of continuation markers, but never trimmed, so streamed
// pieces concatenate to the untrimmed rendering.
func (t *Tokenizer) PieceText(id int) string {
	return strings.ReplaceAll(t.renderPiece(id), "##", "")
}

func (t *Tokenizer) renderPiece(id int) string {
	if id < 0 || id >= len(t.pieces) {
		return ""
	}
	switch p := t.pieces[id]; p {
	case maskPiece:
		return ""
	case clsPiece:
		return "\n\n"
	case sepPiece:
		return "\n"
	default:
		return p
	}
}
