package tokenizer

import "strings"

// Demo returns a small built-in tokenizer for running without a vocabulary
// file. Single letters and digits plus their continuation forms guarantee
// that any ASCII word segments fully, and a handful of whole words keeps
// common prefixes compact.
func Demo() *Tokenizer {
	t, err := New(demoPieces())
	if err != nil {
		// the built-in piece list is never empty
		panic(err)
	}
	return t
}

func demoPieces() []string {
	pieces := []string{padPiece, unkPiece, clsPiece, sepPiece, maskPiece}

	for r := 'a'; r <= 'z'; r++ {
		pieces = append(pieces, string(r))
	}
	for r := 'a'; r <= 'z'; r++ {
		pieces = append(pieces, "##"+string(r))
	}
	for r := '0'; r <= '9'; r++ {
		pieces = append(pieces, string(r))
	}
	for r := '0'; r <= '9'; r++ {
		pieces = append(pieces, "##"+string(r))
	}

	pieces = append(pieces, strings.Fields(`. , ! ? ' " - : ; ( )`)...)

	words := strings.Fields(`
		hello world the and to of in is it you that was for on are with as
		his they at be this have from or one had by but not what all were
		when your can said there each which she do how if will up other
		about out many then them these so some her would make like him into
		time has look two more write go see no way could people my than
		first been who its now find long down day did get come made may`)
	pieces = append(pieces, words...)

	suffixes := strings.Fields(`##ed ##ing ##er ##ly ##es ##est ##tion ##ness ##ment`)
	pieces = append(pieces, suffixes...)

	return pieces
}
