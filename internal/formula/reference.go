package formula

// MatchReference returns the tag name being typed at the end of raw.
//
// The candidate is the longest tail that starts with a run of letters and
// continues with alphanumeric groups joined by single whitespace characters.
// It must begin at the start of raw or right after a non-alphanumeric
// character. ok is false when the tail is empty, ends in whitespace or an
// operator, or has no such run:
//
//	"total rev"   -> "total rev", true
//	"5+rev 2"     -> "rev 2", true
//	"total rev+"  -> "", false
//	"a1"          -> "", false
func MatchReference(raw string) (query string, ok bool) {
	start, ok := referenceStart(raw)
	if !ok {
		return "", false
	}
	return raw[start:], true
}

// referenceStart scans raw backwards one word at a time and returns the
// offset of the leftmost word that is made of letters only.
func referenceStart(raw string) (int, bool) {
	start, found := len(raw), false
	end := len(raw)
	for {
		i := end
		for i > 0 && isAlnum(raw[i-1]) {
			i--
		}
		if i == end {
			break
		}
		if isLetters(raw[i:end]) {
			start, found = i, true
		}
		// a single separator joins this word to an alphanumeric one before it
		if i >= 2 && isSpace(raw[i-1]) && isAlnum(raw[i-2]) {
			end = i - 1
			continue
		}
		break
	}
	return start, found
}

func isLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	return true
}

// StartsWithLetter reports whether a token should be resolved as a tag name.
func StartsWithLetter(token string) bool {
	return token != "" && isLetter(token[0])
}

func isAlnum(b byte) bool {
	return isLetter(b) || isDigit(b)
}
func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
func isDigit(b byte) bool {
	return (b >= '0' && b <= '9')
}
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
