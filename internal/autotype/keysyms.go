package autotype

// keysyms maps characters to X keysym names for the virtual keyboard.
// Letters pass through directly and are not listed.
var keysyms = map[rune]string{
	'!':  "exclam",
	'"':  "quotedbl",
	'#':  "numbersign",
	'$':  "dollar",
	'%':  "percent",
	'&':  "ampersand",
	'\'': "apostrophe",
	'(':  "parenleft",
	')':  "parenright",
	'*':  "asterisk",
	'+':  "plus",
	',':  "comma",
	'-':  "minus",
	'.':  "period",
	'/':  "slash",
	'0':  "zero",
	'1':  "one",
	'2':  "two",
	'3':  "three",
	'4':  "four",
	'5':  "five",
	'6':  "six",
	'7':  "seven",
	'8':  "eight",
	'9':  "nine",
	' ':  "space",
	':':  "colon",
	';':  "semicolon",
	'<':  "less",
	'=':  "equal",
	'>':  "greater",
	'?':  "question",
	'@':  "at",
	'[':  "bracketleft",
	'\\': "backslash",
	']':  "bracketright",
	'^':  "asciicircum",
	'_':  "underscore",
	'`':  "grave",
	'{':  "braceleft",
	'|':  "bar",
	'}':  "braceright",
	'~':  "asciitilde",
	'\n': "Return",
	'\t': "Tab",
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Keysym returns the keysym name for a character, or "" when the
// character has no mapping.
func Keysym(r rune) string {
	if isASCIILetter(r) {
		return string(r)
	}
	return keysyms[r]
}
