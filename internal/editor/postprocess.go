package editor

import (
	"regexp"
	"strings"

	"github.com/quillsafe/quill/internal/accounts"
)

// InstructionPrefix marks template comment lines that are stripped before
// validation, so templates can carry editing instructions that never land
// in the accounts file.
const InstructionPrefix = "# quill:"

var concealSpan = regexp.MustCompile(`<<(.*?)>>`)

// StripInstructions removes instructional comment lines from edited text.
func StripInstructions(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), InstructionPrefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimRight(strings.Join(kept, "\n"), "\n") + "\n"
}

// ConcealSpans rewrites <<text>> spans into their obscured stored form,
// so values typed in the clear during an add session are not stored in
// the clear.
func ConcealSpans(text string) string {
	return concealSpan.ReplaceAllStringFunc(text, func(match string) string {
		inner := strings.TrimSuffix(strings.TrimPrefix(match, "<<"), ">>")
		return accounts.Conceal(inner)
	})
}

// PostProcess applies the standard pipeline: strip instructions, then
// conceal marked spans.
func PostProcess(text string) string {
	return ConcealSpans(StripInstructions(text))
}
