package autotype

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/quillsafe/quill/internal/accounts"
	qerrors "github.com/quillsafe/quill/internal/errors"
	logger "github.com/quillsafe/quill/internal/logging"
)

// commandToken matches single-brace command segments: {tab}, {return},
// {sleep 2}, {passcode}, {questions.0}.
var commandToken = regexp.MustCompile(`\{[\w. ]+\}`)

// DefaultScript synthesizes the script used when a disclosure request
// carries none: type the default field, then press return.
func DefaultScript(field string) string {
	return fmt.Sprintf("{%s}{return}", field)
}

// Interpreter parses and executes autotype scripts against an account.
type Interpreter struct {
	Sink KeyboardSink
	Log  logger.Logger

	// InitialDelay is applied once before the first keystroke so the
	// target window's focus can settle.
	InitialDelay time.Duration

	// Sleep overrides time.Sleep, for tests.
	Sleep func(time.Duration)
}

// Run executes script against the account's fields, sending keystrokes
// through the sink. It returns the redacted transcript, which is the only
// rendering of the run that may be logged: every secret field appears as
// <name> instead of its value.
func (in *Interpreter) Run(account *accounts.Account, script string) (string, error) {
	segments, err := tokenize(script)
	if err != nil {
		return "", err
	}

	sleep := in.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	sleep(in.InitialDelay)

	var pending strings.Builder
	var transcript strings.Builder

	for _, seg := range segments {
		switch seg.kind {
		case segLiteral:
			pending.WriteString(seg.text)
			transcript.WriteString(seg.text)

		case segTab:
			pending.WriteByte('\t')
			transcript.WriteByte('\t')

		case segReturn:
			pending.WriteByte('\n')
			transcript.WriteByte('\n')

		case segSleep:
			// Flush buffered keystrokes before pausing so the pause
			// lands where the script put it.
			if err := in.sendKeystrokes(pending.String()); err != nil {
				return transcript.String(), err
			}
			pending.Reset()
			sleep(time.Duration(seg.seconds * float64(time.Second)))
			transcript.WriteString(fmt.Sprintf("<sleep %s>", seg.text))

		case segField:
			secret, err := account.GetField(seg.text)
			if err != nil {
				return transcript.String(), &qerrors.ScriptError{
					Token:  "{" + seg.text + "}",
					Reason: err.Error(),
				}
			}
			pending.WriteString(secret.Value)
			if secret.IsSecret {
				transcript.WriteString("<" + seg.text + ">")
			} else {
				transcript.WriteString(secret.Value)
			}
		}
	}

	in.Log.Infof("Autotyping %q", transcript.String())
	if err := in.sendKeystrokes(pending.String()); err != nil {
		return transcript.String(), err
	}
	return transcript.String(), nil
}

// sendKeystrokes converts text character-by-character into keysyms and
// types them. A character with no mapping is reported and skipped; the
// rest of the text is still typed in order.
func (in *Interpreter) sendKeystrokes(text string) error {
	if text == "" {
		return nil
	}

	syms := make([]string, 0, len(text))
	for _, r := range text {
		sym := Keysym(r)
		if sym == "" {
			in.Log.Errorf("cannot map character %q to keysym, skipping", r)
			continue
		}
		syms = append(syms, sym)
	}
	return in.Sink.Type(syms)
}

type segmentKind int

const (
	segLiteral segmentKind = iota
	segTab
	segReturn
	segSleep
	segField
)

type segment struct {
	kind    segmentKind
	text    string
	seconds float64
}

// tokenize splits a script into alternating literal and command segments.
// Malformed commands fail the whole script up front, before any keystroke
// is sent.
func tokenize(script string) ([]segment, error) {
	var segments []segment
	last := 0

	for _, loc := range commandToken.FindAllStringIndex(script, -1) {
		if loc[0] > last {
			segments = append(segments, segment{kind: segLiteral, text: script[last:loc[0]]})
		}
		last = loc[1]

		cmd := strings.ToLower(script[loc[0]+1 : loc[1]-1])
		switch {
		case cmd == "tab":
			segments = append(segments, segment{kind: segTab})
		case cmd == "return":
			segments = append(segments, segment{kind: segReturn})
		case strings.HasPrefix(cmd, "sleep ") || cmd == "sleep":
			parts := strings.Fields(cmd)
			if len(parts) != 2 {
				return nil, &qerrors.ScriptError{Token: script[loc[0]:loc[1]], Reason: "sleep takes exactly one argument"}
			}
			seconds, err := strconv.ParseFloat(parts[1], 64)
			if err != nil || seconds < 0 {
				return nil, &qerrors.ScriptError{Token: script[loc[0]:loc[1]], Reason: "sleep duration must be a non-negative number"}
			}
			segments = append(segments, segment{kind: segSleep, text: parts[1], seconds: seconds})
		default:
			segments = append(segments, segment{kind: segField, text: script[loc[0]+1 : loc[1]-1]})
		}
	}

	if last < len(script) {
		segments = append(segments, segment{kind: segLiteral, text: script[last:]})
	}
	return segments, nil
}
