package teachback

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var ErrInvalidVerdict = errors.New("invalid verdict format")

// Verdict is the judge's decision on one explanation. Score is 0 when the
// judge did not give one.
type Verdict struct {
	Passed   bool   `json:"passed"`
	Feedback string `json:"feedback"`
	Score    int    `json:"score,omitempty"`
}

// VerificationError wraps anything that went wrong while getting a verdict.
// It is always safe to retry or fall back to a plain completion.
type VerificationError struct {
	Err error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("teach-back verification failed: %v", e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// ExtractJSON returns the first balanced {...} object in text. Braces inside
// JSON strings are ignored.
func ExtractJSON(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if start < 0 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseVerdict pulls the verdict object out of the judge's raw answer
func ParseVerdict(text string) (Verdict, error) {
	raw, ok := ExtractJSON(text)
	if !ok || !gjson.Valid(raw) {
		return Verdict{}, ErrInvalidVerdict
	}

	obj := gjson.Parse(raw)
	passed := obj.Get("passed")
	if passed.Type != gjson.True && passed.Type != gjson.False {
		return Verdict{}, fmt.Errorf("%w: passed must be a boolean", ErrInvalidVerdict)
	}
	feedback := obj.Get("feedback")
	if feedback.Type != gjson.String {
		return Verdict{}, fmt.Errorf("%w: feedback must be a string", ErrInvalidVerdict)
	}

	v := Verdict{Passed: passed.Bool(), Feedback: feedback.String()}
	if score := obj.Get("score"); score.Type == gjson.Number {
		v.Score = min(10, max(1, int(score.Int())))
	}
	return v, nil
}

// Evaluate asks the judge and parses its answer
func Evaluate(ctx context.Context, judge Judge, req Request) (Verdict, error) {
	text, err := judge.Evaluate(ctx, req.normalized())
	if err != nil {
		return Verdict{}, err
	}
	return ParseVerdict(text)
}
