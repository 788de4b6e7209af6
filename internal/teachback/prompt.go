package teachback

import (
	"fmt"
	"strings"
)

const (
	// MinExplanationLength is the trimmed length below which an explanation
	// is turned down without asking the judge
	MinExplanationLength = 10

	// CoachingMessage is shown when an explanation is too short to judge
	CoachingMessage = "Please write a bit more about what you learned! Try to explain it like you're teaching a friend."

	// FailureMessage is shown when the judge could not be reached or understood
	FailureMessage = "Oops! Something went wrong. Let's try again or just click 'Done' for regular points."

	defaultSubject = "general"
)

// Request is what gets sent to the judge for one explanation
type Request struct {
	TaskTitle   string `json:"taskTitle"`
	Subject     string `json:"subject,omitempty"`
	Explanation string `json:"explanation"`
}

// normalized trims the fields and fills in the default subject
func (r Request) normalized() Request {
	r.TaskTitle = strings.TrimSpace(r.TaskTitle)
	r.Explanation = strings.TrimSpace(r.Explanation)
	r.Subject = strings.TrimSpace(r.Subject)
	if r.Subject == "" {
		r.Subject = defaultSubject
	}
	return r
}

// BuildPrompt renders the grading instructions for the judge
func BuildPrompt(req Request) string {
	req = req.normalized()
	return fmt.Sprintf(`You are grading a child's "teach back" explanation for a learning task. The child has just finished "%s" (subject: %s) and is explaining what they learned.

Their explanation: "%s"

Decide whether the explanation shows genuine understanding. Be encouraging but fair. The children are 9 to 13 years old.

Reply with exactly this JSON and nothing else:
{
  "passed": true or false,
  "feedback": "One or two short, encouraging sentences. Celebrate what they understood if they passed, otherwise gently suggest what they could add or explain better.",
  "score": a whole number from 1 to 10 for depth of understanding
}

Rules:
- Pass when there is ANY real understanding of the topic (score 5 or more)
- Be generous, they are kids who are still learning
- A vague or very short answer (fewer than 10 words) does not pass
- "I don't know" or gibberish does not pass
- Stay encouraging even when the answer does not pass`, req.TaskTitle, req.Subject, req.Explanation)
}
