package tutorbot

// PassMark is the minimum number of correct answers a tutor needs to be
// approved.
const PassMark = 2

// Question is one multiple-choice screening question. Correct indexes into
// Options.
type Question struct {
	Prompt  string
	Options []string
	Correct int
}

// HasOption reports whether answer exactly matches one of the options.
// Matching is case-sensitive on purpose: the options are presented as
// keyboard buttons, so a tutor typing a variant spelling did not pick one.
func (q Question) HasOption(answer string) bool {
	for _, o := range q.Options {
		if o == answer {
			return true
		}
	}
	return false
}

// IsCorrect reports whether answer is the designated correct option.
func (q Question) IsCorrect(answer string) bool {
	return answer == q.Options[q.Correct]
}

// Screening holds the fixed ordered question bank and the pass threshold.
// It is stateless; a tutor's progress lives in their session.
type Screening struct {
	questions []Question
	passMark  int
}

func NewScreening() *Screening {
	return &Screening{questions: defaultQuestions, passMark: PassMark}
}

func (s *Screening) Len() int { return len(s.questions) }

func (s *Screening) Question(i int) Question { return s.questions[i] }

// Passed reports whether the given correct-answer count meets the pass mark.
func (s *Screening) Passed(correct int) bool { return correct >= s.passMark }

var defaultQuestions = []Question{
	{
		Prompt:  "Q1) What is 12 + 8?",
		Options: []string{"18", "20", "22"},
		Correct: 1,
	},
	{
		Prompt:  "Q2) Which is a prime number?",
		Options: []string{"21", "27", "29"},
		Correct: 2,
	},
	{
		Prompt:  "Q3) Simplify: 3 * (4 + 2)",
		Options: []string{"18", "20", "24"},
		Correct: 0,
	},
}
