package app

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// SessionPhase is the trivia state machine phase.
type SessionPhase int

const (
	PhaseAwaitingAnswer SessionPhase = iota
	PhaseShowingFeedback
	PhaseCompleted
)

// QuestionView is what the display shows for the current question.
type QuestionView struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Index   int      `json:"index"`
	Total   int      `json:"total"`
	Score   int      `json:"score"`
}

// Feedback reports the outcome of one submission.
type Feedback struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Index         int    `json:"index"`
	Score         int    `json:"score"`
}

// Result is the final report for a completed round.
type Result struct {
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	Title      string `json:"title"`
	Message    string `json:"message"`
}

// SessionEvent is pushed to subscribers as the round advances. Exactly one
// of the payload fields is set, matching Type.
type SessionEvent struct {
	Type     string        `json:"type"` // "question", "feedback", "result"
	Question *QuestionView `json:"question,omitempty"`
	Feedback *Feedback     `json:"feedback,omitempty"`
	Result   *Result       `json:"result,omitempty"`
}

// TriviaSession runs one quiz round to completion. It lives only in
// memory and is discarded when the round ends or the player navigates
// away. Feedback is always delivered before the next question: the
// feedback event is broadcast synchronously on submission and the
// advance happens on a delayed timer.
type TriviaSession struct {
	mu          sync.Mutex
	questions   []TriviaQuestion
	index       int
	score       int
	phase       SessionPhase
	answered    bool
	abandoned   bool
	generation  uint64
	delay       time.Duration
	timer       *time.Timer
	subscribers map[chan SessionEvent]struct{}
}

func newTriviaSession(questions []TriviaQuestion, delay time.Duration) *TriviaSession {
	return &TriviaSession{
		questions:   questions,
		phase:       PhaseAwaitingAnswer,
		delay:       delay,
		subscribers: make(map[chan SessionEvent]struct{}),
	}
}

// CurrentQuestion returns the question awaiting an answer. ok is false
// once the round has completed or been abandoned.
func (s *TriviaSession) CurrentQuestion() (QuestionView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.abandoned || s.index >= len(s.questions) {
		return QuestionView{}, false
	}
	return s.questionViewLocked(), true
}

// Score returns the running score and the round length.
func (s *TriviaSession) Score() (score, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score, len(s.questions)
}

// Phase returns the current state machine phase.
func (s *TriviaSession) Phase() SessionPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Submit records an answer for the current question. Submissions outside
// AwaitingAnswer, repeats for an already-answered question, and
// submissions after abandonment are ignored: accepted is false and
// nothing changes. The answer literal must equal the designated correct
// literal exactly; no fuzzy matching.
func (s *TriviaSession) Submit(answer string) (Feedback, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.abandoned || s.phase != PhaseAwaitingAnswer || s.answered || s.index >= len(s.questions) {
		return Feedback{}, false
	}

	question := s.questions[s.index]
	s.answered = true
	correct := answer == question.CorrectAnswer
	if correct {
		s.score++
	}
	s.phase = PhaseShowingFeedback

	fb := Feedback{
		Correct:       correct,
		CorrectAnswer: question.CorrectAnswer,
		Index:         s.index,
		Score:         s.score,
	}
	s.broadcastLocked(SessionEvent{Type: "feedback", Feedback: &fb})

	// The timer callback carries the generation it was scheduled under so
	// a stale timer from an abandoned round can never advance a newer one.
	gen := s.generation
	s.timer = time.AfterFunc(s.delay, func() { s.advance(gen) })

	return fb, true
}

// advance moves feedback -> next question, or feedback -> completed.
func (s *TriviaSession) advance(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.abandoned || gen != s.generation || s.phase != PhaseShowingFeedback {
		return
	}

	s.index++
	s.answered = false
	if s.index < len(s.questions) {
		s.phase = PhaseAwaitingAnswer
		view := s.questionViewLocked()
		s.broadcastLocked(SessionEvent{Type: "question", Question: &view})
		return
	}

	s.phase = PhaseCompleted
	result := classifyResult(s.score, len(s.questions))
	s.broadcastLocked(SessionEvent{Type: "result", Result: &result})
}

// Result reports the final outcome; ok is false until the round completes.
func (s *TriviaSession) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseCompleted {
		return Result{}, false
	}
	return classifyResult(s.score, len(s.questions)), true
}

// Abandon discards the session: the pending advance timer is stopped and
// any callback already in flight becomes a no-op. Subscriber channels are
// closed. Safe to call more than once.
func (s *TriviaSession) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.abandoned {
		return
	}
	s.abandoned = true
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
	}
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

// Subscribe returns a channel of session events, primed with the current
// question. The caller must invoke the returned cancel function to avoid leaks.
func (s *TriviaSession) Subscribe() (<-chan SessionEvent, func()) {
	ch := make(chan SessionEvent, 8)

	s.mu.Lock()
	if s.abandoned {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	var initial SessionEvent
	if s.phase == PhaseCompleted {
		result := classifyResult(s.score, len(s.questions))
		initial = SessionEvent{Type: "result", Result: &result}
	} else {
		view := s.questionViewLocked()
		initial = SessionEvent{Type: "question", Question: &view}
	}
	// Send while still holding the lock: a concurrent Abandon would
	// otherwise close ch between registration and the primed send.
	ch <- initial
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *TriviaSession) questionViewLocked() QuestionView {
	question := s.questions[s.index]
	options := make([]string, len(question.Options))
	copy(options, question.Options)
	return QuestionView{
		Prompt:  question.Prompt,
		Options: options,
		Index:   s.index,
		Total:   len(s.questions),
		Score:   s.score,
	}
}

func (s *TriviaSession) broadcastLocked(event SessionEvent) {
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// drop the oldest buffered event rather than block the round
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}

// classifyResult maps a score onto one of three bands. Thresholds are
// monotonic and cover all of [0,100].
func classifyResult(score, total int) Result {
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(score) / float64(total) * 100))
	}
	var title, message string
	switch {
	case percentage >= 80:
		title = "Amazing!"
		message = fmt.Sprintf("You know your family so well! You scored %d out of %d (%d%%)", score, total, percentage)
	case percentage >= 60:
		title = "Great Job!"
		message = fmt.Sprintf("You did well! You scored %d out of %d (%d%%)", score, total, percentage)
	default:
		title = "Keep Learning!"
		message = fmt.Sprintf("You scored %d out of %d (%d%%). Check the profiles to learn more!", score, total, percentage)
	}
	return Result{
		Score:      score,
		Total:      total,
		Percentage: percentage,
		Title:      title,
		Message:    message,
	}
}
