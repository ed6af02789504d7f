package app

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"family-hub-service/internal/domain"
)

// MaxQuestions caps a trivia round.
const MaxQuestions = 5

// maxWrongAnswers is how many decoys accompany the correct answer.
const maxWrongAnswers = 3

// TriviaQuestion is one generated multiple-choice question. Options are
// already in presentation order; CorrectAnswer appears among them exactly once.
type TriviaQuestion struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"-"`
	ChildName     string   `json:"-"`
}

// questionTemplate ties one attribute (or record-level field) to question
// wording and a fixed pool of plausible wrong answers. The pools are
// static configuration, not derived from stored data.
type questionTemplate struct {
	prompt       func(domain.ChildRecord) string
	answer       func(domain.ChildRecord) (string, bool)
	wrongAnswers []string
}

func questionCatalog() []questionTemplate {
	return []questionTemplate{
		{
			prompt: func(c domain.ChildRecord) string {
				return fmt.Sprintf("What size shirt does %s wear?", c.DisplayName)
			},
			answer: func(c domain.ChildRecord) (string, bool) {
				v, ok := c.Attribute(domain.AttrShirtSize)
				if !ok {
					return "", false
				}
				return v.First()
			},
			wrongAnswers: []string{"XS", "S", "M", "L", "XL", "8", "10", "12"},
		},
		{
			prompt: func(c domain.ChildRecord) string {
				return fmt.Sprintf("What type of pants does %s prefer?", c.DisplayName)
			},
			answer: func(c domain.ChildRecord) (string, bool) {
				v, ok := c.Attribute(domain.AttrPantsPreference)
				if !ok {
					return "", false
				}
				return v.First()
			},
			wrongAnswers: []string{"jeans", "leggings", "sweatpants", "shorts"},
		},
		{
			prompt: func(c domain.ChildRecord) string {
				return fmt.Sprintf("What kind of toys does %s like best?", c.DisplayName)
			},
			answer: func(c domain.ChildRecord) (string, bool) {
				v, ok := c.Attribute(domain.AttrToyPreference)
				if !ok {
					return "", false
				}
				return v.First()
			},
			wrongAnswers: []string{"building", "dolls", "art", "sports", "books", "puzzles", "video-games"},
		},
		{
			prompt: func(c domain.ChildRecord) string {
				return fmt.Sprintf("Which is one of %s's favorite colors?", c.DisplayName)
			},
			answer: func(c domain.ChildRecord) (string, bool) {
				v, ok := c.Attribute(domain.AttrFavoriteColors)
				if !ok {
					return "", false
				}
				return v.First()
			},
			wrongAnswers: []string{"red", "blue", "green", "pink", "purple", "yellow", "black", "white"},
		},
		{
			prompt: func(c domain.ChildRecord) string {
				return fmt.Sprintf("How old is %s?", c.DisplayName)
			},
			answer: func(c domain.ChildRecord) (string, bool) {
				if c.AgeYears <= 0 {
					return "", false
				}
				return strconv.Itoa(c.AgeYears), true
			},
			wrongAnswers: []string{"5", "6", "7", "8", "9", "10", "11", "12", "13", "14", "15"},
		},
	}
}

// ChildSource is the read-only view of the profile collection the trivia
// engine consumes. A quiz takes its snapshot once at start; later profile
// edits do not affect a round in progress.
type ChildSource interface {
	Children(ctx context.Context) ([]domain.ChildRecord, error)
}

// TriviaService derives quiz rounds from stored child records.
type TriviaService struct {
	source        ChildSource
	catalog       []questionTemplate
	feedbackDelay time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewTriviaService(source ChildSource, feedbackDelay time.Duration) *TriviaService {
	return &TriviaService{
		source:        source,
		catalog:       questionCatalog(),
		feedbackDelay: feedbackDelay,
		rnd:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateQuestions builds at most MaxQuestions questions from every
// eligible (child, template) pair. A pair is eligible when its answer
// value exists and is non-empty; partially filled profiles are the
// expected steady state, so ineligible pairs are skipped silently.
func (s *TriviaService) GenerateQuestions(ctx context.Context) ([]TriviaQuestion, error) {
	children, err := s.source.Children(ctx)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, domain.ErrNoProfiles
	}

	var questions []TriviaQuestion
	for _, child := range children {
		for _, tpl := range s.catalog {
			answer, ok := tpl.answer(child)
			if !ok || answer == "" {
				continue
			}
			options := append([]string{answer}, s.sampleWrongAnswers(tpl.wrongAnswers, answer)...)
			s.shuffleStrings(options)
			questions = append(questions, TriviaQuestion{
				Prompt:        tpl.prompt(child),
				Options:       options,
				CorrectAnswer: answer,
				ChildName:     child.DisplayName,
			})
		}
	}
	if len(questions) == 0 {
		return nil, domain.ErrInsufficientData
	}

	s.shuffleQuestions(questions)
	if len(questions) > MaxQuestions {
		questions = questions[:MaxQuestions]
	}
	return questions, nil
}

// StartSession generates a round and returns a fresh session. The session
// is exclusively owned by the caller driving the quiz screen.
func (s *TriviaService) StartSession(ctx context.Context) (*TriviaSession, error) {
	questions, err := s.GenerateQuestions(ctx)
	if err != nil {
		return nil, err
	}
	return newTriviaSession(questions, s.feedbackDelay), nil
}

// sampleWrongAnswers removes the correct literal from the pool, then takes
// a uniform sample without replacement of up to maxWrongAnswers items.
// Pools smaller than that after removal yield fewer decoys.
func (s *TriviaService) sampleWrongAnswers(pool []string, correct string) []string {
	candidates := make([]string, 0, len(pool))
	for _, w := range pool {
		if w != correct {
			candidates = append(candidates, w)
		}
	}
	s.shuffleStrings(candidates)
	if len(candidates) > maxWrongAnswers {
		candidates = candidates[:maxWrongAnswers]
	}
	return candidates
}

func (s *TriviaService) shuffleStrings(items []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rnd.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

func (s *TriviaService) shuffleQuestions(items []TriviaQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rnd.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
