package app

import (
	"slices"

	"trivia-quiz/internal/domain"
)

// Session is a single quiz run. It is not safe for concurrent use; the
// Controller serializes access.
type Session struct {
	generation uint64
	questions  []domain.Question
	position   int
	choices    []string
	selected   string
	hasChoice  bool
	score      int
	phase      domain.Phase
	err        error
}

func newSession(generation uint64) *Session {
	return &Session{generation: generation, phase: domain.PhaseLoading}
}

// load installs the fetched questions and activates the first one.
func (s *Session) load(questions []domain.Question, shuffler *Shuffler) {
	s.questions = questions
	s.position = 0
	s.score = 0
	s.selected, s.hasChoice = "", false
	s.choices = shuffler.Shuffle(questions[0])
	s.phase = domain.PhaseAnswering
}

func (s *Session) fail(err error) {
	s.phase = domain.PhaseFailed
	s.err = err
}

// SelectAnswer records the latest pick for the active question.
func (s *Session) SelectAnswer(choice string) error {
	if s.phase != domain.PhaseAnswering {
		return domain.ErrNotAnswering
	}
	if !slices.Contains(s.choices, choice) {
		return domain.ErrUnknownChoice
	}
	s.selected, s.hasChoice = choice, true
	return nil
}

// Advance scores the current selection and moves to the next question or
// completes the quiz.
func (s *Session) Advance(shuffler *Shuffler) error {
	if s.phase != domain.PhaseAnswering {
		return domain.ErrNotAnswering
	}
	if !s.hasChoice {
		return domain.ErrNoSelection
	}

	if s.selected == s.questions[s.position].CorrectAnswer {
		s.score++
	}

	if s.position < len(s.questions)-1 {
		s.position++
		s.selected, s.hasChoice = "", false
		s.choices = shuffler.Shuffle(s.questions[s.position])
		return nil
	}
	s.phase = domain.PhaseComplete
	return nil
}

// View renders the session into a presentation snapshot.
func (s *Session) View() domain.View {
	v := domain.View{
		Generation: s.generation,
		Phase:      s.phase,
		Total:      len(s.questions),
		Score:      s.score,
	}
	if s.phase == domain.PhaseFailed && s.err != nil {
		v.Error = s.err.Error()
	}
	if s.phase != domain.PhaseAnswering {
		return v
	}

	q := s.questions[s.position]
	v.Index = s.position + 1
	v.Question = q.Text
	v.Category = q.Category
	v.Difficulty = q.Difficulty
	v.Choices = slices.Clone(s.choices)
	if s.hasChoice {
		v.Selected = s.selected
	}
	v.AdvanceLabel = domain.AdvanceNext
	if s.position == len(s.questions)-1 {
		v.AdvanceLabel = domain.AdvanceFinish
	}
	return v
}
