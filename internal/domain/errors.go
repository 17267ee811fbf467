package domain

import "errors"

var (
	// ErrFetchFailed wraps any failure to obtain questions from the source.
	ErrFetchFailed = errors.New("fetch questions failed")
	// ErrNoQuestions is returned when a source delivers an empty question set.
	ErrNoQuestions = errors.New("no questions returned")
	// ErrInvalidQuestion indicates a question breaks the answer invariants.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrNoSelection is returned when advancing without a selected answer.
	ErrNoSelection = errors.New("please select an answer")
	// ErrUnknownChoice indicates the choice is not among the current options.
	ErrUnknownChoice = errors.New("choice not offered for current question")
	// ErrNotAnswering is returned for answer operations outside the answering phase.
	ErrNotAnswering = errors.New("quiz is not accepting answers")
	// ErrSessionNotFound is returned when a quiz session is not registered.
	ErrSessionNotFound = errors.New("quiz session not found")
)
