package model

import "errors"

var (
	// ErrNameRequired is returned when a registration is missing the name.
	ErrNameRequired = errors.New("name is required")
	// ErrParticipantNotFound is returned when a token references a cleared registry entry.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrRoundLocked is returned when input arrives after the round locked.
	ErrRoundLocked = errors.New("round is locked")
	// ErrInputSuppressed is returned for selections inside the just-opened grace window.
	ErrInputSuppressed = errors.New("input suppressed right after question opened")
	// ErrOptionOutOfRange is returned for a selection outside the question's options.
	ErrOptionOutOfRange = errors.New("option index out of range")
	// ErrQuestionOutOfRange is returned for an answer aimed at a question index
	// outside the loaded set.
	ErrQuestionOutOfRange = errors.New("question index out of range")
	// ErrGameFinished is returned for actions after the question sequence ended.
	ErrGameFinished = errors.New("game is finished")
	// ErrScoreAlreadySaved is returned when an idempotency key has already been used.
	ErrScoreAlreadySaved = errors.New("score already saved")
)
