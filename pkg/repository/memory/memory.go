package memory

import (
	"github.com/selene-notes/selene/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-memory repository used for development and tests. It
// mirrors the Firestore backend's semantics, including the prefix-range
// search ordering, so the shared repository test suites run against both.
type Memory struct {
	note *noteRepository
	card *businessCardRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		note: newNoteRepository(),
		card: newBusinessCardRepository(),
	}
}

func (m *Memory) Note() interfaces.NoteRepository {
	return m.note
}

func (m *Memory) BusinessCard() interfaces.BusinessCardRepository {
	return m.card
}

func (m *Memory) Close() error {
	return nil
}
