package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Note() NoteRepository
	BusinessCard() BusinessCardRepository

	Close() error
}
