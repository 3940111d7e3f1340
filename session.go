package tutorbot

import (
	"sync"

	"github.com/tutormatch/tutorbot/models"
)

// Registration collects field values during a registration chain. Student and
// tutor chains share one struct; each chain only touches its own fields.
type Registration struct {
	FullName string
	Phone    string
	City     string
	Notes    string

	// student only
	Grade         string
	SubjectNeeded string

	// tutor only
	Subjects        string
	Grades          string
	ExperienceYears int
	HourlyRate      string
	Bio             string

	Mode string
}

// Search holds the state of a student's search sub-flow: the collected
// filters, the cached result page, and the picked tutor.
type Search struct {
	Subject string
	Grade   string
	City    string

	Results   []models.TutorProfile
	TutorID   int64
	TutorName string
}

// Session is the per-user conversational context. It lives only for the
// duration of one conversation and is never persisted.
type Session struct {
	State State
	Role  string

	Reg Registration

	// screening progress
	TestIndex   int
	TestCorrect int

	Search Search
}

// Sessions stores the session for each user, keyed by telegram id. Distinct
// users' sessions are independent; the lock only guards the map itself.
type Sessions struct {
	mu     sync.Mutex
	byUser map[int64]*Session
}

func NewSessions() *Sessions {
	return &Sessions{byUser: make(map[int64]*Session)}
}

// Get returns the session for the given user, creating one if needed.
func (s *Sessions) Get(telegramID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byUser[telegramID]
	if !ok {
		sess = &Session{State: StateNone}
		s.byUser[telegramID] = sess
	}
	return sess
}

// Clear removes the session for the given user.
func (s *Sessions) Clear(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, telegramID)
}
