package tutorbot

import (
	"fmt"
	"strings"

	"github.com/tutormatch/tutorbot/models"
)

// State identifies where a user is in the conversation.
type State int

const (
	StateNone State = iota
	StateRoleChoice
	StateMenu

	// student registration chain
	StateStudentName
	StateStudentPhone
	StateStudentCity
	StateStudentGrade
	StateStudentSubject
	StateStudentMode
	StateStudentNotes

	// tutor registration chain
	StateTutorName
	StateTutorPhone
	StateTutorCity
	StateTutorSubjects
	StateTutorGrades
	StateTutorExperience
	StateTutorMode
	StateTutorRate
	StateTutorBio
	StateScreening

	// student search sub-flow
	StateSearchSubject
	StateSearchGrade
	StateSearchCity
	StatePickTutor
	StateWriteRequest
)

var stateNames = map[State]string{
	StateNone:            "none",
	StateRoleChoice:      "role-choice",
	StateMenu:            "menu",
	StateStudentName:     "student-name",
	StateStudentPhone:    "student-phone",
	StateStudentCity:     "student-city",
	StateStudentGrade:    "student-grade",
	StateStudentSubject:  "student-subject",
	StateStudentMode:     "student-mode",
	StateStudentNotes:    "student-notes",
	StateTutorName:       "tutor-name",
	StateTutorPhone:      "tutor-phone",
	StateTutorCity:       "tutor-city",
	StateTutorSubjects:   "tutor-subjects",
	StateTutorGrades:     "tutor-grades",
	StateTutorExperience: "tutor-experience",
	StateTutorMode:       "tutor-mode",
	StateTutorRate:       "tutor-rate",
	StateTutorBio:        "tutor-bio",
	StateScreening:       "screening",
	StateSearchSubject:   "search-subject",
	StateSearchGrade:     "search-grade",
	StateSearchCity:      "search-city",
	StatePickTutor:       "pick-tutor",
	StateWriteRequest:    "write-request",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func reply(chatID int64, text string) Reply {
	return Reply{ChatID: chatID, Text: text}
}

func replyKB(chatID int64, text string, kb Keyboard) Reply {
	return Reply{ChatID: chatID, Text: text, Keyboard: kb}
}

func replyPlain(chatID int64, text string) Reply {
	return Reply{ChatID: chatID, Text: text, RemoveKeyboard: true}
}

func isBackToMenu(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "🏠 back to main menu", "back to main menu", "main menu":
		return true
	}
	return false
}

// resetSubFlow discards everything gathered during the current sub-flow:
// in-progress registration fields, screening progress, and search state.
func resetSubFlow(sess *Session) {
	sess.Reg = Registration{}
	sess.TestIndex = 0
	sess.TestCorrect = 0
	sess.Search = Search{}
}

// Handle runs one inbound message through the state machine and returns the
// outbound messages it produced.
func (bot *Bot) Handle(m Message) []Reply {
	sess := bot.sessions.Get(m.UserID)

	if m.Command != "" {
		switch m.Command {
		case "start":
			return bot.start(m, sess)
		case "cancel":
			return bot.cancel(m)
		}
		return nil
	}

	// The main-menu escape hatch works from every state, checked before any
	// per-state validation. This includes the phone-collection steps.
	if sess.State != StateNone && isBackToMenu(m.Text) {
		return bot.toMenu(m, sess)
	}

	switch sess.State {
	case StateRoleChoice:
		return bot.chooseRole(m, sess)
	case StateMenu:
		return bot.menu(m, sess)

	case StateStudentName:
		return bot.studentName(m, sess)
	case StateStudentPhone:
		return bot.studentPhone(m, sess)
	case StateStudentCity:
		return bot.studentCity(m, sess)
	case StateStudentGrade:
		return bot.studentGrade(m, sess)
	case StateStudentSubject:
		return bot.studentSubject(m, sess)
	case StateStudentMode:
		return bot.studentMode(m, sess)
	case StateStudentNotes:
		return bot.studentNotes(m, sess)

	case StateTutorName:
		return bot.tutorName(m, sess)
	case StateTutorPhone:
		return bot.tutorPhone(m, sess)
	case StateTutorCity:
		return bot.tutorCity(m, sess)
	case StateTutorSubjects:
		return bot.tutorSubjects(m, sess)
	case StateTutorGrades:
		return bot.tutorGrades(m, sess)
	case StateTutorExperience:
		return bot.tutorExperience(m, sess)
	case StateTutorMode:
		return bot.tutorMode(m, sess)
	case StateTutorRate:
		return bot.tutorRate(m, sess)
	case StateTutorBio:
		return bot.tutorBio(m, sess)
	case StateScreening:
		return bot.screeningAnswer(m, sess)

	case StateSearchSubject:
		return bot.searchSubject(m, sess)
	case StateSearchGrade:
		return bot.searchGrade(m, sess)
	case StateSearchCity:
		return bot.searchCity(m, sess)
	case StatePickTutor:
		return bot.pickTutor(m, sess)
	case StateWriteRequest:
		return bot.writeRequest(m, sess)
	}

	return []Reply{reply(m.UserID, "Please /start first.")}
}

// start is the conversation entry point. A returning user jumps straight to
// the menu; a new user chooses a role.
func (bot *Bot) start(m Message, sess *Session) []Reply {
	user, err := bot.db.GetUser(m.UserID)
	if err != nil {
		return []Reply{reply(m.UserID, "An error occurred. Please try again later.")}
	}
	if user != nil {
		resetSubFlow(sess)
		sess.Role = user.Role
		sess.State = StateMenu
		return []Reply{{
			ChatID:   m.UserID,
			Text:     fmt.Sprintf("Welcome back! You are registered as *%s*.\nChoose an option:", user.Role),
			Keyboard: menuKeyboard(user.Role),
			Markdown: true,
		}}
	}
	resetSubFlow(sess)
	sess.State = StateRoleChoice
	return []Reply{{
		ChatID:   m.UserID,
		Text:     "Welcome! This bot connects *students* with *tutors*.\n\nAre you registering as a Student or a Tutor?",
		Keyboard: roleKeyboard(),
		Markdown: true,
	}}
}

func (bot *Bot) cancel(m Message) []Reply {
	bot.sessions.Clear(m.UserID)
	return []Reply{replyPlain(m.UserID, "Cancelled.")}
}

func (bot *Bot) chooseRole(m Message, sess *Session) []Reply {
	switch strings.ToLower(strings.TrimSpace(m.Text)) {
	case models.RoleStudent:
		if err := bot.db.UpsertUser(m.UserID, models.RoleStudent, models.StatusActive); err != nil {
			return []Reply{reply(m.UserID, "An error occurred. Please try again.")}
		}
		sess.Role = models.RoleStudent
		sess.State = StateStudentName
		return []Reply{replyPlain(m.UserID, "Student registration: What is your full name?")}
	case models.RoleTutor:
		if err := bot.db.UpsertUser(m.UserID, models.RoleTutor, models.StatusPending); err != nil {
			return []Reply{reply(m.UserID, "An error occurred. Please try again.")}
		}
		sess.Role = models.RoleTutor
		sess.State = StateTutorName
		return []Reply{replyPlain(m.UserID, "Tutor registration: What is your full name?")}
	}
	return []Reply{replyKB(m.UserID, "Please choose: Student or Tutor.", roleKeyboard())}
}

// toMenu is the global escape hatch. Whatever was gathered in the current
// sub-flow is discarded, not persisted.
func (bot *Bot) toMenu(m Message, sess *Session) []Reply {
	role := sess.Role
	if role == "" {
		role = models.RoleStudent
		if user, err := bot.db.GetUser(m.UserID); err == nil && user != nil {
			role = user.Role
		}
	}
	resetSubFlow(sess)
	sess.Role = role
	sess.State = StateMenu
	return []Reply{replyKB(m.UserID, "Returning to main menu.", menuKeyboard(role))}
}

func (bot *Bot) menu(m Message, sess *Session) []Reply {
	user, err := bot.db.GetUser(m.UserID)
	if err != nil {
		return []Reply{reply(m.UserID, "An error occurred. Please try again later.")}
	}
	if user == nil {
		sess.State = StateNone
		return []Reply{reply(m.UserID, "Please /start first.")}
	}

	choice := strings.ToLower(strings.TrimSpace(m.Text))
	switch {
	case choice == "👤 my profile" || choice == "my profile":
		return bot.showProfile(m.UserID, user)
	case user.Role == models.RoleStudent && (choice == "🔎 search tutors" || choice == "search tutors"):
		sess.Search = Search{}
		sess.State = StateSearchSubject
		return []Reply{replyKB(m.UserID, "Search tutors: enter subject (e.g., Math):", backKeyboard())}
	case user.Role == models.RoleTutor && (choice == "📬 my requests" || choice == "my requests"):
		return bot.showRequests(m.UserID)
	}
	return []Reply{replyKB(m.UserID, "Choose an option from the menu.", menuKeyboard(user.Role))}
}

func (bot *Bot) showProfile(chatID int64, user *models.User) []Reply {
	if user.Role == models.RoleStudent {
		profile, err := bot.db.GetStudentProfile(chatID)
		if err != nil {
			return []Reply{reply(chatID, "An error occurred. Please try again later.")}
		}
		if profile == nil {
			return []Reply{reply(chatID, "No student profile found.")}
		}
		return []Reply{{ChatID: chatID, Text: renderTemplate(studentProfileTmpl, profile), Markdown: true}}
	}
	profile, err := bot.db.GetTutorProfile(chatID)
	if err != nil {
		return []Reply{reply(chatID, "An error occurred. Please try again later.")}
	}
	if profile == nil {
		return []Reply{reply(chatID, "No tutor profile found.")}
	}
	view := tutorProfileView{TutorProfile: *profile, Status: user.Status, Total: bot.screening.Len()}
	return []Reply{{ChatID: chatID, Text: renderTemplate(tutorProfileTmpl, view), Markdown: true}}
}

func (bot *Bot) showRequests(chatID int64) []Reply {
	requests, err := bot.db.RequestsForTutor(chatID, 10)
	if err != nil {
		return []Reply{reply(chatID, "An error occurred. Please try again later.")}
	}
	if len(requests) == 0 {
		return []Reply{reply(chatID, "No requests yet.")}
	}
	lines := []string{"📬 Your latest requests:\n"}
	for i, req := range requests {
		lines = append(lines, fmt.Sprintf("%d) From student %d (%s):\n%s\n",
			i+1, req.StudentID, req.CreatedAt.Format("2006-01-02"), req.Message))
	}
	return []Reply{reply(chatID, strings.Join(lines, "\n"))}
}
