package tutorbot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tutormatch/tutorbot/models"
)

func (bot *Bot) tutorName(m Message, sess *Session) []Reply {
	sess.Reg.FullName = strings.TrimSpace(m.Text)
	sess.State = StateTutorPhone
	return []Reply{{
		ChatID:   m.UserID,
		Text:     "Send your phone number (or type it).",
		Keyboard: phoneKeyboard(),
		OneTime:  true,
	}}
}

func (bot *Bot) tutorPhone(m Message, sess *Session) []Reply {
	phone := m.ContactPhone
	if phone == "" {
		phone = strings.TrimSpace(m.Text)
	}
	sess.Reg.Phone = phone
	sess.State = StateTutorCity
	return []Reply{replyPlain(m.UserID, "City?")}
}

func (bot *Bot) tutorCity(m Message, sess *Session) []Reply {
	sess.Reg.City = strings.TrimSpace(m.Text)
	sess.State = StateTutorSubjects
	return []Reply{reply(m.UserID, "Subjects you teach (comma-separated), e.g., Math, Physics, English")}
}

func (bot *Bot) tutorSubjects(m Message, sess *Session) []Reply {
	sess.Reg.Subjects = strings.TrimSpace(m.Text)
	sess.State = StateTutorGrades
	return []Reply{reply(m.UserID, "Grades/Levels you teach (comma-separated), e.g., Grade 7-10, University")}
}

func (bot *Bot) tutorGrades(m Message, sess *Session) []Reply {
	sess.Reg.Grades = strings.TrimSpace(m.Text)
	sess.State = StateTutorExperience
	return []Reply{reply(m.UserID, "Experience years? (number)")}
}

func (bot *Bot) tutorExperience(m Message, sess *Session) []Reply {
	years, err := strconv.Atoi(strings.TrimSpace(m.Text))
	if err != nil || years < 0 || years > 80 {
		return []Reply{reply(m.UserID, "Please enter a valid number of years (e.g., 2).")}
	}
	sess.Reg.ExperienceYears = years
	sess.State = StateTutorMode
	return []Reply{replyKB(m.UserID, "Mode you offer?", modeKeyboardTutor())}
}

func normalizeTutorMode(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "online":
		return "online", true
	case "in-person", "in person":
		return "in-person", true
	case "both":
		return "both", true
	}
	return "", false
}

func (bot *Bot) tutorMode(m Message, sess *Session) []Reply {
	mode, ok := normalizeTutorMode(m.Text)
	if !ok {
		return []Reply{replyKB(m.UserID, "Choose Online / In-person / Both.", modeKeyboardTutor())}
	}
	sess.Reg.Mode = mode
	sess.State = StateTutorRate
	return []Reply{replyPlain(m.UserID, "Hourly rate? (e.g., 300 ETB/hour, $10/hour)")}
}

func (bot *Bot) tutorRate(m Message, sess *Session) []Reply {
	sess.Reg.HourlyRate = strings.TrimSpace(m.Text)
	sess.State = StateTutorBio
	return []Reply{reply(m.UserID, "Short bio (1–3 sentences):")}
}

func (bot *Bot) tutorBio(m Message, sess *Session) []Reply {
	sess.Reg.Bio = strings.TrimSpace(m.Text)
	sess.TestIndex = 0
	sess.TestCorrect = 0
	sess.State = StateScreening
	return []Reply{bot.askQuestion(m.UserID, bot.screening.Question(0))}
}

func (bot *Bot) askQuestion(chatID int64, q Question) Reply {
	return Reply{ChatID: chatID, Text: q.Prompt, Keyboard: questionKeyboard(q), OneTime: true}
}

func (bot *Bot) screeningAnswer(m Message, sess *Session) []Reply {
	q := bot.screening.Question(sess.TestIndex)
	answer := strings.TrimSpace(m.Text)
	if !q.HasOption(answer) {
		return []Reply{
			reply(m.UserID, "Please choose one of the options on the keyboard."),
			bot.askQuestion(m.UserID, q),
		}
	}
	if q.IsCorrect(answer) {
		sess.TestCorrect++
	}
	sess.TestIndex++
	if sess.TestIndex < bot.screening.Len() {
		return []Reply{bot.askQuestion(m.UserID, bot.screening.Question(sess.TestIndex))}
	}

	score := sess.TestCorrect
	status := models.StatusRejected
	if bot.screening.Passed(score) {
		status = models.StatusApproved
	}
	profile := &models.TutorProfile{
		TelegramID:      m.UserID,
		FullName:        sess.Reg.FullName,
		Phone:           sess.Reg.Phone,
		City:            sess.Reg.City,
		Subjects:        sess.Reg.Subjects,
		Grades:          sess.Reg.Grades,
		ExperienceYears: sess.Reg.ExperienceYears,
		Mode:            sess.Reg.Mode,
		HourlyRate:      sess.Reg.HourlyRate,
		Bio:             sess.Reg.Bio,
		TestScore:       score,
	}
	if err := bot.db.SaveTutorProfile(profile, status); err != nil {
		// undo the answer so the last question can be retried
		if q.IsCorrect(answer) {
			sess.TestCorrect--
		}
		sess.TestIndex--
		return []Reply{
			reply(m.UserID, "An error occurred while saving your profile. Please try again."),
			bot.askQuestion(m.UserID, q),
		}
	}

	total := bot.screening.Len()
	resetSubFlow(sess)
	sess.State = StateMenu
	if status == models.StatusApproved {
		return []Reply{{
			ChatID:   m.UserID,
			Text:     fmt.Sprintf("✅ Test complete! Score: %d/%d.\nYou are *APPROVED* as a tutor.", score, total),
			Keyboard: menuKeyboard(models.RoleTutor),
			Markdown: true,
		}}
	}
	return []Reply{{
		ChatID: m.UserID,
		Text: fmt.Sprintf("❌ Test complete. Score: %d/%d.\nYou need at least %d correct.\nStatus: *REJECTED*.\n\nYou can contact admin to retry later.",
			score, total, PassMark),
		Keyboard: menuKeyboard(models.RoleTutor),
		Markdown: true,
	}}
}
