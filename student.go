package tutorbot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tutormatch/tutorbot/models"
)

func (bot *Bot) studentName(m Message, sess *Session) []Reply {
	sess.Reg.FullName = strings.TrimSpace(m.Text)
	sess.State = StateStudentPhone
	return []Reply{{
		ChatID:   m.UserID,
		Text:     "Send your phone number (or type it).",
		Keyboard: phoneKeyboard(),
		OneTime:  true,
	}}
}

func (bot *Bot) studentPhone(m Message, sess *Session) []Reply {
	// a shared contact wins over typed text
	phone := m.ContactPhone
	if phone == "" {
		phone = strings.TrimSpace(m.Text)
	}
	sess.Reg.Phone = phone
	sess.State = StateStudentCity
	return []Reply{replyPlain(m.UserID, "City?")}
}

func (bot *Bot) studentCity(m Message, sess *Session) []Reply {
	sess.Reg.City = strings.TrimSpace(m.Text)
	sess.State = StateStudentGrade
	return []Reply{replyPlain(m.UserID, "Grade/Level? (e.g., Grade 10, University 1st year, etc.)")}
}

func (bot *Bot) studentGrade(m Message, sess *Session) []Reply {
	sess.Reg.Grade = strings.TrimSpace(m.Text)
	sess.State = StateStudentSubject
	return []Reply{replyPlain(m.UserID, "Which subject do you need a tutor for? (e.g., Math, English, Physics)")}
}

func (bot *Bot) studentSubject(m Message, sess *Session) []Reply {
	sess.Reg.SubjectNeeded = strings.TrimSpace(m.Text)
	sess.State = StateStudentMode
	return []Reply{replyKB(m.UserID, "Preferred mode?", modeKeyboardStudent())}
}

func normalizeStudentMode(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "online":
		return "online", true
	case "in-person", "in person", "inperson":
		return "in-person", true
	}
	return "", false
}

func (bot *Bot) studentMode(m Message, sess *Session) []Reply {
	mode, ok := normalizeStudentMode(m.Text)
	if !ok {
		return []Reply{replyKB(m.UserID, "Choose Online or In-person.", modeKeyboardStudent())}
	}
	sess.Reg.Mode = mode
	sess.State = StateStudentNotes
	return []Reply{replyPlain(m.UserID, "Any notes? (or type 'none')")}
}

func (bot *Bot) studentNotes(m Message, sess *Session) []Reply {
	notes := strings.TrimSpace(m.Text)
	if strings.ToLower(notes) == "none" {
		notes = ""
	}
	profile := &models.StudentProfile{
		TelegramID:    m.UserID,
		FullName:      sess.Reg.FullName,
		Phone:         sess.Reg.Phone,
		City:          sess.Reg.City,
		Grade:         sess.Reg.Grade,
		SubjectNeeded: sess.Reg.SubjectNeeded,
		Mode:          sess.Reg.Mode,
		Notes:         notes,
	}
	if err := bot.db.SaveStudentProfile(profile); err != nil {
		return []Reply{reply(m.UserID, "An error occurred while saving your profile. Please try again.")}
	}
	resetSubFlow(sess)
	sess.State = StateMenu
	return []Reply{replyKB(m.UserID,
		"✅ Student registration complete!\nChoose an option:",
		menuKeyboard(models.RoleStudent))}
}

// search sub-flow

func (bot *Bot) searchSubject(m Message, sess *Session) []Reply {
	sess.Search.Subject = strings.TrimSpace(m.Text)
	sess.State = StateSearchGrade
	return []Reply{replyKB(m.UserID, "Optional: Enter grade filter (or type 'skip'):", backKeyboard())}
}

func (bot *Bot) searchGrade(m Message, sess *Session) []Reply {
	grade := strings.TrimSpace(m.Text)
	if strings.ToLower(grade) == "skip" {
		grade = ""
	}
	sess.Search.Grade = grade
	sess.State = StateSearchCity
	return []Reply{replyKB(m.UserID, "Optional: Enter city filter (or type 'skip'):", backKeyboard())}
}

func (bot *Bot) searchCity(m Message, sess *Session) []Reply {
	city := strings.TrimSpace(m.Text)
	if strings.ToLower(city) == "skip" {
		city = ""
	}
	sess.Search.City = city

	results, err := bot.db.SearchTutors(sess.Search.Subject, sess.Search.Grade, sess.Search.City)
	if err != nil {
		sess.Search = Search{}
		sess.State = StateMenu
		return []Reply{replyKB(m.UserID,
			"An error occurred while searching. Try again from the menu.",
			menuKeyboard(models.RoleStudent))}
	}
	if len(results) == 0 {
		sess.Search = Search{}
		sess.State = StateMenu
		return []Reply{replyKB(m.UserID,
			"No approved tutors found for that search.\nTry again from the menu.",
			menuKeyboard(models.RoleStudent))}
	}

	if len(results) > 10 {
		results = results[:10]
	}
	lines := []string{"✅ Found tutors:\n"}
	for i, t := range results {
		lines = append(lines, fmt.Sprintf("%d) %s | %s | %s | Exp:%dy | %s",
			i+1, t.FullName, t.City, t.Subjects, t.ExperienceYears, t.HourlyRate))
	}
	sess.Search.Results = results
	sess.State = StatePickTutor
	return []Reply{replyKB(m.UserID,
		strings.Join(lines, "\n")+"\n\nReply with the tutor number to send a request (e.g., 1).",
		backKeyboard())}
}

func (bot *Bot) pickTutor(m Message, sess *Session) []Reply {
	choice, err := strconv.Atoi(strings.TrimSpace(m.Text))
	if err != nil {
		return []Reply{reply(m.UserID, "Please type a number (e.g., 1).")}
	}
	if choice < 1 || choice > len(sess.Search.Results) {
		return []Reply{reply(m.UserID, "Number out of range. Try again.")}
	}
	tutor := sess.Search.Results[choice-1]
	sess.Search.TutorID = tutor.TelegramID
	sess.Search.TutorName = tutor.FullName
	sess.State = StateWriteRequest
	return []Reply{replyKB(m.UserID,
		fmt.Sprintf("Write a message request to %s (include your availability, topic, etc.):", tutor.FullName),
		backKeyboard())}
}

func (bot *Bot) writeRequest(m Message, sess *Session) []Reply {
	message := strings.TrimSpace(m.Text)
	if message == "" {
		return []Reply{reply(m.UserID, "Please write a short message for the tutor.")}
	}
	if err := bot.db.CreateContactRequest(m.UserID, sess.Search.TutorID, message); err != nil {
		return []Reply{reply(m.UserID, "An error occurred while sending your request.")}
	}

	// the phone goes into the notification from the stored profile, not the
	// session, so it is current even if this conversation never collected it
	phone := ""
	if profile, err := bot.db.GetStudentProfile(m.UserID); err == nil && profile != nil {
		phone = profile.Phone
	}
	notice := renderTemplate(requestNotificationTmpl, requestNotificationView{
		StudentID: m.UserID,
		Message:   message,
		Phone:     phone,
	})

	tutorID, tutorName := sess.Search.TutorID, sess.Search.TutorName
	sess.Search = Search{}
	sess.State = StateMenu
	return []Reply{
		{ChatID: tutorID, Text: notice, Markdown: true},
		replyKB(m.UserID,
			fmt.Sprintf("✅ Your request was sent to %s.\nChoose an option:", tutorName),
			menuKeyboard(models.RoleStudent)),
	}
}
