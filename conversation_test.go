package tutorbot

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/tutormatch/tutorbot/database"
	"github.com/tutormatch/tutorbot/models"
)

var bot *Bot

func TestMain(m *testing.M) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	db, err := database.OpenDatabase("file::memory:?cache=shared", logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	bot = &Bot{
		db:        db,
		sessions:  NewSessions(),
		screening: NewScreening(),
		log:       logger,
	}
	ret := m.Run()
	db.Close()
	os.Exit(ret)
}

func send(uid int64, text string) []Reply {
	return bot.Handle(Message{UserID: uid, Text: text})
}

func sendContact(uid int64, phone string) []Reply {
	return bot.Handle(Message{UserID: uid, ContactPhone: phone})
}

func command(uid int64, cmd string) []Reply {
	return bot.Handle(Message{UserID: uid, Command: cmd})
}

func wantReply(t *testing.T, replies []Reply, substr string) {
	t.Helper()
	for _, r := range replies {
		if strings.Contains(r.Text, substr) {
			return
		}
	}
	t.Fatalf("no reply contains %q; got %d replies: %+v", substr, len(replies), replies)
}

func registerStudent(t *testing.T, uid int64, name, phone, city, grade, subject, mode, notes string) {
	t.Helper()
	command(uid, "start")
	send(uid, "Student")
	send(uid, name)
	send(uid, phone)
	send(uid, city)
	send(uid, grade)
	send(uid, subject)
	send(uid, mode)
	replies := send(uid, notes)
	wantReply(t, replies, "Student registration complete")
}

func registerTutor(t *testing.T, uid int64, answers ...string) []Reply {
	t.Helper()
	command(uid, "start")
	send(uid, "Tutor")
	send(uid, "Jane Doe")
	send(uid, "+1555")
	send(uid, "Springfield")
	send(uid, "Math, Physics")
	send(uid, "Grade 9-12")
	send(uid, "3")
	send(uid, "Online")
	send(uid, "$10/hr")
	replies := send(uid, "Tutoring bio")
	wantReply(t, replies, "Q1)")
	for _, a := range answers {
		replies = send(uid, a)
	}
	return replies
}

func TestStudentChainPersistsExactFields(t *testing.T) {
	const uid = 1000
	registerStudent(t, uid, "Alice Smith", "+15551234", "Springfield", "Grade 10", "Math", "Online", "none")

	profile, err := bot.db.GetStudentProfile(uid)
	if err != nil || profile == nil {
		t.Fatalf("GetStudentProfile: profile=%v err=%v", profile, err)
	}
	if profile.FullName != "Alice Smith" || profile.Phone != "+15551234" ||
		profile.City != "Springfield" || profile.Grade != "Grade 10" ||
		profile.SubjectNeeded != "Math" || profile.Mode != "online" {
		t.Errorf("unexpected profile %+v", profile)
	}
	if profile.Notes != "" {
		t.Errorf("got notes %q, want empty for 'none'", profile.Notes)
	}
}

func TestTutorApprovedScenario(t *testing.T) {
	const uid = 1010
	replies := registerTutor(t, uid, "20", "29", "18")
	wantReply(t, replies, "APPROVED")

	user, err := bot.db.GetUser(uid)
	if err != nil || user == nil {
		t.Fatalf("GetUser: user=%v err=%v", user, err)
	}
	if user.Status != models.StatusApproved {
		t.Errorf("got status %s, want approved", user.Status)
	}
	profile, _ := bot.db.GetTutorProfile(uid)
	if profile == nil || profile.TestScore != 3 {
		t.Fatalf("got profile %+v, want test score 3", profile)
	}

	replies = send(uid, "My Profile")
	wantReply(t, replies, "Status: approved")
	wantReply(t, replies, "Test score: 3/3")
}

func TestTutorRejectedBelowPassMark(t *testing.T) {
	const uid = 1020
	// one correct answer out of three
	replies := registerTutor(t, uid, "18", "21", "18")
	wantReply(t, replies, "REJECTED")

	user, _ := bot.db.GetUser(uid)
	if user == nil || user.Status != models.StatusRejected {
		t.Fatalf("got user %+v, want status rejected", user)
	}
	profile, _ := bot.db.GetTutorProfile(uid)
	if profile == nil || profile.TestScore != 1 {
		t.Fatalf("got profile %+v, want test score 1", profile)
	}
}

func TestScreeningRequiresExactOption(t *testing.T) {
	const uid = 1030
	command(uid, "start")
	send(uid, "Tutor")
	send(uid, "Jane Doe")
	send(uid, "+1555")
	send(uid, "Springfield")
	send(uid, "Math")
	send(uid, "Grade 9-12")
	send(uid, "3")
	send(uid, "Online")
	send(uid, "$10/hr")
	send(uid, "Tutoring bio")

	// free text that is not an option re-presents the same question
	replies := send(uid, "twenty")
	wantReply(t, replies, "Please choose one of the options")
	wantReply(t, replies, "Q1)")

	// a trimmed exact option advances
	replies = send(uid, "  20  ")
	wantReply(t, replies, "Q2)")
}

func TestBackToMenuDiscardsRegistration(t *testing.T) {
	const uid = 1040
	command(uid, "start")
	send(uid, "Student")
	send(uid, "Alice Smith")
	// the escape works even at the phone-collection step
	replies := send(uid, "Main Menu")
	wantReply(t, replies, "Returning to main menu")

	replies = send(uid, "my profile")
	wantReply(t, replies, "No student profile found")
}

func TestBackToMenuFromSearchKeepsProfile(t *testing.T) {
	const uid = 1050
	registerStudent(t, uid, "Bob Jones", "+1777", "Springfield", "Grade 8", "English", "in-person", "evening only")

	send(uid, "Search Tutors")
	send(uid, "English")
	replies := send(uid, "🏠 Back to main menu")
	wantReply(t, replies, "Returning to main menu")

	replies = send(uid, "My Profile")
	wantReply(t, replies, "Bob Jones")
	wantReply(t, replies, "Notes: evening only")
}

func TestSearchReturnsOnlyApprovedTutors(t *testing.T) {
	const (
		student  = 1060
		approved = 1061
		pending  = 1062
	)
	seedTutor(t, approved, models.StatusApproved, "Botany, Physics", 5)
	seedTutor(t, pending, models.StatusPending, "Botany", 9)
	registerStudent(t, student, "Carol White", "+1888", "Springfield", "Grade 9", "Botany", "online", "none")

	send(student, "Search Tutors")
	send(student, "Botany")
	send(student, "skip")
	replies := send(student, "skip")
	wantReply(t, replies, "1) ")
	for _, r := range replies {
		if strings.Contains(r.Text, "2) ") {
			t.Errorf("expected exactly one numbered result, got: %s", r.Text)
		}
	}
}

func TestSearchNoResultsReturnsToMenu(t *testing.T) {
	const uid = 1065
	registerStudent(t, uid, "Dan Green", "+1999", "Springfield", "Grade 9", "Latin", "online", "none")

	send(uid, "Search Tutors")
	send(uid, "Sanskrit")
	send(uid, "skip")
	replies := send(uid, "skip")
	wantReply(t, replies, "No approved tutors found")

	// back in the menu, not stuck in the search flow
	replies = send(uid, "My Profile")
	wantReply(t, replies, "Dan Green")
}

func TestPickTutorAndSendRequest(t *testing.T) {
	const (
		student = 1070
		tutor   = 1071
	)
	seedTutor(t, tutor, models.StatusApproved, "Chemistry", 7)
	registerStudent(t, student, "Eve Black", "+1666", "Springfield", "Grade 11", "Chemistry", "online", "none")

	send(student, "Search Tutors")
	send(student, "Chemistry")
	send(student, "skip")
	send(student, "skip")

	replies := send(student, "abc")
	wantReply(t, replies, "Please type a number")
	replies = send(student, "5")
	wantReply(t, replies, "Number out of range")

	replies = send(student, "1")
	wantReply(t, replies, "Write a message request")

	replies = send(student, "")
	wantReply(t, replies, "Please write a short message")

	replies = send(student, "Can you help with stoichiometry?")
	wantReply(t, replies, "Your request was sent")

	var notice *Reply
	for i := range replies {
		if replies[i].ChatID == tutor {
			notice = &replies[i]
		}
	}
	if notice == nil {
		t.Fatal("no notification addressed to the tutor")
	}
	if !strings.Contains(notice.Text, fmt.Sprint(student)) ||
		!strings.Contains(notice.Text, "Can you help with stoichiometry?") ||
		!strings.Contains(notice.Text, "+1666") {
		t.Errorf("notification missing student id, message or phone: %s", notice.Text)
	}

	requests, err := bot.db.RequestsForTutor(tutor, 0)
	if err != nil || len(requests) != 1 {
		t.Fatalf("RequestsForTutor: requests=%v err=%v", requests, err)
	}
	if requests[0].StudentID != student {
		t.Errorf("got request from %d, want %d", requests[0].StudentID, student)
	}
}

func TestMenuRequiresRegistration(t *testing.T) {
	const uid = 1080
	replies := send(uid, "hello?")
	wantReply(t, replies, "Please /start first")
}

func TestStartWelcomesBackRegisteredUser(t *testing.T) {
	const uid = 1090
	registerStudent(t, uid, "Fay Grey", "+1444", "Springfield", "Grade 7", "Art", "online", "none")

	replies := command(uid, "start")
	wantReply(t, replies, "Welcome back")
	wantReply(t, replies, "student")
}

func TestTutorExperienceValidation(t *testing.T) {
	const uid = 1100
	command(uid, "start")
	send(uid, "Tutor")
	send(uid, "Jane Doe")
	send(uid, "+1555")
	send(uid, "Springfield")
	send(uid, "Math")
	send(uid, "Grade 9-12")

	for _, bad := range []string{"abc", "-1", "81"} {
		replies := send(uid, bad)
		wantReply(t, replies, "valid number of years")
	}
	replies := send(uid, "80")
	wantReply(t, replies, "Mode you offer?")
}

func TestStudentModeNormalization(t *testing.T) {
	const uid = 1110
	command(uid, "start")
	send(uid, "Student")
	send(uid, "Gil Brown")
	send(uid, "+1333")
	send(uid, "Springfield")
	send(uid, "Grade 6")
	send(uid, "Music")

	replies := send(uid, "by carrier pigeon")
	wantReply(t, replies, "Choose Online or In-person")

	send(uid, "In Person")
	send(uid, "none")

	profile, _ := bot.db.GetStudentProfile(uid)
	if profile == nil || profile.Mode != "in-person" {
		t.Fatalf("got profile %+v, want mode in-person", profile)
	}
}

func TestSharedContactPreferredOverText(t *testing.T) {
	const uid = 1130
	command(uid, "start")
	send(uid, "Student")
	send(uid, "Hal Blue")
	sendContact(uid, "+19998887766")
	send(uid, "Springfield")
	send(uid, "Grade 5")
	send(uid, "Reading")
	send(uid, "online")
	send(uid, "none")

	profile, _ := bot.db.GetStudentProfile(uid)
	if profile == nil || profile.Phone != "+19998887766" {
		t.Fatalf("got profile %+v, want shared-contact phone", profile)
	}
}

func TestCancelClearsSession(t *testing.T) {
	const uid = 1120
	command(uid, "start")
	send(uid, "Student")
	send(uid, "Ida Red")

	replies := command(uid, "cancel")
	wantReply(t, replies, "Cancelled.")

	replies = send(uid, "Springfield")
	wantReply(t, replies, "Please /start first")
}

func seedTutor(t *testing.T, uid int64, status, subjects string, exp int) {
	t.Helper()
	if err := bot.db.UpsertUser(uid, models.RoleTutor, models.StatusPending); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	profile := &models.TutorProfile{
		TelegramID:      uid,
		FullName:        fmt.Sprintf("Tutor %d", uid),
		Phone:           "+1222",
		City:            "Springfield",
		Subjects:        subjects,
		Grades:          "Grade 9-12",
		ExperienceYears: exp,
		Mode:            "online",
		HourlyRate:      "$10/hr",
	}
	if err := bot.db.SaveTutorProfile(profile, status); err != nil {
		t.Fatalf("SaveTutorProfile: %v", err)
	}
}
