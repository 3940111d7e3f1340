package tutorbot

import "github.com/tutormatch/tutorbot/models"

// Message is one inbound chat message, already lifted out of the transport.
type Message struct {
	UserID  int64
	Text    string
	Command string
	// ContactPhone is set when the user shared a contact instead of typing.
	ContactPhone string
}

// Button is one suggested quick-reply. A RequestContact button asks the chat
// client to share the user's phone number.
type Button struct {
	Text           string
	RequestContact bool
}

// Keyboard is a set of suggested quick-replies, one row per slice.
type Keyboard [][]Button

// Reply is one outbound message. A nil Keyboard with RemoveKeyboard unset
// leaves the recipient's current keyboard alone.
type Reply struct {
	ChatID         int64
	Text           string
	Keyboard       Keyboard
	OneTime        bool
	RemoveKeyboard bool
	Markdown       bool
}

func buttonRows(rows ...string) Keyboard {
	kb := make(Keyboard, len(rows))
	for i, text := range rows {
		kb[i] = []Button{{Text: text}}
	}
	return kb
}

func roleKeyboard() Keyboard {
	return buttonRows("Student", "Tutor")
}

func phoneKeyboard() Keyboard {
	return Keyboard{{Button{Text: "📞 Share phone number", RequestContact: true}}}
}

func modeKeyboardStudent() Keyboard {
	return buttonRows("Online", "In-person")
}

func modeKeyboardTutor() Keyboard {
	return buttonRows("Online", "In-person", "Both")
}

func backKeyboard() Keyboard {
	return buttonRows("🏠 Back to main menu")
}

func questionKeyboard(q Question) Keyboard {
	return buttonRows(q.Options...)
}

func menuKeyboard(role string) Keyboard {
	if role == models.RoleStudent {
		return buttonRows("🔎 Search Tutors", "👤 My Profile", "❌ Cancel")
	}
	return buttonRows("👤 My Profile", "📬 My Requests", "❌ Cancel")
}
