package tutorbot

import (
	"strings"
	"text/template"

	"github.com/tutormatch/tutorbot/models"
)

var funcMap = template.FuncMap{
	"orDash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
}

func createTemplate(name, tmpl string) *template.Template {
	return template.Must(template.New(name).Funcs(funcMap).Parse(tmpl))
}

var studentProfileTmpl = createTemplate("studentProfile", `👤 *Student Profile*
- Name: {{.FullName}}
- Phone: {{.Phone}}
- City: {{.City}}
- Grade: {{.Grade}}
- Subject: {{.SubjectNeeded}}
- Mode: {{.Mode}}
- Notes: {{orDash .Notes}}`)

type tutorProfileView struct {
	models.TutorProfile
	Status string
	Total  int
}

var tutorProfileTmpl = createTemplate("tutorProfile", `👤 *Tutor Profile*
- Status: {{.Status}}
- Name: {{.FullName}}
- Phone: {{.Phone}}
- City: {{.City}}
- Subjects: {{.Subjects}}
- Grades: {{.Grades}}
- Experience: {{.ExperienceYears}} years
- Mode: {{.Mode}}
- Rate: {{.HourlyRate}}
- Bio: {{.Bio}}
- Test score: {{.TestScore}}/{{.Total}}`)

type requestNotificationView struct {
	StudentID int64
	Message   string
	Phone     string
}

var requestNotificationTmpl = createTemplate("requestNotification", `📩 *New tutoring request!*
From student ID: `+"`{{.StudentID}}`"+`

Message:
{{.Message}}

Phone: `+"`{{.Phone}}`"+`

Reply to the student directly in Telegram (open their profile using the ID).`)

func renderTemplate(tmpl *template.Template, data any) string {
	buf := new(strings.Builder)
	if err := tmpl.Execute(buf, data); err != nil {
		return ""
	}
	return buf.String()
}
