package onboarding

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/openavatar/openavatar/internal/validate"
)

// ReviewRow is one line of the review summary. Selecting it sends the user
// back to Step.
type ReviewRow struct {
	Step  Step
	Label string
	Value string
}

// TitleName joins a first and last name with each word title-cased.
func TitleName(first, last string) string {
	c := cases.Title(language.Und)
	return c.String(first) + " " + c.String(last)
}

// ReviewRows summarizes f. The password never appears; the name and bio rows
// are left out when empty.
func ReviewRows(f Fields) []ReviewRow {
	f = f.Trimmed()
	rows := []ReviewRow{
		{Step: StepNickname, Label: "Nickname", Value: "@" + f.Nickname},
	}
	if validate.HasName(f.FirstName, f.LastName) {
		rows = append(rows, ReviewRow{
			Step:  StepName,
			Label: "Name",
			Value: TitleName(f.FirstName, f.LastName),
		})
	}
	rows = append(rows, ReviewRow{Step: StepEmail, Label: "Email", Value: f.Email})
	if f.Bio != "" {
		rows = append(rows, ReviewRow{Step: StepBio, Label: "Bio", Value: f.Bio})
	}
	return rows
}
