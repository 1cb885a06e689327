package cardscan

import (
	"regexp"
	"strings"

	"github.com/selene-notes/selene/pkg/domain/model"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,2}\s?)?(\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4})`)
	namePattern  = regexp.MustCompile(`^[A-Za-z\s.'-]+$`)
)

// Parse applies line-by-line heuristics to OCR output from a business card
// and fills in the contact fields it can identify. Each field is claimed by
// the first line that matches it; unmatched lines of reasonable length fall
// through to company and then role. The heuristics are crude by necessity;
// cards vary wildly, so the raw text is kept alongside for manual fixes.
func Parse(text string) *model.BusinessCard {
	card := &model.BusinessCard{RawText: text}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case card.Email == "" && emailPattern.MatchString(line):
			card.Email = emailPattern.FindString(line)
		case card.Phone == "" && phonePattern.MatchString(line):
			card.Phone = phonePattern.FindString(line)
		case card.Name == "" && namePattern.MatchString(line) && len(line) > 2:
			card.Name = line
		case card.Company == "" && len(line) > 2:
			card.Company = line
		case card.Role == "" && len(line) > 2:
			card.Role = line
		}
	}

	return card
}
