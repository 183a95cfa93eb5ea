package extraction

import (
	"regexp"

	"github.com/nyaruka/phonenumbers"

	"github.com/kailas-cloud/resumatch/internal/domain/document"
)

type regionalPhone struct {
	region  string
	pattern *regexp.Regexp
}

// Each region has its own pattern; candidates are confirmed by libphonenumber.
var regionalPhones = []regionalPhone{
	{"US", regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?\b[2-9][0-9]{2}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}\b`)},
	{"IN", regexp.MustCompile(`(?:\+?91[-.\s]?)?\b[6-9][0-9]{4}[-\s]?[0-9]{5}\b`)},
	{"GB", regexp.MustCompile(`(?:\+44[-\s]?|\b0)[0-9]{2,4}[-\s]?[0-9]{3,4}[-\s]?[0-9]{3,4}\b`)},
}

var dateRe = regexp.MustCompile(`(?i)\b(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?[ \t]+(?:19|20)[0-9]{2}|[0-9]{1,2}/(?:19|20)[0-9]{2}|(?:19|20)[0-9]{2})\b`)

// ExtractEntities classifies pattern matches into entity kinds. Phone
// entities are validated per region and reported in E.164.
func ExtractEntities(text string, contact document.ContactInfo) document.Entities {
	var persons []string
	if contact.Name != "" {
		persons = []string{contact.Name}
	}

	orgs := append(companyRe.FindAllString(text, -1), institutionRe.FindAllString(text, -1)...)

	return document.Entities{
		document.EntityPerson:       uniqueSorted(persons),
		document.EntityOrganization: uniqueSorted(orgs),
		document.EntityLocation:     uniqueSorted(locationRe.FindAllString(text, -1)),
		document.EntityDate:         uniqueSorted(dateRe.FindAllString(text, -1)),
		document.EntityEmail:        uniqueSorted(emailRe.FindAllString(text, -1)),
		document.EntityPhone:        validatedPhones(text),
		document.EntityURL:          uniqueSorted(websiteRe.FindAllString(text, -1)),
	}
}

func validatedPhones(text string) []string {
	var out []string
	for _, rp := range regionalPhones {
		for _, candidate := range rp.pattern.FindAllString(text, -1) {
			num, err := phonenumbers.Parse(candidate, rp.region)
			if err != nil || !phonenumbers.IsValidNumber(num) {
				continue
			}
			out = append(out, phonenumbers.Format(num, phonenumbers.E164))
		}
	}
	return uniqueSorted(out)
}
