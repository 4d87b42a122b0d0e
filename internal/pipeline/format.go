package pipeline

import (
	"time"

	"golang.org/x/text/language"

	"github.com/submission-digest-api/internal/models"
)

// Format projects a magazine into a display record. It never fails: missing
// optional fields stay empty and a missing deadline renders as "".
func (p *Pipeline) Format(m models.Magazine) models.DisplayRecord {
	record := models.DisplayRecord{
		Name:                    m.Name,
		Theme:                   m.CurrentTheme,
		Description:             m.Description,
		Country:                 m.Country,
		YearFounded:             int(m.YearFounded),
		ResponseDays:            string(m.ResponseDays),
		SimultaneousSubmissions: m.SimultaneousSubmissions,
	}

	if period, ok := p.policy(m); ok {
		if period.Deadline.Valid {
			record.Deadline = p.dates.Format(period.Deadline.Time.In(p.loc))
		}
		if record.Theme == "" {
			record.Theme = period.Theme
		}
	}

	genres, unknown := p.genres.ResolveReport(m.GenreIDs())
	for _, id := range unknown {
		p.observer.UnknownGenre(m.Name, id)
	}
	record.Genres = genres

	return record
}

// DateFormatter renders calendar dates the way a locale writes them
type DateFormatter struct {
	tag    language.Tag
	layout string
}

var supportedLocales = []language.Tag{
	language.AmericanEnglish, // first entry is the fallback
	language.BritishEnglish,
	language.German,
	language.French,
	language.Spanish,
	language.Dutch,
	language.Japanese,
}

var localeLayouts = map[language.Tag]string{
	language.AmericanEnglish: "1/2/2006",
	language.BritishEnglish:  "02/01/2006",
	language.German:          "2.1.2006",
	language.French:          "02/01/2006",
	language.Spanish:         "2/1/2006",
	language.Dutch:           "2-1-2006",
	language.Japanese:        "2006/1/2",
}

var localeMatcher = language.NewMatcher(supportedLocales)

// NewDateFormatter picks the closest supported locale. locale may be a single
// tag ("en-GB") or an Accept-Language value.
func NewDateFormatter(locale string) DateFormatter {
	tag := supportedLocales[0]
	if locale != "" {
		if tags, _, err := language.ParseAcceptLanguage(locale); err == nil && len(tags) > 0 {
			_, idx, conf := localeMatcher.Match(tags...)
			if conf != language.No {
				tag = supportedLocales[idx]
			}
		}
	}
	return DateFormatter{tag: tag, layout: localeLayouts[tag]}
}

// Format renders the calendar date of t
func (f DateFormatter) Format(t time.Time) string {
	return t.Format(f.layout)
}

// Locale returns the BCP 47 tag in use
func (f DateFormatter) Locale() string {
	return f.tag.String()
}
