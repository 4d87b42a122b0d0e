package models

// GenreOption is a catalog entry mapping a numeric id to a display label
type GenreOption struct {
	ID    int    `json:"id" yaml:"id"`
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// DisplayRecord is the projection of a magazine returned to API consumers
// and rendered into the digest. Empty optional fields are omitted.
type DisplayRecord struct {
	Name                    string `json:"name"`
	Deadline                string `json:"deadline"`
	Theme                   string `json:"theme,omitempty"`
	Description             string `json:"description"`
	Genres                  string `json:"genres"`
	Country                 string `json:"country,omitempty"`
	YearFounded             int    `json:"yearFounded,omitempty"`
	ResponseDays            string `json:"responseDays"`
	SimultaneousSubmissions bool   `json:"simultaneousSubmissions"`
}

// ValidationError describes a problem found in an upstream record
type ValidationError struct {
	Index   int         `json:"index"`
	Name    string      `json:"name,omitempty"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}
