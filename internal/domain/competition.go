package domain

import (
	"slices"
	"strings"
	"time"
)

// Status is the editorial status carried by a record.
// It is input data: nothing in this package derives it from the deadline.
type Status string

const (
	StatusOpen        Status = "open"
	StatusClosingSoon Status = "closing-soon"
	StatusClosed      Status = "closed"
)

// Level is an eligibility level.
type Level string

const (
	LevelSMA         Level = "sma"
	LevelMahasiswa   Level = "mahasiswa"
	LevelUmum        Level = "umum"
	LevelProfesional Level = "profesional"
)

// Format is how a competition is held.
type Format string

const (
	FormatOnline  Format = "online"
	FormatOffline Format = "offline"
	FormatHybrid  Format = "hybrid"
)

// ParticipationType tells whether entrants compete alone or as a team.
type ParticipationType string

const (
	ParticipationIndividual ParticipationType = "individual"
	ParticipationTeam       ParticipationType = "team"
)

// Categories is the fixed, ordered set of competition categories.
var Categories = []string{
	"Teknologi",
	"Bisnis",
	"Sains",
	"Desain",
	"Penulisan",
	"Debat",
	"Olahraga",
	"Seni",
	"Sosial",
}

// Levels is the ordered set of eligibility levels.
var Levels = []Level{LevelSMA, LevelMahasiswa, LevelUmum, LevelProfesional}

// Statuses, Formats and ParticipationTypes list the valid enum values.
var (
	Statuses           = []Status{StatusOpen, StatusClosingSoon, StatusClosed}
	Formats            = []Format{FormatOnline, FormatOffline, FormatHybrid}
	ParticipationTypes = []ParticipationType{ParticipationIndividual, ParticipationTeam}
)

// SocialMedia is the optional contact block of a competition.
type SocialMedia struct {
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Website   string `json:"website,omitempty"`
	WhatsApp  string `json:"whatsapp,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Competition is a single listed competition.
// Records are immutable once they leave the catalog loader.
type Competition struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is opaque and unique within a catalog.
	ID string `json:"id"`

	// ─────────────────────────────
	// Description
	// ─────────────────────────────

	Title       string   `json:"title"`
	Organizer   string   `json:"organizer"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Levels      []Level  `json:"levels"`
	Tags        []string `json:"tags,omitempty"`

	// ─────────────────────────────
	// Schedule (calendar dates, UTC midnight)
	// ─────────────────────────────

	StartDate *time.Time `json:"start_date,omitempty"`
	Deadline  time.Time  `json:"deadline"`

	// ─────────────────────────────
	// Logistics
	// ─────────────────────────────

	Format            Format            `json:"format"`
	ParticipationType ParticipationType `json:"participation_type"`
	Location          string            `json:"location,omitempty"`
	Institutions      []string          `json:"institutions,omitempty"`

	// ─────────────────────────────
	// Engagement
	// ─────────────────────────────

	// Prize is free text, e.g. "Total Rp 50.000.000".
	Prize           string       `json:"prize"`
	RegistrationURL string       `json:"registration_url"`
	ImageURL        string       `json:"image_url,omitempty"`
	SocialMedia     *SocialMedia `json:"social_media,omitempty"`

	Status Status `json:"status"`
}

// HasLevel reports whether the competition is open to the given level.
func (c *Competition) HasLevel(level Level) bool {
	for _, l := range c.Levels {
		if l == level {
			return true
		}
	}
	return false
}

// HasTag reports whether the competition carries the given tag.
func (c *Competition) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasInstitution reports whether name is one of the hosting institutions,
// ignoring case.
func (c *Competition) HasInstitution(name string) bool {
	for _, inst := range c.Institutions {
		if strings.EqualFold(inst, name) {
			return true
		}
	}
	return false
}

// Equal reports whether two records carry the same content.
func (c *Competition) Equal(o *Competition) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.ID == o.ID &&
		c.Title == o.Title &&
		c.Organizer == o.Organizer &&
		c.Description == o.Description &&
		c.Category == o.Category &&
		slices.Equal(c.Levels, o.Levels) &&
		slices.Equal(c.Tags, o.Tags) &&
		equalDate(c.StartDate, o.StartDate) &&
		c.Deadline.Equal(o.Deadline) &&
		c.Format == o.Format &&
		c.ParticipationType == o.ParticipationType &&
		c.Location == o.Location &&
		slices.Equal(c.Institutions, o.Institutions) &&
		c.Prize == o.Prize &&
		c.RegistrationURL == o.RegistrationURL &&
		c.ImageURL == o.ImageURL &&
		equalSocial(c.SocialMedia, o.SocialMedia) &&
		c.Status == o.Status
}

func equalDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func equalSocial(a, b *SocialMedia) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// IsStale reports whether the static status still advertises the competition
// as accepting entries although its deadline has passed.
// Used to flag drift in the source data; the status itself is never rewritten.
func (c *Competition) IsStale(now time.Time) bool {
	if c.Status == StatusClosed {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return c.Deadline.Before(today)
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	for _, v := range Levels {
		if v == l {
			return true
		}
	}
	return false
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	for _, v := range Formats {
		if v == f {
			return true
		}
	}
	return false
}

// Valid reports whether p is a known participation type.
func (p ParticipationType) Valid() bool {
	for _, v := range ParticipationTypes {
		if v == p {
			return true
		}
	}
	return false
}

// IsCategory reports whether name is one of Categories (exact match).
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
