package catalogfile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/lombahub/internal/domain"
)

// ErrEmptyCatalog is returned when no record survives validation
var ErrEmptyCatalog = errors.New("no valid competitions found in catalog")

// Skipped describes a record rejected by the mapper
type Skipped struct {
	Position int    `json:"position" yaml:"position"` // 0-based position in the file
	ID       string `json:"id" yaml:"id"`
	Reason   string `json:"reason" yaml:"reason"`
}

// Result is the outcome of mapping a catalog file
type Result struct {
	Competitions []*domain.Competition
	Skipped      []Skipped
}

// Mapper converts catalog records to domain.Competition entities
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map validates every record and keeps the valid ones in file order.
// Invalid records and repeated IDs are reported in Result.Skipped;
// the first record with a given ID wins.
func (m *Mapper) Map(file File) (Result, error) {
	res := Result{Competitions: make([]*domain.Competition, 0, len(file.Competitions))}
	seen := make(map[string]bool, len(file.Competitions))

	for i, rec := range file.Competitions {
		id := strings.TrimSpace(rec.ID)

		c, err := mapRecord(rec)
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Position: i, ID: id, Reason: err.Error()})
			continue
		}
		if seen[c.ID] {
			res.Skipped = append(res.Skipped, Skipped{Position: i, ID: id, Reason: "duplicate id"})
			continue
		}
		seen[c.ID] = true
		res.Competitions = append(res.Competitions, c)
	}

	if len(res.Competitions) == 0 {
		return res, ErrEmptyCatalog
	}
	return res, nil
}

func mapRecord(rec Record) (*domain.Competition, error) {
	c := &domain.Competition{
		ID:                strings.TrimSpace(rec.ID),
		Title:             strings.TrimSpace(rec.Title),
		Organizer:         strings.TrimSpace(rec.Organizer),
		Description:       strings.TrimSpace(rec.Description),
		Category:          strings.TrimSpace(rec.Category),
		Levels:            make([]domain.Level, 0, len(rec.Level)),
		Tags:              rec.Tags,
		Format:            domain.Format(strings.ToLower(strings.TrimSpace(rec.Format))),
		ParticipationType: domain.ParticipationType(strings.ToLower(strings.TrimSpace(rec.ParticipationType))),
		Status:            domain.Status(strings.ToLower(strings.TrimSpace(rec.Status))),
		Prize:             rec.Prize,
		RegistrationURL:   strings.TrimSpace(rec.RegistrationURL),
		ImageURL:          strings.TrimSpace(rec.ImageURL),
		Location:          strings.TrimSpace(rec.Location),
		Institutions:      rec.Institutions,
	}

	if c.ID == "" {
		return nil, errors.New("missing id")
	}
	if c.Title == "" {
		return nil, errors.New("missing title")
	}
	if !domain.IsCategory(c.Category) {
		return nil, fmt.Errorf("unknown category %q", c.Category)
	}

	for _, raw := range rec.Level {
		l := domain.Level(strings.ToLower(strings.TrimSpace(raw)))
		if !l.Valid() {
			return nil, fmt.Errorf("unknown level %q", raw)
		}
		if !c.HasLevel(l) {
			c.Levels = append(c.Levels, l)
		}
	}
	if !c.Format.Valid() {
		return nil, fmt.Errorf("unknown format %q", rec.Format)
	}
	if !c.ParticipationType.Valid() {
		return nil, fmt.Errorf("unknown participation type %q", rec.ParticipationType)
	}
	if !c.Status.Valid() {
		return nil, fmt.Errorf("unknown status %q", rec.Status)
	}

	if strings.TrimSpace(rec.Deadline) == "" {
		return nil, errors.New("missing deadline")
	}
	deadline, err := domain.ParseDate(rec.Deadline)
	if err != nil {
		return nil, fmt.Errorf("invalid deadline %q", rec.Deadline)
	}
	c.Deadline = deadline

	if strings.TrimSpace(rec.StartDate) != "" {
		start, err := domain.ParseDate(rec.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date %q", rec.StartDate)
		}
		c.StartDate = &start
	}

	if rec.SocialMedia != nil {
		c.SocialMedia = &domain.SocialMedia{
			Instagram: rec.SocialMedia.Instagram,
			Twitter:   rec.SocialMedia.Twitter,
			Website:   rec.SocialMedia.Website,
			WhatsApp:  rec.SocialMedia.WhatsApp,
			Email:     rec.SocialMedia.Email,
		}
	}

	return c, nil
}

// CountStale returns how many competitions still advertise themselves as
// accepting entries although their deadline is before now's date.
func CountStale(list []*domain.Competition, now time.Time) int {
	n := 0
	for _, c := range list {
		if c.IsStale(now) {
			n++
		}
	}
	return n
}
