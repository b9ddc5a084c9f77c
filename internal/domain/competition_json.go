package domain

import (
	"encoding/json"
	"fmt"
)

type competitionAlias Competition

// competitionJSON overrides the schedule fields of Competition with their
// YYYY-MM-DD wire form.
type competitionJSON struct {
	*competitionAlias
	StartDate string `json:"start_date,omitempty"`
	Deadline  string `json:"deadline"`
}

// MarshalJSON writes dates as calendar dates (DateLayout).
func (c Competition) MarshalJSON() ([]byte, error) {
	alias := competitionAlias(c)
	out := competitionJSON{
		competitionAlias: &alias,
		Deadline:         c.Deadline.Format(DateLayout),
	}
	if c.StartDate != nil {
		out.StartDate = c.StartDate.Format(DateLayout)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (c *Competition) UnmarshalJSON(data []byte) error {
	in := competitionJSON{competitionAlias: (*competitionAlias)(c)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	deadline, err := ParseDate(in.Deadline)
	if err != nil {
		return fmt.Errorf("invalid deadline %q: %w", in.Deadline, err)
	}
	c.Deadline = deadline

	c.StartDate = nil
	if in.StartDate != "" {
		start, err := ParseDate(in.StartDate)
		if err != nil {
			return fmt.Errorf("invalid start_date %q: %w", in.StartDate, err)
		}
		c.StartDate = &start
	}
	return nil
}
