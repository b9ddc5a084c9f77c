package catalogfile

// File is the top-level structure of catalog.yaml
type File struct {
	Competitions []Record `yaml:"competitions"`
}

// Record is one competition as written by editors.
// Dates are plain YYYY-MM-DD strings; enums use the lowercase tokens.
type Record struct {
	ID                string   `yaml:"id"`
	Title             string   `yaml:"title"`
	Organizer         string   `yaml:"organizer"`
	Description       string   `yaml:"description"`
	Category          string   `yaml:"category"`
	Level             []string `yaml:"level"`
	Tags              []string `yaml:"tags,omitempty"`
	StartDate         string   `yaml:"start_date,omitempty"`
	Deadline          string   `yaml:"deadline"`
	Format            string   `yaml:"format"`
	ParticipationType string   `yaml:"participation_type"`
	Status            string   `yaml:"status"`
	Prize             string   `yaml:"prize"`
	RegistrationURL   string   `yaml:"registration_url"`
	ImageURL          string   `yaml:"image_url,omitempty"`
	Location          string   `yaml:"location,omitempty"`
	Institutions      []string `yaml:"institutions,omitempty"`
	SocialMedia       *Social  `yaml:"social_media,omitempty"`
}

// Social is the optional contact block of a record
type Social struct {
	Instagram string `yaml:"instagram,omitempty"`
	Twitter   string `yaml:"twitter,omitempty"`
	Website   string `yaml:"website,omitempty"`
	WhatsApp  string `yaml:"whatsapp,omitempty"`
	Email     string `yaml:"email,omitempty"`
}
