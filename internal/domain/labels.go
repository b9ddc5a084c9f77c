package domain

// Labels maps enum values to display strings for one language.
type Labels struct {
	Levels             map[Level]string             `json:"levels"`
	Statuses           map[Status]string            `json:"statuses"`
	Formats            map[Format]string            `json:"formats"`
	ParticipationTypes map[ParticipationType]string `json:"participation_types"`
}

var labelsByLang = map[string]Labels{
	"id": {
		Levels: map[Level]string{
			LevelSMA:         "SMA/SMK",
			LevelMahasiswa:   "Mahasiswa",
			LevelUmum:        "Umum",
			LevelProfesional: "Profesional",
		},
		Statuses: map[Status]string{
			StatusOpen:        "Dibuka",
			StatusClosingSoon: "Segera Ditutup",
			StatusClosed:      "Ditutup",
		},
		Formats: map[Format]string{
			FormatOnline:  "Online",
			FormatOffline: "Offline",
			FormatHybrid:  "Hybrid",
		},
		ParticipationTypes: map[ParticipationType]string{
			ParticipationIndividual: "Individu",
			ParticipationTeam:       "Tim",
		},
	},
	"en": {
		Levels: map[Level]string{
			LevelSMA:         "High school",
			LevelMahasiswa:   "University",
			LevelUmum:        "General",
			LevelProfesional: "Professional",
		},
		Statuses: map[Status]string{
			StatusOpen:        "Open",
			StatusClosingSoon: "Closing Soon",
			StatusClosed:      "Closed",
		},
		Formats: map[Format]string{
			FormatOnline:  "Online",
			FormatOffline: "Offline",
			FormatHybrid:  "Hybrid",
		},
		ParticipationTypes: map[ParticipationType]string{
			ParticipationIndividual: "Individual",
			ParticipationTeam:       "Team",
		},
	},
}

// DefaultLanguage is used when a caller asks for an unknown language.
const DefaultLanguage = "id"

// LabelsFor returns the labels of lang, falling back to DefaultLanguage.
func LabelsFor(lang string) (Labels, string) {
	if l, ok := labelsByLang[lang]; ok {
		return l, lang
	}
	return labelsByLang[DefaultLanguage], DefaultLanguage
}
