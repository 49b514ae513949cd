package schema

// ShelterShiftTable represents the 'shifts' table
type ShelterShiftTable struct {
	Table       string
	ID          string
	Title       string
	Date        string
	Time        string
	Slots       string
	Description string
}

// ShelterShift is the schema definition for shifts
var ShelterShift = ShelterShiftTable{
	Table:       "shifts",
	ID:          "id",
	Title:       "title",
	Date:        "date",
	Time:        "time",
	Slots:       "slots",
	Description: "description",
}

func (t ShelterShiftTable) Columns() []string {
	return []string{t.ID, t.Title, t.Date, t.Time, t.Slots, t.Description}
}
