package schema

// ShelterAnimalTable represents the 'animals' table
type ShelterAnimalTable struct {
	Table       string
	ID          string
	Name        string
	Type        string
	Breed       string
	Age         string
	Gender      string
	Description string
	Image       string
	Tags        string
	Status      string
	CreatedAt   string
	UpdatedAt   string
}

// ShelterAnimal is the schema definition for animals
var ShelterAnimal = ShelterAnimalTable{
	Table:       "animals",
	ID:          "id",
	Name:        "name",
	Type:        "type",
	Breed:       "breed",
	Age:         "age",
	Gender:      "gender",
	Description: "description",
	Image:       "image",
	Tags:        "tags",
	Status:      "status",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

func (t ShelterAnimalTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Type, t.Breed, t.Age, t.Gender,
		t.Description, t.Image, t.Tags, t.Status, t.CreatedAt,
	}
}
