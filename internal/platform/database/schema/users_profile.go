package schema

// UserProfileTable represents the 'profiles' table
type UserProfileTable struct {
	Table     string
	ID        string
	Name      string
	Email     string
	Role      string
	CreatedAt string
	UpdatedAt string
}

// UserProfile is the schema definition for profiles
var UserProfile = UserProfileTable{
	Table:     "profiles",
	ID:        "id",
	Name:      "name",
	Email:     "email",
	Role:      "role",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

// Columns returns the columns read back into a profile record
func (t UserProfileTable) Columns() []string {
	return []string{t.ID, t.Name, t.Email, t.Role, t.CreatedAt}
}
