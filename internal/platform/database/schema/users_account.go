package schema

// UserAccountTable represents the 'accounts' table
type UserAccountTable struct {
	Table       string
	ID          string
	Email       string
	DisplayName string
	Password    string
	CreatedAt   string
}

// UserAccount is the schema definition for accounts
var UserAccount = UserAccountTable{
	Table:       "accounts",
	ID:          "id",
	Email:       "email",
	DisplayName: "display_name",
	Password:    "password_hash",
	CreatedAt:   "created_at",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Email, t.DisplayName, t.Password, t.CreatedAt}
}
