package user

// User is a directory entry for one person (or integration) on the team.
type User struct {
	ID   string
	Name string

	// BotID is set when the directory entry is the profile of an
	// integration rather than a person
	BotID string

	Admin bool
}
