package user

// User is both the stored identity and the {username, _id} projection
// returned by the API.
type User struct {
	Username string `json:"username"`
	ID       string `json:"_id"`
}
