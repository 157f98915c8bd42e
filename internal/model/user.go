package model

// User is an operator account. Accounts are read-only reference data loaded
// once from configuration; there is no self-service registration.
type User struct {
	Username     string   `mapstructure:"username" json:"username"`
	PasswordHash string   `mapstructure:"password_hash" json:"-"`
	Ambulatori   []string `mapstructure:"ambulatori" json:"ambulatori"`
}

func (u *User) HasAmbulatorio(site Ambulatorio) bool {
	for _, a := range u.Ambulatori {
		if a == string(site) {
			return true
		}
	}
	return false
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	Username   string   `json:"username"`
	Ambulatori []string `json:"ambulatori"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}
