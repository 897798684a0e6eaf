package dto

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate aggregates field violations into a single map.
func (r RegisterRequest) Validate() map[string]any {
	details := map[string]any{}
	if r.Username == "" {
		details["username"] = "is required"
	}
	if r.Password == "" {
		details["password"] = "is required"
	} else if len(r.Password) < 4 {
		details["password"] = "must be at least 4 characters"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate aggregates field violations into a single map.
func (r LoginRequest) Validate() map[string]any {
	details := map[string]any{}
	if r.Username == "" {
		details["username"] = "is required"
	}
	if r.Password == "" {
		details["password"] = "is required"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// LoginResponse carries the issued token under its single response key.
type LoginResponse struct {
	Token string `json:"jwt-token"`
}
