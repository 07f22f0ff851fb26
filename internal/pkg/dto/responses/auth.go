package responses

type UserMetadata struct {
	FullName string `json:"fullName,omitempty"`
	Role     string `json:"role,omitempty"`
}

type AuthUser struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"userMetadata"`
}

type AuthSession struct {
	AccessToken string   `json:"accessToken"`
	TokenType   string   `json:"tokenType"`
	ExpiresAt   int64    `json:"expiresAt"`
	User        AuthUser `json:"user"`
}

type PatientExport struct {
	ObjectName string `json:"objectName"`
	URL        string `json:"url"`
	Count      int    `json:"count"`
}
