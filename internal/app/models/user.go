package models

import "time"

// AuthIdentity is the credential record behind a sign-in.
type AuthIdentity struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	FullName     string    `bson:"fullName"`
	Role         Role      `bson:"role"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// Profile is the application-level user row. It is written after the
// identity and may be missing when that write failed.
type Profile struct {
	ID        string    `bson:"_id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	FullName  string    `bson:"fullName" json:"fullName"`
	Role      Role      `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// CurrentUser is the signed-in user as the dashboard sees it.
type CurrentUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}
