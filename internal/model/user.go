package model

import "time"

// User represents a club account as stored in the `users` table.  The
// directory owns these records; the booking core only reads the
// membership and admin flags.
//
// Fields:
//  ID           – uuid primary key.
//  Email        – unique, lower-cased email address.
//  Name         – display name.
//  PasswordHash – bcrypt hashed password, never serialized.
//  IsMember     – whether the membership is current.
//  IsAdmin      – whether the user may manage inventory, schedule and users.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           string    `json:"id"`         // users.id
    Email        string    `json:"email"`      // users.email
    Name         string    `json:"name"`       // users.name
    PasswordHash string    `json:"-"`          // users.password_hash
    IsMember     bool      `json:"is_member"`  // users.is_member
    IsAdmin      bool      `json:"is_admin"`   // users.is_admin
    CreatedAt    time.Time `json:"created_at"` // users.created_at
    UpdatedAt    time.Time `json:"updated_at"` // users.updated_at
}

// Role names carried in the access token "role" claim.
const (
    RoleAdmin  = "ADMIN"
    RoleMember = "MEMBER"
)

// Role returns the token role for the user.
func (u User) Role() string {
    if u.IsAdmin {
        return RoleAdmin
    }
    return RoleMember
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA‑256 hash of the raw token is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    string     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
