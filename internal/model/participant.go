package model

const (
	// MaxNameLen and MaxEmailLen cap registration fields.
	MaxNameLen  = 60
	MaxEmailLen = 120
	// PhoneDigits is the exact digit count a stored phone must have; anything
	// else is normalized to empty rather than rejected.
	PhoneDigits = 11
)

// Participant is a registered player. The registry is append-only and is only
// cleared as part of a presenter-initiated new game.
type Participant struct {
	ID    string `json:"id" bson:"_id,omitempty"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email,omitempty" bson:"email"`
	Phone string `json:"phone,omitempty" bson:"phone"`
	// RegisteredAt is unix milliseconds.
	RegisteredAt int64 `json:"timestamp" bson:"timestamp"`
}
