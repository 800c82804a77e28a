package model

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is owned by the identity service. The booking engine only reads it.
type User struct {
	ID          string `json:"id" bson:"_id,omitempty"`
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	BatchNumber int    `json:"batch_number" bson:"batch_number" validate:"required,oneof=1 2"`
	SquatNumber int    `json:"squat_number" bson:"squat_number" validate:"required,min=1,max=10"`
	Role        string `json:"role" bson:"role" validate:"omitempty,oneof=user admin"`
	IsActive    bool   `json:"is_active" bson:"is_active"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
