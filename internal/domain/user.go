package domain

import "time"

// User es un usuario autenticado con Kakao. ProviderID es la clave natural.
type User struct {
	ID              string    `json:"id" bson:"_id"`
	ProviderID      string    `json:"provider_id" bson:"provider_id"`
	Email           string    `json:"email" bson:"email"`
	ProfileImageURL string    `json:"profile_image_url,omitempty" bson:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}
