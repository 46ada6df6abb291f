package models

import "time"

type User struct {
	ID        string
	Username  string
	Email     string
	PassHash  []byte
	Role      Role
	CreatedAt time.Time
}
