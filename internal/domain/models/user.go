package models

import "time"

// User is an admin panel account. Password holds a bcrypt hash and Token the single live session token;
// neither is ever serialized.
type User struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string     `json:"username" gorm:"size:64;not null;uniqueIndex" validate:"required,max=64"`
	Password  string     `json:"-" gorm:"size:255;not null" validate:"required"`
	Email     string     `json:"email" gorm:"size:255;not null" validate:"required,email"`
	FullName  string     `json:"fullName" gorm:"size:255;not null" validate:"required"`
	Role      string     `json:"role" gorm:"size:16;not null" validate:"required,oneof=admin staff"`
	Active    bool       `json:"active" gorm:"not null"`
	LastLogin *time.Time `json:"lastLogin"`
	Token     *string    `json:"-" gorm:"type:text"`
}

type UserPatch struct {
	Username Field[string]
	Password Field[string]
	Email    Field[string]
	FullName Field[string]
	Role     Field[string]
	Active   Field[bool]
}

func (p UserPatch) ApplyTo(u *User) {
	p.Username.Apply(&u.Username)
	p.Password.Apply(&u.Password)
	p.Email.Apply(&u.Email)
	p.FullName.Apply(&u.FullName)
	p.Role.Apply(&u.Role)
	p.Active.Apply(&u.Active)
}
