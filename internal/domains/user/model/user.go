package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// User is the account entity. ConfirmationToken is set at registration and
// cleared once the mailed link is followed; Enabled flips to true at the
// same moment.
type User struct {
	UserID            int        `json:"userId"`
	Name              string     `json:"name"`
	Login             string     `json:"login"`
	PasswordHash      string     `json:"-"`
	Email             string     `json:"email"`
	City              string     `json:"city"`
	Enabled           bool       `json:"-"`
	ConfirmationToken *string    `json:"-"`
	CreatedAt         time.Time  `json:"-"`
}

// UserRegistrationDto is the registration request body.
type UserRegistrationDto struct {
	Name            string `json:"name"`
	Login           string `json:"login"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	Email           string `json:"email"`
	City            string `json:"city"`
}

func (d UserRegistrationDto) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name,
			validation.Required.Error("Имя не может быть пустым")),
		validation.Field(&d.Login,
			validation.Required.Error("Логин не может быть пустым"),
			validation.Length(3, 50).Error("Логин должен содержать от 3 до 50 символов")),
		validation.Field(&d.Password,
			validation.Required.Error("Пароль не может быть пустым"),
			validation.Length(6, 0).Error("Пароль должен содержать не менее 6 символов")),
		validation.Field(&d.Email,
			validation.Required.Error("Адрес почты не может быть пустым"),
			is.Email.Error("Некорректный адрес почты")),
	)
}

// LoginRequest is the credentials body for /auth/login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Login,
			validation.Required.Error("Логин не может быть пустым")),
		validation.Field(&r.Password,
			validation.Required.Error("Пароль не может быть пустым")),
	)
}

// UserProfileDto is the authenticated profile view.
type UserProfileDto struct {
	UserID int    `json:"userId"`
	Name   string `json:"name"`
	Login  string `json:"login"`
	Email  string `json:"email"`
	City   string `json:"city"`
}

func (u *User) ToProfile() UserProfileDto {
	return UserProfileDto{
		UserID: u.UserID,
		Name:   u.Name,
		Login:  u.Login,
		Email:  u.Email,
		City:   u.City,
	}
}

// TokenPair is the login response.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
