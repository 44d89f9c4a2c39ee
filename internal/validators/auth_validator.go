package validators

import (
	"log"
	"regexp"

	"campuschat/internal/errs"
	"campuschat/internal/models"
)

func ValidateLogin(login *models.LoginRequestBody) []error {
	var errors []error
	if login == nil {
		errors = append(errors, errs.ErrInvalidRequest)
		return errors
	}

	if login.Email == "" || !ValidateEmail(login.Email) {
		errors = append(errors, errs.ErrInvalidEmail)
	}

	if login.Password == "" {
		errors = append(errors, errs.ErrInvalidPassword)
	}

	return errors
}

func ValidateEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	regex, err := regexp.Compile(pattern)
	if err != nil {
		log.Println("Error compiling regular expression:", err)
		return false
	}
	return regex.MatchString(email)
}
