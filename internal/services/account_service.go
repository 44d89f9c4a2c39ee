package services

import (
	"time"

	"campuschat/configs"
	"campuschat/internal/errs"
	"campuschat/internal/models"
	"campuschat/internal/repositories"
	"campuschat/internal/utils"
	"campuschat/internal/validators"
)

// AccountService fronts the campus account directory: session login and
// the profile lookups the chat handlers need.
type AccountService struct {
	accountRepo *repositories.AccountRepository
	config      *configs.Config
}

func NewAccountService(accountRepo *repositories.AccountRepository, config *configs.Config) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		config:      config,
	}
}

func (as *AccountService) Login(loginData *models.LoginRequestBody) (*models.LoginResponse, []error) {
	if validationErrs := validators.ValidateLogin(loginData); len(validationErrs) > 0 {
		return nil, validationErrs
	}

	user, loginErrs := as.accountRepo.Login(loginData)
	if len(loginErrs) > 0 {
		return nil, loginErrs
	}

	expiration := time.Now().Add(time.Duration(as.config.Viper.GetInt("jwt.expiration_time")) * time.Second)
	token, err := utils.CreateJwtToken(
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		utils.GetJwtKey(),
		expiration,
	)
	if err != nil {
		return nil, []error{err}
	}

	return &models.LoginResponse{
		User:  *user.ToUserResponse(),
		Token: token,
	}, nil
}

func (as *AccountService) GetUserByID(userID uint) (*models.User, error) {
	return as.accountRepo.GetUserByID(userID)
}

func (as *AccountService) GetAllUsersWithPagination(page, size int) (*models.GetUsersResponse, []error) {
	if page < 1 || size < 1 {
		return nil, []error{errs.ErrInvalidPageOrSize}
	}
	return as.accountRepo.GetAllUsersWithPagination(page, size)
}
