package repositories

import (
	"campuschat/internal/errs"
	"campuschat/internal/models"
	"campuschat/internal/utils"

	"gorm.io/gorm"
)

// AccountRepository reads the campus account directory. Accounts are
// written by the account import subsystem; the chat server only needs
// lookups, existence checks and the credential comparison for login.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

func (ar *AccountRepository) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	result := ar.db.First(&user, userID)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errs.ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func (ar *AccountRepository) CheckUserExists(userID uint) bool {
	var count int64
	ar.db.Model(&models.User{}).Where("id = ?", userID).Count(&count)
	return count > 0
}

func (ar *AccountRepository) GetUserByEmail(email string) *models.User {
	var user models.User
	result := ar.db.Where("email = ?", email).First(&user)
	if result.Error == nil && result.RowsAffected > 0 {
		return &user
	}
	return nil
}

func (ar *AccountRepository) Login(login *models.LoginRequestBody) (*models.User, []error) {
	var errors []error
	user := ar.GetUserByEmail(login.Email)
	if user == nil {
		errors = append(errors, errs.ErrUserNotFound)
		return nil, errors
	}
	if err := utils.CompareHashAndPassword(user.PasswordHash, login.Password); err != nil {
		errors = append(errors, errs.ErrWrongPassword)
		return nil, errors
	}
	return user, nil
}

// EnsureAdminAccount seeds one administrator when the directory is
// empty, so the server is reachable before the first account import
// runs. A non-empty directory is left untouched.
func (ar *AccountRepository) EnsureAdminAccount(email, password string) error {
	var count int64
	if err := ar.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	return ar.db.Create(&models.User{
		FirstName:    "Campus",
		LastName:     "Administrator",
		Email:        email,
		PasswordHash: hash,
		CampusWide:   true,
		Permissions:  models.PermissionSet{"chats": {"view", "edit"}},
	}).Error
}

func (ar *AccountRepository) GetAllUsersWithPagination(page, size int) (*models.GetUsersResponse, []error) {
	var errors []error
	var users []models.User
	var total int64

	if err := ar.db.
		Scopes(utils.Paginate(page, size)).
		Order("last_name ASC, first_name ASC").
		Find(&users).Error; err != nil {
		errors = append(errors, err)
		return nil, errors
	}

	if err := ar.db.Model(&models.User{}).Count(&total).Error; err != nil {
		errors = append(errors, err)
		return nil, errors
	}

	userResponses := make([]*models.UserResponse, 0, len(users))
	for _, user := range users {
		userResponses = append(userResponses, user.ToUserResponse())
	}

	return &models.GetUsersResponse{
		Users: userResponses,
		Page:  page,
		Size:  size,
		Total: total,
	}, nil
}
