package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gamehub-dev/gamehub/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) Update(user *models.User) error {
	return r.db.Omit(clause.Associations).Save(user).Error
}

// SaveAvatar creates or replaces the user's avatar row in place.
func (r *UserRepository) SaveAvatar(avatar *models.Avatar) error {
	return r.db.Save(avatar).Error
}

func (r *UserRepository) FindByID(id string) (*models.User, error) {
	return r.findOne("id = ?", id)
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	return r.findOne("email = ?", email)
}

func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	return r.findOne("username = ?", username)
}

func (r *UserRepository) findOne(cond string, arg string) (*models.User, error) {
	var user models.User

	err := r.db.Preload("Avatar").Where(cond, arg).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetAll returns one page of users and the total page count.
func (r *UserRepository) GetAll(page, size int) ([]models.User, int, error) {
	var total int64

	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User

	err := r.db.
		Scopes(Paginate(page, size)).
		Order("created_at ASC").
		Preload("Avatar").
		Find(&users).Error

	if err != nil {
		return nil, 0, err
	}

	return users, TotalPages(total, size), nil
}

// Delete removes the user together with their comments, avatar, and
// favorites. Authored articles are not touched.
func (r *UserRepository) Delete(user *models.User) error {
	if err := r.db.Where("author_id = ?", user.ID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}

	if err := r.db.Where("user_id = ?", user.ID).Delete(&models.Avatar{}).Error; err != nil {
		return err
	}

	if err := r.db.Exec("DELETE FROM user_favorites WHERE user_id = ?", user.ID).Error; err != nil {
		return err
	}

	return r.db.Delete(user).Error
}
