package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"silentlibrary/internal/model"
)

func TestUserService_UpdateUsernameEmail(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)

	current := func() *model.User {
		return &model.User{
			ID:           1,
			Username:     "reader1",
			Email:        "reader1@example.com",
			PasswordHash: string(hashed),
		}
	}

	t.Run("success", func(t *testing.T) {
		mRepo := new(MockUserRepository)
		mRepo.On("FindByID", mock.Anything, uint(1)).Return(current(), nil)
		mRepo.On("FindByUsername", mock.Anything, "reader2").Return(nil, gorm.ErrRecordNotFound)
		mRepo.On("FindByEmail", mock.Anything, "reader2@example.com").Return(nil, gorm.ErrRecordNotFound)
		mRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewUserService(mRepo)
		user, err := svc.UpdateUsernameEmail(context.Background(), 1, "reader2", "reader2@example.com", "password123")

		assert.NoError(t, err)
		assert.Equal(t, "reader2", user.Username)
		assert.Equal(t, "reader2@example.com", user.Email)
		mRepo.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		mRepo := new(MockUserRepository)
		mRepo.On("FindByID", mock.Anything, uint(1)).Return(current(), nil)

		svc := NewUserService(mRepo)
		user, err := svc.UpdateUsernameEmail(context.Background(), 1, "reader2", "reader2@example.com", "wrong")

		assert.ErrorIs(t, err, ErrIncorrectPassword)
		assert.Nil(t, user)
		mRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("new username already taken", func(t *testing.T) {
		mRepo := new(MockUserRepository)
		mRepo.On("FindByID", mock.Anything, uint(1)).Return(current(), nil)
		mRepo.On("FindByUsername", mock.Anything, "taken").Return(&model.User{ID: 2, Username: "taken"}, nil)

		svc := NewUserService(mRepo)
		user, err := svc.UpdateUsernameEmail(context.Background(), 1, "taken", "reader1@example.com", "password123")

		assert.ErrorIs(t, err, ErrUsernameTaken)
		assert.Nil(t, user)
	})

	t.Run("keeping the same username skips the uniqueness check", func(t *testing.T) {
		mRepo := new(MockUserRepository)
		mRepo.On("FindByID", mock.Anything, uint(1)).Return(current(), nil)
		mRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewUserService(mRepo)
		user, err := svc.UpdateUsernameEmail(context.Background(), 1, "reader1", "reader1@example.com", "password123")

		assert.NoError(t, err)
		assert.Equal(t, "reader1", user.Username)
		mRepo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
		mRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), 10)

	t.Run("success rehashes the password", func(t *testing.T) {
		user := &model.User{ID: 1, Username: "reader1", PasswordHash: string(hashed)}
		mRepo := new(MockUserRepository)
		mRepo.On("FindByID", mock.Anything, uint(1)).Return(user, nil)
		mRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewUserService(mRepo)
		err := svc.ChangePassword(context.Background(), 1, "oldpassword", "NewS3cret!")

		assert.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("NewS3cret!")))
		mRepo.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		mRepo := new(MockUserRepository)
		mRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, PasswordHash: string(hashed)}, nil)

		svc := NewUserService(mRepo)
		err := svc.ChangePassword(context.Background(), 1, "nope", "NewS3cret!")

		assert.ErrorIs(t, err, ErrIncorrectPassword)
		mRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	mRepo := new(MockUserRepository)
	mRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, FirstName: "Old", LastName: "Name"}, nil)
	mRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	svc := NewUserService(mRepo)
	user, err := svc.UpdateProfile(context.Background(), 1, "Rita", "Reader")

	assert.NoError(t, err)
	assert.Equal(t, "Rita", user.FirstName)
	assert.Equal(t, "Reader", user.LastName)
	mRepo.AssertExpectations(t)
}
