package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"maker3d-backend/internal/models"
)

type UserServiceTestSuite struct {
	suite.Suite
	db      *sql.DB
	service *UserService
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewUserService(suite.db)
}

func (suite *UserServiceTestSuite) register(name, email string) *models.User {
	user, err := suite.service.CreateUser(&models.UserRegistration{
		Name:     name,
		Email:    email,
		Password: "parola123",
	})
	suite.Require().NoError(err)
	return user
}

func (suite *UserServiceTestSuite) TestCreateUser() {
	user := suite.register("Ali Yılmaz", "Ali@Example.com")

	suite.Equal("ali@example.com", user.Email)
	suite.False(user.IsAdmin)
	suite.NotEqual("parola123", user.PasswordHash)
}

func (suite *UserServiceTestSuite) TestCreateUserDuplicateEmail() {
	suite.register("Ali", "ali@example.com")

	_, err := suite.service.CreateUser(&models.UserRegistration{
		Name:     "Sahtekar",
		Email:    "ALI@example.com",
		Password: "parola123",
	})
	suite.ErrorIs(err, ErrEmailTaken)
}

func (suite *UserServiceTestSuite) TestCreateUserValidation() {
	_, err := suite.service.CreateUser(&models.UserRegistration{
		Name:     "Ali",
		Email:    "bu-eposta-degil",
		Password: "parola123",
	})
	suite.Error(err)

	_, err = suite.service.CreateUser(&models.UserRegistration{
		Name:     "Ali",
		Email:    "ali@example.com",
		Password: "123",
	})
	suite.Error(err)
}

func (suite *UserServiceTestSuite) TestAuthenticate() {
	suite.register("Ali", "ali@example.com")

	user, err := suite.service.Authenticate(&models.UserLogin{
		Email:    "ali@example.com",
		Password: "parola123",
	})
	suite.NoError(err)
	suite.Equal("Ali", user.Name)

	_, err = suite.service.Authenticate(&models.UserLogin{
		Email:    "ali@example.com",
		Password: "yanlış",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)

	_, err = suite.service.Authenticate(&models.UserLogin{
		Email:    "yok@example.com",
		Password: "parola123",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *UserServiceTestSuite) TestUpdateProfilePartial() {
	user := suite.register("Ali", "ali@example.com")

	phone := "+905551112233"
	updated, err := suite.service.UpdateProfile(user.ID, &models.UserProfileUpdate{
		Phone: &phone,
	})
	suite.NoError(err)
	suite.Equal("+905551112233", updated.Phone)
	suite.Equal("Ali", updated.Name)
	suite.Equal("ali@example.com", updated.Email)
}

func (suite *UserServiceTestSuite) TestUpdateProfilePasswordChange() {
	user := suite.register("Ali", "ali@example.com")

	newPassword := "yeniparola"
	_, err := suite.service.UpdateProfile(user.ID, &models.UserProfileUpdate{
		Password: &newPassword,
	})
	suite.NoError(err)

	_, err = suite.service.Authenticate(&models.UserLogin{
		Email:    "ali@example.com",
		Password: "yeniparola",
	})
	suite.NoError(err)
}

func (suite *UserServiceTestSuite) TestAddressDefaultExclusivity() {
	user := suite.register("Ali", "ali@example.com")

	addresses, err := suite.service.AddAddress(user.ID, &models.AddressCreate{
		AddressName: "Ev",
		Address:     "Atatürk Cad. No:1",
		City:        "İstanbul",
		IsDefault:   true,
	})
	suite.NoError(err)
	suite.Len(addresses, 1)
	suite.True(addresses[0].IsDefault)
	suite.Equal("home", addresses[0].AddressType)

	addresses, err = suite.service.AddAddress(user.ID, &models.AddressCreate{
		AddressType: "work",
		AddressName: "İş",
		Address:     "Plaza Kat:4",
		City:        "Ankara",
		IsDefault:   true,
	})
	suite.NoError(err)
	suite.Len(addresses, 2)

	// Only one default at a time
	defaults := 0
	for _, a := range addresses {
		if a.IsDefault {
			defaults++
			suite.Equal("İş", a.AddressName)
		}
	}
	suite.Equal(1, defaults)
}

func (suite *UserServiceTestSuite) TestUpdateAndDeleteAddress() {
	user := suite.register("Ali", "ali@example.com")

	addresses, err := suite.service.AddAddress(user.ID, &models.AddressCreate{
		AddressName: "Ev",
		Address:     "Atatürk Cad. No:1",
		City:        "İstanbul",
	})
	suite.NoError(err)

	city := "İzmir"
	addresses, err = suite.service.UpdateAddress(user.ID, addresses[0].ID, &models.AddressUpdate{
		City: &city,
	})
	suite.NoError(err)
	suite.Equal("İzmir", addresses[0].City)
	suite.Equal("Ev", addresses[0].AddressName)

	_, err = suite.service.UpdateAddress(user.ID, "missing", &models.AddressUpdate{City: &city})
	suite.ErrorIs(err, ErrAddressNotFound)

	addresses, err = suite.service.DeleteAddress(user.ID, addresses[0].ID)
	suite.NoError(err)
	suite.Len(addresses, 0)
}

func (suite *UserServiceTestSuite) TestWishlist() {
	user := suite.register("Ali", "ali@example.com")
	product := createTestProduct(suite.T(), suite.db, "PLA", 450.0, 10)

	items, err := suite.service.AddToWishlist(user.ID, product.ID)
	suite.NoError(err)
	suite.Len(items, 1)
	suite.NotNil(items[0].Product)
	suite.Equal("PLA", items[0].Product.Name)

	_, err = suite.service.AddToWishlist(user.ID, product.ID)
	suite.ErrorIs(err, ErrAlreadyInWishlist)

	_, err = suite.service.AddToWishlist(user.ID, "missing")
	suite.ErrorIs(err, ErrProductNotFound)

	items, err = suite.service.RemoveFromWishlist(user.ID, product.ID)
	suite.NoError(err)
	suite.Len(items, 0)
}

func (suite *UserServiceTestSuite) TestAdminUpdateUser() {
	user := suite.register("Ali", "ali@example.com")

	isAdmin := true
	updated, err := suite.service.AdminUpdateUser(user.ID, &models.AdminUserUpdate{
		IsAdmin: &isAdmin,
	})
	suite.NoError(err)
	suite.True(updated.IsAdmin)
	suite.Equal("Ali", updated.Name)
}

func (suite *UserServiceTestSuite) TestDeleteUser() {
	user := suite.register("Ali", "ali@example.com")

	suite.NoError(suite.service.DeleteUser(user.ID))
	suite.ErrorIs(suite.service.DeleteUser(user.ID), ErrUserNotFound)
}

func (suite *UserServiceTestSuite) TestListUsers() {
	suite.register("Ali", "ali@example.com")
	suite.register("Veli", "veli@example.com")

	users, err := suite.service.ListUsers()
	suite.NoError(err)
	suite.Len(users, 2)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
