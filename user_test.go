package cfp

import (
	"testing"

	"github.com/matryer/is"
	"golang.org/x/crypto/bcrypt"
)

func TestUserCanView(t *testing.T) {
	is := is.New(t)
	talk := &Talk{ID: 3, UserID: 7}

	var anon *User
	is.True(!anon.CanView(talk))
	is.True(!(&User{}).CanView(talk))
	is.True((&User{ID: 7}).CanView(talk))
	is.True(!(&User{ID: 8}).CanView(talk))
	is.True((&User{ID: 8, Admin: true}).CanView(talk))
	is.True(!(&User{ID: 7}).CanView(nil))
}

func TestHashPassword(t *testing.T) {
	is := is.New(t)
	hash, err := HashPassword("hunter22")
	is.NoErr(err)
	is.True(hash != "hunter22")
	is.NoErr(bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter22")))
}
