package clerkdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	u := UserData{Username: "ratinha", FirstName: "Ana", LastName: "Silva"}
	assert.Equal(t, "ratinha", u.DisplayName())

	u.Username = ""
	assert.Equal(t, "AnaSilva", u.DisplayName())
}

func TestPrimaryEmail(t *testing.T) {
	u := UserData{
		PrimaryEmailID: "eml_2",
		EmailAddresses: []EmailAddress{
			{ID: "eml_1", EmailAddress: "old@example.com"},
			{ID: "eml_2", EmailAddress: "main@example.com"},
		},
	}
	assert.Equal(t, "main@example.com", u.PrimaryEmail())

	// unknown primary id falls back to the first address
	u.PrimaryEmailID = "eml_9"
	assert.Equal(t, "old@example.com", u.PrimaryEmail())

	assert.Equal(t, "", UserData{}.PrimaryEmail())
}

func TestAvatar(t *testing.T) {
	u := UserData{ImageURL: "https://img.clerk.com/a", ProfileImageURL: "https://provider/b"}
	assert.Equal(t, "https://img.clerk.com/a", u.Avatar())

	u.ImageURL = ""
	assert.Equal(t, "https://provider/b", u.Avatar())
}
