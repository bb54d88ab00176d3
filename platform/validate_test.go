package platform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(v Violations) []string {
	fields := make([]string, len(v))
	for i, violation := range v {
		fields[i] = violation.Field
	}
	return fields
}

func TestRegisterFormValid(t *testing.T) {
	form := RegisterForm{Username: "dungeon_master", Email: "dm@example.com", Password: "hunter22"}
	assert.Nil(t, Validate(&form))
}

func TestRegisterFormCollectsAllViolations(t *testing.T) {
	form := RegisterForm{Username: "x!", Email: "not-an-email", Password: ""}
	violations := Validate(&form)
	require.NotNil(t, violations)
	// One failure per bad field, not just the first.
	assert.ElementsMatch(t, []string{"username", "email", "password"}, fieldsOf(violations))
}

func TestUsernameRules(t *testing.T) {
	cases := []struct {
		username string
		ok       bool
	}{
		{"abc", true},
		{"Player_One2", true},
		{"ab", false},                     // too short
		{strings.Repeat("a", 21), false},  // too long
		{"with space", false},
		{"hyphen-ated", false},
		{"", false},
	}
	for _, tc := range cases {
		form := RegisterForm{Username: tc.username, Email: "a@b.com", Password: "secret1"}
		violations := Validate(&form)
		if tc.ok {
			assert.Nil(t, violations, "username %q should pass", tc.username)
		} else {
			assert.NotNil(t, violations, "username %q should fail", tc.username)
		}
	}
}

func TestRegisterFormNormalize(t *testing.T) {
	form := RegisterForm{Username: " Играч ", Email: " DM@Example.COM ", Password: "secret1"}
	form.Normalize()
	assert.Equal(t, "dm@example.com", form.Email)
	assert.Equal(t, "Играч", form.Username)
}

func TestProfileUpdateClanEnum(t *testing.T) {
	assert.Nil(t, Validate(&ProfileUpdateForm{Clan: "Triskelion"}))
	assert.Nil(t, Validate(&ProfileUpdateForm{Clan: ""})) // no affiliation
	assert.NotNil(t, Validate(&ProfileUpdateForm{Clan: "Stark"}))
	assert.NotNil(t, Validate(&ProfileUpdateForm{Bio: strings.Repeat("a", 1001)}))
}

func TestCampaignFormStatusEnum(t *testing.T) {
	form := CampaignForm{Title: "A", System: "D&D 5e", Description: "desc", Status: "Recrutando"}
	assert.Nil(t, Validate(&form))

	form.Status = "Aberta"
	violations := Validate(&form)
	require.NotNil(t, violations)
	assert.Contains(t, violations.Error(), "must be one of")
}

func TestWorkshopItemForm(t *testing.T) {
	form := WorkshopItemForm{
		Title:       "Homebrew bestiary",
		Description: "Fifty new monsters for low-level parties.",
		System:      "D&D 5e",
		Type:        "supplement",
		PriceCents:  0,
	}
	assert.Nil(t, Validate(&form))

	form.Description = "too short"
	assert.NotNil(t, Validate(&form))

	form.Description = "long enough description"
	form.PriceCents = -5
	assert.NotNil(t, Validate(&form))
}

func TestThreadAndPostForms(t *testing.T) {
	assert.Nil(t, Validate(&ThreadForm{Title: "Session zero tips", Content: "What works for you?"}))
	assert.NotNil(t, Validate(&ThreadForm{Title: "", Content: "hey"}))
	assert.Nil(t, Validate(&PostForm{Content: "+1"}))
	assert.NotNil(t, Validate(&PostForm{Content: ""}))
}

func TestGuildForm(t *testing.T) {
	assert.Nil(t, Validate(&GuildForm{Name: "Ordem de Versalles", Tag: "OV"}))
	assert.NotNil(t, Validate(&GuildForm{Name: "ab"}))
	assert.NotNil(t, Validate(&GuildForm{Name: "Valid name", Tag: "TOOBIG"}))
}
