package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterRoundTripPreservesOrder(t *testing.T) {
	cases := []struct {
		name   string
		roster Roster
	}{
		{name: "single", roster: Roster{{Type: TypeGuerrier, Name: "Conan"}}},
		{name: "flow preset", roster: FlowRoster()},
		{name: "docker preset", roster: DockerRoster()},
		{name: "unknown type kept", roster: Roster{{Type: "dragon", Name: "Smaug"}, {Type: TypeZombie, Name: "Bob"}}},
		{name: "unicode names", roster: Roster{{Type: TypePretre, Name: "Éloïse"}, {Type: TypeRobot, Name: "R2 \"D2\""}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := EncodeRoster(tc.roster)
			require.NoError(t, err)

			got, err := DecodeRoster(data)
			require.NoError(t, err)
			assert.Equal(t, tc.roster, got)
		})
	}
}

func TestEncodeRosterWireShape(t *testing.T) {
	data, err := EncodeRoster(Roster{
		{Type: TypeGuerrier, Name: "Conan"},
		{Type: TypeMagicien, Name: "Merlin"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"guerrier","name":"Conan"},{"type":"magicien","name":"Merlin"}]`, string(data))
}

func TestEncodeNilRosterIsEmptyArray(t *testing.T) {
	data, err := EncodeRoster(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDecodeRosterRejectsObject(t *testing.T) {
	_, err := DecodeRoster([]byte(`{"type":"guerrier"}`))
	assert.Error(t, err)
}

func TestUnknownTypes(t *testing.T) {
	r := Roster{{Type: TypeVampire, Name: "Vlad"}, {Type: "chevalier", Name: "Lancelot"}}
	assert.Equal(t, []Character{{Type: "chevalier", Name: "Lancelot"}}, r.Unknown())
	assert.Empty(t, BasicRoster().Unknown())
	assert.Len(t, CharacterTypes, 12)
}
