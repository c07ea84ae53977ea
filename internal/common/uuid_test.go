package common

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

func TestParseUUIDRoundTrip(t *testing.T) {
	raw := uuid.NewString()
	id, err := ParseUUID(" " + raw + " ")
	require.NoError(t, err)
	require.True(t, id.Valid)
	require.Equal(t, raw, UUIDString(id))

	_, err = ParseUUID("not-a-uuid")
	require.Error(t, err)
}

func TestUUIDEqual(t *testing.T) {
	a, _ := ParseUUID(uuid.NewString())
	b := a
	require.True(t, UUIDEqual(a, b))
	require.False(t, UUIDEqual(a, pgtype.UUID{}))
	require.False(t, UUIDEqual(pgtype.UUID{}, pgtype.UUID{}))
}

func TestNullableHelpers(t *testing.T) {
	require.Nil(t, NullableUUID(pgtype.UUID{}))
	require.Nil(t, NullableText(pgtype.Text{}))
	text := NullableText(pgtype.Text{String: "hola", Valid: true})
	require.NotNil(t, text)
	require.Equal(t, "hola", *text)
	require.Equal(t, "", UUIDString(pgtype.UUID{}))
}
