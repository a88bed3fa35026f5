package pipelineerrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorMatching(t *testing.T) {
	t.Run("errors.Is сравнивает по коду", func(t *testing.T) {
		err := DuplicateRound(2)
		require.ErrorIs(t, err, ErrDuplicateRound)
		require.NotErrorIs(t, err, ErrInvalidRoundNumber)
	})
	t.Run("обернутая ошибка сохраняет тип", func(t *testing.T) {
		err := errors.Wrap(ConcurrentModification("offer", "1"), "продление оффера")
		require.ErrorIs(t, err, ErrConcurrentModification)
		require.True(t, IsConcurrency(err))
		require.False(t, IsValidation(err))
		pErr, ok := As(err)
		require.True(t, ok)
		require.Equal(t, CodeConcurrentModification, pErr.Code)
	})
	t.Run("классификация", func(t *testing.T) {
		require.True(t, IsNotFound(NotFound("application", "1")))
		require.True(t, IsNotFound(ParticipantNotFound("1")))
		require.True(t, IsValidation(InvalidTransition("нельзя")))
		require.False(t, IsValidation(errors.New("db down")))
	})
	t.Run("текст ошибки", func(t *testing.T) {
		require.Equal(t, "ReasonRequired: не указана причина", ReasonRequired().Error())
		require.Equal(t, "NotFound", ErrNotFound.Error())
	})
}
