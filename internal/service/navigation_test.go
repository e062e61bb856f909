package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNavigationHistory(t *testing.T) {
	t.Run("StartsAtRoot", func(t *testing.T) {
		h := NewNavigationHistory("me")
		assert.Equal(t, "me", h.Current())
		assert.Equal(t, 1, h.Depth())
	})

	t.Run("NavigateAndBack", func(t *testing.T) {
		h := NewNavigationHistory("me")
		h.NavigateTo("p1")
		h.NavigateTo("gp1")

		assert.Equal(t, "gp1", h.Current())
		assert.Equal(t, 3, h.Depth())

		assert.Equal(t, "p1", h.GoBack())
		assert.Equal(t, "me", h.GoBack())
	})

	t.Run("RepeatedNavigationIsNoOp", func(t *testing.T) {
		h := NewNavigationHistory("me")
		h.NavigateTo("p1")
		h.NavigateTo("p1")

		assert.Equal(t, 2, h.Depth())
	})

	t.Run("BackPastRootIsNoOp", func(t *testing.T) {
		h := NewNavigationHistory("me")
		assert.Equal(t, "me", h.GoBack())
		assert.Equal(t, 1, h.Depth())
	})

	t.Run("GoToRootClearsStack", func(t *testing.T) {
		h := NewNavigationHistory("me")
		h.NavigateTo("p1")
		h.NavigateTo("gp1")

		assert.Equal(t, "me", h.GoToRoot())
		assert.Equal(t, 1, h.Depth())
	})
}

func TestNavigationSessions(t *testing.T) {
	sessions := NewNavigationSessions()

	first := sessions.Get("viewer-1")
	first.NavigateTo("p1")

	// Same viewer gets the same history back
	assert.Equal(t, "p1", sessions.Get("viewer-1").Current())

	// Other viewers are isolated
	assert.Equal(t, "viewer-2", sessions.Get("viewer-2").Current())

	sessions.Reset("viewer-1")
	assert.Equal(t, "viewer-1", sessions.Get("viewer-1").Current())
}
