package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(validPorts())
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, server.session)
	})

	t.Run("missing research service returns error", func(t *testing.T) {
		ports := validPorts()
		ports.Research = nil
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingResearchService)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("all required ports set", func(t *testing.T) {
		assert.NoError(t, validPorts().Validate())
	})

	t.Run("missing market service", func(t *testing.T) {
		ports := validPorts()
		ports.Market = nil
		assert.ErrorIs(t, ports.Validate(), ErrMissingMarketService)
	})

	t.Run("missing chat service", func(t *testing.T) {
		ports := validPorts()
		ports.Chat = nil
		assert.ErrorIs(t, ports.Validate(), ErrMissingChatService)
	})

	t.Run("history is optional", func(t *testing.T) {
		ports := validPorts()
		ports.History = nil
		assert.NoError(t, ports.Validate())
	})
}
