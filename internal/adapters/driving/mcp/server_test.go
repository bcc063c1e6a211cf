package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil retrieve service returns error", func(t *testing.T) {
		ports := &Ports{Assistant: &mockAssistantService{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingRetrieveService)
	})

	t.Run("nil assistant service returns error", func(t *testing.T) {
		ports := &Ports{Retrieve: &mockRetrieveService{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingAssistantService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Retrieve:  &mockRetrieveService{},
			Assistant: &mockAssistantService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("required ports only is valid", func(t *testing.T) {
		ports := &Ports{
			Retrieve:  &mockRetrieveService{},
			Assistant: &mockAssistantService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Retrieve:  &mockRetrieveService{},
			Assistant: &mockAssistantService{},
			Ingest:    &mockIngestService{},
			Monitor:   &mockMonitorService{},
			Tenants:   &mockTenantStore{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}
