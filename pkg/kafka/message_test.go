package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListUpdate(t *testing.T) {
	t.Run("text update", func(t *testing.T) {
		msg := &IncomingMessage{
			Value: []byte(`{"type":"list.updated","tenant_id":"t1","source":"text","text":"QDi.001 Name: Test"}`),
		}

		require.NoError(t, msg.ParseListUpdate())
		require.NotNil(t, msg.ListUpdate)
		assert.Equal(t, "t1", msg.ListUpdate.TenantID)
		assert.Equal(t, "text", msg.ListUpdate.Source)
		assert.Equal(t, "QDi.001 Name: Test", msg.ListUpdate.Text)
		assert.Nil(t, msg.ListUpdate.Tree)
	})

	t.Run("xml update", func(t *testing.T) {
		msg := &IncomingMessage{
			Value: []byte(`{"type":"list.updated","tenant_id":"t1","source":"xml","tree":{"CONSOLIDATED_LIST":{}}}`),
		}

		require.NoError(t, msg.ParseListUpdate())
		assert.Equal(t, "xml", msg.ListUpdate.Source)
		assert.Contains(t, msg.ListUpdate.Tree, "CONSOLIDATED_LIST")
	})

	t.Run("invalid json errors", func(t *testing.T) {
		msg := &IncomingMessage{Value: []byte(`not json`)}
		assert.Error(t, msg.ParseListUpdate())
		assert.Nil(t, msg.ListUpdate)
	})
}

func TestIsListUpdate(t *testing.T) {
	t.Run("type header wins", func(t *testing.T) {
		msg := &IncomingMessage{
			Headers: map[string]string{"type": "list.updated"},
			Value:   []byte(`{}`),
		}
		assert.True(t, msg.IsListUpdate())
	})

	t.Run("falls back to body type", func(t *testing.T) {
		msg := &IncomingMessage{
			Headers: map[string]string{},
			Value:   []byte(`{"type":"list.updated"}`),
		}
		assert.True(t, msg.IsListUpdate())
	})

	t.Run("other message types are rejected", func(t *testing.T) {
		msg := &IncomingMessage{
			Headers: map[string]string{"type": "entity.updated"},
			Value:   []byte(`{"type":"entity.updated"}`),
		}
		assert.False(t, msg.IsListUpdate())
	})

	t.Run("unparseable body is rejected", func(t *testing.T) {
		msg := &IncomingMessage{Headers: map[string]string{}, Value: []byte(`garbage`)}
		assert.False(t, msg.IsListUpdate())
	})
}

func TestGetTenantIDAndSource(t *testing.T) {
	t.Run("body values win", func(t *testing.T) {
		msg := &IncomingMessage{
			Headers:    map[string]string{"tenant_id": "header-tenant", "source": "xml"},
			ListUpdate: &ListUpdateMessage{TenantID: "body-tenant", Source: "text"},
		}
		assert.Equal(t, "body-tenant", msg.GetTenantID())
		assert.Equal(t, "text", msg.GetSource())
	})

	t.Run("headers fill missing body values", func(t *testing.T) {
		msg := &IncomingMessage{
			Headers:    map[string]string{"tenant_id": "header-tenant", "source": "xml"},
			ListUpdate: &ListUpdateMessage{},
		}
		assert.Equal(t, "header-tenant", msg.GetTenantID())
		assert.Equal(t, "xml", msg.GetSource())
	})

	t.Run("unparsed message uses headers", func(t *testing.T) {
		msg := &IncomingMessage{Headers: map[string]string{"tenant_id": "t1"}}
		assert.Equal(t, "t1", msg.GetTenantID())
	})
}
