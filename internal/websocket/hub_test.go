package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bookswap/bookswap-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// register a connectionless client directly; the pumps are never started
// so the nil conn is never touched
func newTestClient(hub *Hub, accountID uint) *Client {
	return NewClient(hub, nil, accountID, nil)
}

func waitForEvent(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.send:
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected event: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func testMessage(id, senderID, recipientID uint) *models.Message {
	return &models.Message{
		ID:          id,
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        "hello",
		SentAt:      time.Now(),
	}
}

func TestHub_NotifyReachesAllRecipientConnections(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	phone := newTestClient(hub, 1)
	laptop := newTestClient(hub, 1)
	hub.Register(phone)
	hub.Register(laptop)

	// Wait for registration to land
	require.Eventually(t, func() bool {
		return hub.ConnectionCount(1) == 2
	}, time.Second, 5*time.Millisecond)

	sender := models.PublicIdentity{ID: 2, DisplayName: "bob"}
	hub.NotifyNewMessage(1, testMessage(10, 2, 1), sender, 3)

	for _, client := range []*Client{phone, laptop} {
		var event Event
		require.NoError(t, json.Unmarshal(waitForEvent(t, client), &event))
		assert.Equal(t, EventTypeNewMessage, event.Type)

		payload := event.Payload.(map[string]interface{})
		assert.Equal(t, float64(10), payload["message_id"])
		assert.Equal(t, float64(3), payload["unread_total"])
	}
}

func TestHub_NotifyDoesNotLeakToOtherAccounts(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	recipient := newTestClient(hub, 1)
	bystander := newTestClient(hub, 3)
	hub.Register(recipient)
	hub.Register(bystander)

	require.Eventually(t, func() bool {
		return hub.ConnectionCount(1) == 1 && hub.ConnectionCount(3) == 1
	}, time.Second, 5*time.Millisecond)

	hub.NotifyNewMessage(1, testMessage(10, 2, 1), models.PublicIdentity{ID: 2}, 1)

	waitForEvent(t, recipient)
	assertNoEvent(t, bystander)
}

func TestHub_NotifyWithNoConnectionsIsDropped(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	// Nobody connected for account 7; must not block or panic
	hub.NotifyNewMessage(7, testMessage(10, 2, 7), models.PublicIdentity{ID: 2}, 1)

	assert.Equal(t, 0, hub.ConnectionCount(7))
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	client := newTestClient(hub, 1)
	hub.Register(client)
	require.Eventually(t, func() bool {
		return hub.ConnectionCount(1) == 1
	}, time.Second, 5*time.Millisecond)

	hub.Unregister(client)
	require.Eventually(t, func() bool {
		return hub.ConnectionCount(1) == 0
	}, time.Second, 5*time.Millisecond)

	// Channel is closed on unregister
	_, open := <-client.send
	assert.False(t, open)
}
