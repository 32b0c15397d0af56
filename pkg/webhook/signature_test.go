package webhook_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/finkit/pkg/webhook"
)

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	const secret = "whsec_k3H9d2Lq"
	payload := []byte(`{"event_id":"evt_901","account_id":"acc_42","amount":"150.00","status":"posted"}`)
	signature := webhook.Sign(payload, secret)

	t.Run("exact digest verifies", func(t *testing.T) {
		t.Parallel()

		assert.True(t, webhook.VerifySignature(payload, signature, secret))
	})

	t.Run("uppercase hex digest verifies", func(t *testing.T) {
		t.Parallel()

		assert.True(t, webhook.VerifySignature(payload, strings.ToUpper(signature), secret))
	})

	t.Run("tampered payload fields are rejected", func(t *testing.T) {
		t.Parallel()

		tampered := []struct {
			name string
			body string
		}{
			{"amount changed", `{"event_id":"evt_901","account_id":"acc_42","amount":"950.00","status":"posted"}`},
			{"account id changed", `{"event_id":"evt_901","account_id":"acc_43","amount":"150.00","status":"posted"}`},
			{"status changed", `{"event_id":"evt_901","account_id":"acc_42","amount":"150.00","status":"voided"}`},
			{"trailing byte appended", `{"event_id":"evt_901","account_id":"acc_42","amount":"150.00","status":"posted"} `},
		}
		for _, tc := range tampered {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				assert.False(t, webhook.VerifySignature([]byte(tc.body), signature, secret))
			})
		}
	})

	t.Run("single flipped signature character is rejected", func(t *testing.T) {
		t.Parallel()

		flipped := []byte(signature)
		if flipped[0] == 'a' {
			flipped[0] = 'b'
		} else {
			flipped[0] = 'a'
		}

		assert.False(t, webhook.VerifySignature(payload, string(flipped), secret))
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		t.Parallel()

		assert.False(t, webhook.VerifySignature(payload, signature, "whsec_k3H9d2Lr"))
	})

	t.Run("fail-closed inputs", func(t *testing.T) {
		t.Parallel()

		assert.False(t, webhook.VerifySignature(payload, signature, ""), "empty secret")
		assert.False(t, webhook.VerifySignature(payload, "", secret), "empty signature")
		assert.False(t, webhook.VerifySignature(payload, "not-hex-at-all", secret), "malformed signature")
		assert.False(t, webhook.VerifySignature(payload, signature[:32], secret), "truncated signature")
	})

	t.Run("empty payload still binds to the secret", func(t *testing.T) {
		t.Parallel()

		empty := []byte{}
		require.True(t, webhook.VerifySignature(empty, webhook.Sign(empty, secret), secret))
		assert.False(t, webhook.VerifySignature(empty, webhook.Sign(empty, "other"), secret))
	})
}
