package webhook

import (
	"errors"
	"net/http"
)

// Response is the transport-level acknowledgment for one delivery.
type Response struct {
	StatusCode int
	Body       Ack
}

// Ack is the response body sent back to the provider. It deliberately leaks
// nothing about internal processing beyond the delivery correlation id.
type Ack struct {
	Status     string `json:"status"`
	DeliveryID string `json:"delivery_id,omitempty"`
}

const (
	ackOK               = "ok"
	ackDuplicate        = "duplicate"
	ackInvalidSignature = "invalid_signature"
)

// NewResponse maps a Process outcome to its acknowledgment. An invalid
// signature is the only client error; every outcome after a valid signature
// acknowledges with 200 so the provider stops redelivering, including
// duplicates and business logic failures.
func NewResponse(result Result, err error) Response {
	if err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			return Response{
				StatusCode: http.StatusUnauthorized,
				Body:       Ack{Status: ackInvalidSignature},
			}
		}
		// Process only fails on signature rejection today; anything else is
		// still withheld from the provider as a client error.
		return Response{
			StatusCode: http.StatusBadRequest,
			Body:       Ack{Status: "invalid_request"},
		}
	}

	status := ackOK
	if result.Duplicate {
		status = ackDuplicate
	}
	return Response{
		StatusCode: http.StatusOK,
		Body: Ack{
			Status:     status,
			DeliveryID: result.DeliveryID,
		},
	}
}
