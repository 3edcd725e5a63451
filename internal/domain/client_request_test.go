package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientRequest_WhatsAppContactURL(t *testing.T) {
	r := &ClientRequest{
		FullName:    "Juan Pérez",
		PhoneNumber: "+5491122334455",
		Title:       "Ford Fiesta 2018",
	}

	url := r.WhatsAppContactURL()

	// Only the "+" is stripped from the number.
	assert.Contains(t, url, "https://wa.me/5491122334455?text=")
	assert.NotContains(t, url, "+549")
	// The message is query-escaped.
	assert.Contains(t, url, "Hola+Juan+P%C3%A9rez%21")
	assert.Contains(t, url, "Ford+Fiesta+2018")
}

func TestClientRequest_Lifecycle(t *testing.T) {
	r := &ClientRequest{Status: RequestStatusPending}
	assert.True(t, r.IsPending())

	r.Status = RequestStatusApproved
	assert.False(t, r.IsPending())

	r.Status = RequestStatusRejected
	assert.False(t, r.IsPending())
}

func TestClientRequest_IsPlus(t *testing.T) {
	assert.True(t, (&ClientRequest{PublicationType: PublicationTypePlus}).IsPlus())
	assert.False(t, (&ClientRequest{PublicationType: PublicationTypeFree}).IsPlus())
}
