package notify

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
)

type fakeMessageCreator struct {
	params []*twilioApi.CreateMessageParams
	err    error
}

func (f *fakeMessageCreator) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	return &twilioApi.ApiV2010Message{}, nil
}

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"9876543210", "whatsapp:+919876543210"},
		{"98765 43210", "whatsapp:+919876543210"},
		{"919876543210", "whatsapp:+919876543210"},
		{"+919876543210", "whatsapp:+919876543210"},
		{"+1 555 010 9999", "whatsapp:+15550109999"},
		{"00919876543210", "whatsapp:+919876543210"},
		{"whatsapp:+919876543210", "whatsapp:+919876543210"},
		{"", ""},
		{"abc", ""},
		{"12345", ""},
		{"123456789012345", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeNumber(tt.raw))
		})
	}
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short text", snippet("short   text", whatsappSnippetLimit))
	assert.Equal(t, "multi line", snippet("multi\nline", whatsappSnippetLimit))

	long := strings.Repeat("word ", 50)
	got := snippet(long, whatsappSnippetLimit)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len([]rune(got)), whatsappSnippetLimit+1)
}

func TestSendIsBestEffort(t *testing.T) {
	// Unconfigured sender silently refuses everything.
	unconfigured := NewWhatsAppSender(config.TwilioConfig{})
	assert.False(t, unconfigured.Send("9876543210", "hello"))

	api := &fakeMessageCreator{}
	w := &WhatsAppSender{api: api, from: "whatsapp:+14155238886"}

	assert.False(t, w.Send("", "hello"))
	assert.False(t, w.Send("abc", "hello"))
	assert.False(t, w.Send("9876543210", "   "))
	assert.Empty(t, api.params)

	assert.True(t, w.Send("9876543210", "hello"))
	require.Len(t, api.params, 1)

	// Provider failures come back as false, never as a panic or error.
	api.err = errors.New("twilio 21608")
	assert.False(t, w.Send("9876543210", "hello again"))
}

func TestSendAttendanceUpdateFormatsStatus(t *testing.T) {
	api := &fakeMessageCreator{}
	w := &WhatsAppSender{api: api, from: "whatsapp:+14155238886"}

	ok := w.SendAttendanceUpdate("9876543210", "14 Mar 2025", "not_informed", "No call received")
	require.True(t, ok)
	require.Len(t, api.params, 1)
}
